package combobox

import (
	"errors"
	"fmt"
	"strings"
)

// Option represents a single selectable row.
//
// Value identifies the option inside a selection, Label is what the user sees
// and is always matched against the search text. Sublabel and Icon are
// optional decorations. An option with IsAction set is a command row (for
// example "create new record"): it cannot be selected and activating it emits
// an ActionEvent instead of a ChangeEvent.
//
// Hidden is derived state. It is recomputed by the engine every time the
// option list, the search text or the selection changes; whatever the host
// puts there is discarded.
type Option struct {
	Value    string `json:"value" mapstructure:"value"`
	Label    string `json:"label" mapstructure:"label"`
	Sublabel string `json:"sublabel,omitempty" mapstructure:"sublabel"`
	Icon     string `json:"icon,omitempty" mapstructure:"icon"`
	IsAction bool   `json:"isAction,omitempty" mapstructure:"isAction"`
	Hidden   bool   `json:"-" mapstructure:"-"`
}

// clone returns a detached copy of the option with derived state reset.
func (o Option) clone() Option {
	c := o
	c.Hidden = false
	return c
}

// DefaultFieldIcon is the icon used for field data types missing from the icon table.
const DefaultFieldIcon = "utility:text"

// dataTypeIcons maps field data types to icon names.
var dataTypeIcons = map[string]string{
	"Address":       "utility:location",
	"Boolean":       "utility:check",
	"ComboBox":      "utility:picklist_type",
	"Currency":      "utility:currency",
	"Date":          "utility:date_input",
	"DateTime":      "utility:date_time",
	"Double":        "utility:number_input",
	"Email":         "utility:email",
	"Int":           "utility:number_input",
	"Location":      "utility:location",
	"MultiPicklist": "utility:multi_picklist",
	"Percent":       "utility:percent",
	"Phone":         "utility:phone_portrait",
	"Picklist":      "utility:picklist_type",
	"Reference":     "utility:record_lookup",
	"Time":          "utility:date_time",
	"Url":           "utility:link",
}

// DataTypeIcon returns the icon name for a field data type.
// Unknown data types fall back to DefaultFieldIcon.
func DataTypeIcon(dataType string) string {
	if icon, ok := dataTypeIcons[dataType]; ok {
		return icon
	}
	return DefaultFieldIcon
}

// Field describes one field of an object as returned by a FieldDescriber.
type Field struct {
	APIName  string `json:"apiName"`
	Label    string `json:"label"`
	DataType string `json:"dataType"`
}

// NewFieldOption converts a field into an option. The API name doubles as
// value and sublabel so users can search by either.
func NewFieldOption(field Field, hideIcon bool) Option {
	opt := Option{
		Value:    field.APIName,
		Label:    field.Label,
		Sublabel: field.APIName,
	}
	if !hideIcon {
		opt.Icon = DataTypeIcon(field.DataType)
	}
	return opt
}

// Record is a single row returned by a RecordSearcher, keyed by field name.
// Every record carries its identifier under RecordIDField.
type Record map[string]string

// RecordIDField is the field holding a record identifier.
const RecordIDField = "Id"

// SublabelSeparator joins the secondary display fields of a record.
const SublabelSeparator = " • "

// ErrAmbiguousLabelField is returned when no display fields are configured and
// a record does not contain exactly one field besides its identifier.
var ErrAmbiguousLabelField = errors.New("expected exactly one non-Id field to use as label")

// DisplayLayout decides which record fields become the label and the sublabel.
type DisplayLayout struct {
	LabelField     string
	SublabelFields []string
}

// NewDisplayLayout builds a layout from a display field list. The first field
// is the label, the rest make up the sublabel. An empty list yields an empty
// layout, in which case the label field is inferred per record.
func NewDisplayLayout(fields []string) DisplayLayout {
	if len(fields) == 0 {
		return DisplayLayout{}
	}
	return DisplayLayout{
		LabelField:     fields[0],
		SublabelFields: append([]string{}, fields[1:]...),
	}
}

// NewRecordOption converts a record into an option using the layout.
func NewRecordOption(rec Record, layout DisplayLayout, icon string) (Option, error) {
	labelField := layout.LabelField
	if labelField == "" {
		var others []string
		for name := range rec {
			if name != RecordIDField {
				others = append(others, name)
			}
		}
		if len(others) != 1 {
			return Option{}, fmt.Errorf("record %q has %d candidate fields: %w", rec[RecordIDField], len(others), ErrAmbiguousLabelField)
		}
		labelField = others[0]
	}

	var parts []string
	for _, name := range layout.SublabelFields {
		if v := rec[name]; v != "" {
			parts = append(parts, v)
		}
	}

	return Option{
		Value:    rec[RecordIDField],
		Label:    rec[labelField],
		Sublabel: strings.Join(parts, SublabelSeparator),
		Icon:     icon,
	}, nil
}
