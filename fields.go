package combobox

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Defaults of a FieldSelector.
const (
	DefaultFieldLabel          = "Select Field"
	DefaultFieldMissingMessage = "Please select at least one field."
	NoObjectPlaceholder        = "Select an object first"
)

// ErrNoObject is returned when fields are requested without an object name.
var ErrNoObject = errors.New("no object selected")

// FieldDescriber returns the fields of an object.
type FieldDescriber interface {
	DescribeFields(ctx context.Context, objectName string) ([]Field, error)
}

// FieldProvider adapts a FieldDescriber to an OptionProvider. Fields are
// sorted by label, ignoring case.
type FieldProvider struct {
	Describer FieldDescriber
	HideIcons bool
}

// Fetch describes the object named by q.Source and returns one option per field.
func (p FieldProvider) Fetch(ctx context.Context, q Query) ([]Option, error) {
	if q.Source == "" {
		return nil, ErrNoObject
	}
	fields, err := p.Describer.DescribeFields(ctx, q.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to describe %s: %w", q.Source, err)
	}
	options := make([]Option, len(fields))
	for i, f := range fields {
		options[i] = NewFieldOption(f, p.HideIcons)
	}
	sort.SliceStable(options, func(i, j int) bool {
		return strings.ToLower(options[i].Label) < strings.ToLower(options[j].Label)
	})
	return options, nil
}

// FieldSelector picks fields of an object. Switching to another object
// clears the selection.
type FieldSelector struct {
	*Combobox
	preselected []string
	firstLoad   bool
}

// FieldSelectorOption configures a FieldSelector.
type FieldSelectorOption func(*fieldSelectorConfig)

type fieldSelectorConfig struct {
	hideIcons   bool
	preselected []string
	options     []ConfigOption
}

// WithHideIcons drops the data type icons
func WithHideIcons(hide bool) FieldSelectorOption {
	return func(c *fieldSelectorConfig) {
		c.hideIcons = hide
	}
}

// WithPreselectedValues selects the comma separated API names once the first
// field list arrives. Names that do not exist on the object are ignored.
func WithPreselectedValues(list string) FieldSelectorOption {
	return func(c *fieldSelectorConfig) {
		c.preselected = SplitList(list)
	}
}

// WithComboboxOptions passes options through to the underlying Combobox
func WithComboboxOptions(options ...ConfigOption) FieldSelectorOption {
	return func(c *fieldSelectorConfig) {
		c.options = append(c.options, options...)
	}
}

// NewFieldSelector creates a field picker backed by describer.
//
// Field labels and API names are both searchable. Call SetObjectName to load
// the fields of an object.
//
// Example:
//
//	fs := combobox.NewFieldSelector(describer,
//		combobox.WithPreselectedValues("Name, Industry"),
//		combobox.WithComboboxOptions(combobox.WithMultiselect(true)),
//	)
//	<-fs.SetObjectName(ctx, "Account")
func NewFieldSelector(describer FieldDescriber, options ...FieldSelectorOption) *FieldSelector {
	cfg := fieldSelectorConfig{}
	for _, option := range options {
		option(&cfg)
	}

	base := []ConfigOption{
		WithLabel(DefaultFieldLabel),
		WithMessageWhenValueMissing(DefaultFieldMissingMessage),
		WithPlaceholder(NoObjectPlaceholder),
		WithIncludeValueInMatch(true),
		WithProvider(FieldProvider{Describer: describer, HideIcons: cfg.hideIcons}),
	}
	fs := &FieldSelector{
		Combobox:    New(append(base, cfg.options...)...),
		preselected: cfg.preselected,
		firstLoad:   true,
	}
	fs.afterLoad = fs.applyPreselection
	return fs
}

// applyPreselection runs under the combobox lock.
func (fs *FieldSelector) applyPreselection(_ Query, _ []Option) {
	if !fs.firstLoad {
		return
	}
	fs.firstLoad = false
	if len(fs.preselected) == 0 {
		return
	}
	var values []string
	for _, name := range fs.preselected {
		if _, ok := fs.store.FindByValue(name); ok {
			values = append(values, name)
		}
	}
	fs.selection.SetValues(values)
}

// SetObjectName loads the fields of objectName. An empty name leaves the
// picker disabled with the "Select an object first" placeholder.
func (fs *FieldSelector) SetObjectName(ctx context.Context, objectName string) <-chan struct{} {
	fs.mu.Lock()
	if objectName == "" {
		fs.config.Placeholder = NoObjectPlaceholder
	} else {
		fs.config.Placeholder = ""
	}
	fs.mu.Unlock()
	return fs.SetSource(ctx, objectName)
}

// ObjectName returns the current object name.
func (fs *FieldSelector) ObjectName() string {
	return fs.Source()
}

// InputDisabled reports whether typing is refused: no object is set yet or
// fields are loading.
func (fs *FieldSelector) InputDisabled() bool {
	return fs.Source() == "" || fs.Combobox.InputDisabled()
}

// SelectedFieldNames returns the API names of the selected fields.
func (fs *FieldSelector) SelectedFieldNames() []string {
	return fs.Values()
}
