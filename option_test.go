package combobox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataTypeIcon(t *testing.T) {
	t.Parallel()

	tests := []struct {
		dataType string
		want     string
	}{
		{dataType: "Boolean", want: "utility:check"},
		{dataType: "Reference", want: "utility:record_lookup"},
		{dataType: "Email", want: "utility:email"},
		{dataType: "String", want: DefaultFieldIcon},
		{dataType: "", want: DefaultFieldIcon},
	}

	for _, tt := range tests {
		t.Run(tt.dataType, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, DataTypeIcon(tt.dataType))
		})
	}
}

func TestNewFieldOption(t *testing.T) {
	t.Parallel()

	field := Field{APIName: "Industry__c", Label: "Industry", DataType: "Picklist"}

	opt := NewFieldOption(field, false)
	assert.Equal(t, Option{
		Value:    "Industry__c",
		Label:    "Industry",
		Sublabel: "Industry__c",
		Icon:     "utility:picklist_type",
	}, opt)

	opt = NewFieldOption(field, true)
	assert.Empty(t, opt.Icon, "icons should be dropped when hidden")
	assert.Equal(t, "Industry__c", opt.Value)
}

func TestNewRecordOption(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		record Record
		fields []string
		icon   string
		want   Option
	}{
		{
			name:   "label and sublabel",
			record: Record{"Id": "001", "Name": "Acme", "Industry": "Energy", "City": "Austin"},
			fields: []string{"Name", "Industry", "City"},
			icon:   "standard:account",
			want:   Option{Value: "001", Label: "Acme", Sublabel: "Energy • Austin", Icon: "standard:account"},
		},
		{
			name:   "empty sublabel fields are skipped",
			record: Record{"Id": "002", "Name": "Globex", "Industry": "", "City": "Cypress Creek"},
			fields: []string{"Name", "Industry", "City"},
			want:   Option{Value: "002", Label: "Globex", Sublabel: "Cypress Creek"},
		},
		{
			name:   "label only",
			record: Record{"Id": "003", "Name": "Initech"},
			fields: []string{"Name"},
			want:   Option{Value: "003", Label: "Initech"},
		},
		{
			name:   "label inferred from the only other field",
			record: Record{"Id": "004", "Title": "Umbrella"},
			want:   Option{Value: "004", Label: "Umbrella"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := NewRecordOption(tt.record, NewDisplayLayout(tt.fields), tt.icon)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRecordOptionAmbiguousLabel(t *testing.T) {
	t.Parallel()

	for _, rec := range []Record{
		{"Id": "001"},
		{"Id": "001", "Name": "Acme", "City": "Austin"},
	} {
		_, err := NewRecordOption(rec, DisplayLayout{}, "")
		assert.ErrorIs(t, err, ErrAmbiguousLabelField)
	}
}

func TestOptionCloneResetsHidden(t *testing.T) {
	t.Parallel()

	opt := Option{Value: "a", Label: "A", Hidden: true}
	assert.False(t, opt.clone().Hidden)
	assert.True(t, opt.Hidden, "clone must not modify the receiver")
}
