package combobox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectionSetSingle(t *testing.T) {
	t.Parallel()

	s := NewSelectionSet(false)
	_, ok := s.PrimaryValue()
	assert.False(t, ok)

	s.Select("a")
	s.Select("b")
	assert.Equal(t, []string{"b"}, s.Values(), "single-select replaces")

	s.SetValues([]string{"x", "y"})
	assert.Equal(t, []string{"x"}, s.Values(), "only the first host value is kept")

	v, ok := s.PrimaryValue()
	assert.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestSelectionSetMulti(t *testing.T) {
	t.Parallel()

	s := NewSelectionSet(true)
	s.Select("a")
	s.Select("b")
	s.Select("a")
	assert.Equal(t, []string{"a", "b", "a"}, s.Values(), "appends without deduplication")
	assert.True(t, s.Contains("b"))

	s.Unselect(0)
	assert.Equal(t, []string{"b", "a"}, s.Values())

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, []string{}, s.Values())
}

func TestSelectionSetUnselectOutOfRange(t *testing.T) {
	t.Parallel()

	s := NewSelectionSet(true)
	s.Select("a")
	assert.Panics(t, func() { s.Unselect(1) })
	assert.Panics(t, func() { s.Unselect(-1) })
}

func TestSelectionSetResolveOptions(t *testing.T) {
	t.Parallel()

	store := NewOptionStore([]Option{
		{Value: "a", Label: "Apple"},
		{Value: "b", Label: "Banana"},
	})

	tests := []struct {
		name   string
		values []string
		want   []Option
	}{
		{name: "nothing selected", want: []Option{}},
		{name: "selection order", values: []string{"b", "a"}, want: []Option{{Value: "b", Label: "Banana"}, {Value: "a", Label: "Apple"}}},
		{name: "missing values are skipped", values: []string{"z", "a"}, want: []Option{{Value: "a", Label: "Apple"}}},
		{name: "nothing resolves", values: []string{"z"}, want: []Option{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := NewSelectionSet(true)
			s.SetValues(tt.values)
			assert.Equal(t, tt.want, s.ResolveOptions(store))
		})
	}
}

func TestSelectionSetValuesIsCopy(t *testing.T) {
	t.Parallel()

	s := NewSelectionSet(true)
	input := []string{"a", "b"}
	s.SetValues(input)
	input[0] = "changed"

	got := s.Values()
	got[1] = "changed"
	assert.Equal(t, []string{"a", "b"}, s.Values())
}

func TestSelectionSetNilContains(t *testing.T) {
	t.Parallel()

	var s *SelectionSet
	assert.False(t, s.Contains("a"))
}
