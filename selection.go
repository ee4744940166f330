package combobox

import "slices"

// SelectionSet is the ordered list of selected option values.
//
// In single-select mode the set holds at most one value and every Select
// replaces it. In multi-select mode Select appends and Unselect removes by
// position. Appending does not check for duplicates: a value selected twice
// through the API appears twice.
type SelectionSet struct {
	values []string
	multi  bool
}

// NewSelectionSet creates an empty selection with the given cardinality policy.
func NewSelectionSet(multi bool) *SelectionSet {
	return &SelectionSet{multi: multi}
}

// Multi reports whether the set accepts more than one value.
func (s *SelectionSet) Multi() bool {
	return s.multi
}

// Select adds value according to the cardinality policy.
func (s *SelectionSet) Select(value string) {
	if !s.multi {
		s.values = []string{value}
		return
	}
	s.values = append(s.values, value)
}

// Unselect removes the value at index. It panics if index is out of range;
// callers validate the index against Len first.
func (s *SelectionSet) Unselect(index int) {
	s.values = slices.Delete(s.values, index, index+1)
}

// Clear empties the set.
func (s *SelectionSet) Clear() {
	s.values = nil
}

// SetValues replaces the set. In single-select mode only the first value is kept.
func (s *SelectionSet) SetValues(values []string) {
	if !s.multi && len(values) > 1 {
		values = values[:1]
	}
	s.values = append([]string(nil), values...)
}

// Len returns the number of selected values.
func (s *SelectionSet) Len() int {
	return len(s.values)
}

// Values returns a copy of the selected values in selection order.
func (s *SelectionSet) Values() []string {
	return append([]string{}, s.values...)
}

// Contains reports whether value is selected.
func (s *SelectionSet) Contains(value string) bool {
	if s == nil {
		return false
	}
	return slices.Contains(s.values, value)
}

// PrimaryValue returns the first selected value.
func (s *SelectionSet) PrimaryValue() (string, bool) {
	if len(s.values) == 0 {
		return "", false
	}
	return s.values[0], true
}

// ResolveOptions maps every selected value to its option in store.
// Values without a matching option are skipped, so the result never contains
// placeholders and is empty rather than nil when nothing resolves.
func (s *SelectionSet) ResolveOptions(store *OptionStore) []Option {
	resolved := make([]Option, 0, len(s.values))
	for _, value := range s.values {
		if opt, ok := store.FindByValue(value); ok {
			resolved = append(resolved, opt)
		}
	}
	return resolved
}
