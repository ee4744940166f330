package combobox

// OptionStore holds the canonical list of selectable options.
//
// The store keeps its own copy of every option so hosts can reuse the slice
// they passed in. Input order is preserved and duplicate values are kept.
// OptionStore is not safe for concurrent use; Combobox guards it.
type OptionStore struct {
	options []Option
}

// NewOptionStore creates a store holding copies of the given options.
func NewOptionStore(options []Option) *OptionStore {
	s := &OptionStore{}
	s.SetOptions(options)
	return s
}

// SetOptions replaces the whole list with per-element copies of options.
func (s *OptionStore) SetOptions(options []Option) {
	s.options = make([]Option, len(options))
	for i, opt := range options {
		s.options[i] = opt.clone()
	}
}

// Len returns the number of stored options.
func (s *OptionStore) Len() int {
	return len(s.options)
}

// Get returns the option at index. It panics if index is out of range.
func (s *OptionStore) Get(index int) Option {
	return s.options[index]
}

// FindByValue returns the first option whose value equals value.
func (s *OptionStore) FindByValue(value string) (Option, bool) {
	for _, opt := range s.options {
		if opt.Value == value {
			return opt, true
		}
	}
	return Option{}, false
}

// Options returns a copy of the stored options, including their hidden flags.
func (s *OptionStore) Options() []Option {
	return append([]Option{}, s.options...)
}

// VisibleIndices returns the indexes of options that are not hidden.
func (s *OptionStore) VisibleIndices() []int {
	indices := make([]int, 0, len(s.options))
	for i, opt := range s.options {
		if !opt.Hidden {
			indices = append(indices, i)
		}
	}
	return indices
}

// AllHidden reports whether every non-action option is hidden.
// Action rows stay visible regardless, so they never count as a match.
// An empty store reports true.
func (s *OptionStore) AllHidden() bool {
	for _, opt := range s.options {
		if !opt.IsAction && !opt.Hidden {
			return false
		}
	}
	return true
}

// setHidden updates the derived hidden flag of the option at index.
func (s *OptionStore) setHidden(index int, hidden bool) {
	s.options[index].Hidden = hidden
}
