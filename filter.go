package combobox

import (
	"context"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// FilterConfig controls which option fields take part in matching.
// The label is always matched.
type FilterConfig struct {
	IncludeValueInMatch    bool `mapstructure:"includeValueInMatch"`
	IncludeSublabelInMatch bool `mapstructure:"includeSublabelInMatch"`
}

// SearchHandler replaces the built-in text filter. When a Combobox has one,
// typed text is handed to it after the debounce delay and the handler becomes
// responsible for producing the option list, usually through SetOptions or
// Load. Only the "already selected options are hidden" rule still applies.
type SearchHandler func(ctx context.Context, text string)

// IsVisible reports whether option should be shown for searchText.
//
// Options whose value is already selected are never visible. Otherwise the
// option is visible when the lower-cased search text is a substring of its
// label, or of its value or sublabel when config includes them. Empty text
// matches everything.
func IsVisible(option Option, searchText string, config FilterConfig, selection *SelectionSet) bool {
	if selection != nil && selection.Contains(option.Value) {
		return false
	}
	return matches(option, strings.ToLower(searchText), config)
}

// matches evaluates the text predicate. needle must already be lower-cased.
func matches(option Option, needle string, config FilterConfig) bool {
	if strings.Contains(strings.ToLower(option.Label), needle) {
		return true
	}
	if config.IncludeValueInMatch && strings.Contains(strings.ToLower(option.Value), needle) {
		return true
	}
	if config.IncludeSublabelInMatch && option.Sublabel != "" && strings.Contains(strings.ToLower(option.Sublabel), needle) {
		return true
	}
	return false
}

// applyFilter recomputes the hidden flag of every stored option.
// With textMatch false only the selection rule is applied.
func applyFilter(store *OptionStore, searchText string, config FilterConfig, selection *SelectionSet, textMatch bool) {
	needle := strings.ToLower(searchText)
	for i := range store.Len() {
		opt := store.Get(i)
		if selection.Contains(opt.Value) {
			store.setHidden(i, true)
			continue
		}
		store.setHidden(i, textMatch && !matches(opt, needle, config))
	}
}

// NewFuzzySearchHandler returns a SearchHandler that ranks source against the
// typed text with fuzzy matching and hands the ranked list to the combobox.
//
// Labels are matched case-insensitively; the closest matches come first and
// action rows are kept at the end of the list. Empty text restores source
// in its original order.
//
// Example:
//
//	box := combobox.New(combobox.WithOptions(opts))
//	box.SetSearchHandler(combobox.NewFuzzySearchHandler(box, opts))
func NewFuzzySearchHandler(box *Combobox, source []Option) SearchHandler {
	all := append([]Option{}, source...)
	return func(_ context.Context, text string) {
		box.SetOptions(rankFuzzy(all, text))
	}
}

func rankFuzzy(source []Option, text string) []Option {
	if text == "" {
		return append([]Option{}, source...)
	}

	labels := make([]string, 0, len(source))
	indexes := make([]int, 0, len(source))
	var actions []Option
	for i, opt := range source {
		if opt.IsAction {
			actions = append(actions, opt)
			continue
		}
		labels = append(labels, opt.Label)
		indexes = append(indexes, i)
	}

	ranks := fuzzy.RankFindFold(text, labels)
	sort.Stable(ranks)

	ranked := make([]Option, 0, len(ranks)+len(actions))
	for _, r := range ranks {
		ranked = append(ranked, source[indexes[r.OriginalIndex]])
	}
	return append(ranked, actions...)
}
