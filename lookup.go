package combobox

import (
	"context"
	"fmt"
	"time"
)

// Defaults of a RecordLookup.
const (
	DefaultLookupLabel         = "Select Record"
	DefaultLookupDebounceDelay = 200 * time.Millisecond
	DefaultRecentlyViewedCount = 5
)

// RecordQuery describes a record search.
type RecordQuery struct {
	ObjectName     string
	SearchTerm     string
	FieldsToSearch []string
	FieldsToReturn []string
	WhereClause    string
	OrderByClause  string
	Limit          int // 0 means no limit
}

// RecordSearcher searches records of an object and lists the ones the user
// viewed recently.
type RecordSearcher interface {
	Search(ctx context.Context, q RecordQuery) ([]Record, error)
	RecentlyViewed(ctx context.Context, objectName string, fieldsToReturn []string, limit int) ([]Record, error)
}

// LookupConfig holds the record specific configuration of a RecordLookup.
type LookupConfig struct {
	ObjectName      string
	FieldsToSearch  []string // Defaults to FieldsToDisplay when sublabels are matched
	FieldsToDisplay []string // First field is the label, the rest the sublabel
	IconName        string
	WhereClause     string
	OrderByClause   string
	RecentCount     int // Number of recently viewed records (default: 5)
}

// RecordProvider adapts a RecordSearcher to an OptionProvider.
//
// An empty search text lists recently viewed records; any other text runs a
// search. Records become options through NewRecordOption.
type RecordProvider struct {
	Searcher       RecordSearcher
	Config         LookupConfig
	FieldsToSearch []string
}

// Fetch runs the search or recently viewed listing described by q.
func (p RecordProvider) Fetch(ctx context.Context, q Query) ([]Option, error) {
	var (
		records []Record
		err     error
	)
	if q.Text == "" {
		limit := p.Config.RecentCount
		if limit <= 0 {
			limit = DefaultRecentlyViewedCount
		}
		records, err = p.Searcher.RecentlyViewed(ctx, q.Source, p.Config.FieldsToDisplay, limit)
	} else {
		records, err = p.Searcher.Search(ctx, RecordQuery{
			ObjectName:     q.Source,
			SearchTerm:     q.Text,
			FieldsToSearch: p.FieldsToSearch,
			FieldsToReturn: p.Config.FieldsToDisplay,
			WhereClause:    p.Config.WhereClause,
			OrderByClause:  p.Config.OrderByClause,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s records: %w", q.Source, err)
	}

	layout := NewDisplayLayout(p.Config.FieldsToDisplay)
	options := make([]Option, 0, len(records))
	for _, rec := range records {
		opt, err := NewRecordOption(rec, layout, p.Config.IconName)
		if err != nil {
			return nil, err
		}
		options = append(options, opt)
	}
	return options, nil
}

// RecordLookup picks records of an object through remote search.
//
// Typing is debounced and sent to the searcher; clearing the text brings back
// the recently viewed records fetched when the object was set.
type RecordLookup struct {
	*Combobox
	lookup LookupConfig
	recent []Option
}

// NewRecordLookup creates a record picker. Options apply on top of the lookup
// defaults: 200ms debounce, sublabel matching, label "Select Record".
//
// Example:
//
//	lookup := combobox.NewRecordLookup(searcher, combobox.LookupConfig{
//		ObjectName:      "Account",
//		FieldsToDisplay: []string{"Name", "Industry"},
//	})
//	<-lookup.Start(ctx)
//	lookup.Input(ctx, "acme")
func NewRecordLookup(searcher RecordSearcher, lookup LookupConfig, options ...ConfigOption) *RecordLookup {
	base := []ConfigOption{
		WithLabel(DefaultLookupLabel),
		WithDebounceDelay(DefaultLookupDebounceDelay),
		WithIncludeSublabelInMatch(true),
	}
	config := defaultConfig()
	for _, option := range append(base, options...) {
		option(&config)
	}

	fieldsToSearch := lookup.FieldsToSearch
	if len(fieldsToSearch) == 0 && config.Filter.IncludeSublabelInMatch {
		fieldsToSearch = lookup.FieldsToDisplay
	}
	config.Provider = RecordProvider{Searcher: searcher, Config: lookup, FieldsToSearch: fieldsToSearch}

	l := &RecordLookup{lookup: lookup}
	config.SearchHandler = l.search
	l.Combobox = newFromConfig(config)
	l.afterLoad = l.rememberRecent
	return l
}

// Start loads the recently viewed records of the configured object.
func (l *RecordLookup) Start(ctx context.Context) <-chan struct{} {
	return l.SetSource(ctx, l.lookup.ObjectName)
}

// SetObjectName switches to another object; the selection is cleared.
func (l *RecordLookup) SetObjectName(ctx context.Context, objectName string) <-chan struct{} {
	l.mu.Lock()
	l.lookup.ObjectName = objectName
	l.recent = nil
	l.mu.Unlock()
	return l.SetSource(ctx, objectName)
}

// RecentlyViewed returns the cached recently viewed options.
func (l *RecordLookup) RecentlyViewed() []Option {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Option{}, l.recent...)
}

// rememberRecent runs under the combobox lock.
func (l *RecordLookup) rememberRecent(q Query, options []Option) {
	if q.Text == "" {
		l.recent = options
	}
}

func (l *RecordLookup) search(ctx context.Context, text string) {
	if text == "" {
		l.SetOptions(l.RecentlyViewed())
		return
	}
	l.Load(ctx, Query{Source: l.Source(), Text: text})
}
