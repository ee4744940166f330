package combobox

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Common errors
var (
	// ErrEOF is returned by a Session when the terminal input ends
	ErrEOF = errors.New("EOF")
	// ErrInterrupted is returned by a Session when the user presses Ctrl+C
	ErrInterrupted = errors.New("interrupted")
)

// Default texts used when the host does not configure its own.
const (
	DefaultMessageWhenValueMissing = "Please select at least one option."
	DefaultPlaceholder             = "Select an option"
	DefaultNoMatchString           = "No matches found"
)

// Config holds the configuration of a Combobox.
type Config struct {
	Name                    string         // Identifier copied into every event
	Label                   string         // Label shown above the input
	Placeholder             string         // Input placeholder (default: "Select an option")
	NoMatchString           string         // Text shown when nothing matches (default: "No matches found")
	DebounceDelay           time.Duration  // Delay between typing and filtering (default: 0, disabled)
	Required                bool           // Enables the validity check
	Disabled                bool           // Disables the input
	AllowMultiselect        bool           // Switches to multi-select
	HidePills               bool           // Presentation only: hide the selected pills
	Filter                  FilterConfig   // Which option fields take part in matching
	MessageWhenValueMissing string         // Validity message for an empty required combobox
	SearchHandler           SearchHandler  // Replaces the built-in filter (nil for default)
	Provider                OptionProvider // Asynchronous option source used by Load and SetSource
	Clock                   Clock          // Timer source for debouncing (nil for wall clock)
	Logger                  *log.Logger    // Logger (nil discards output)
	Options                 []Option       // Initial option list
	Values                  []string       // Initially selected values
}

// ConfigOption represents a configuration option for a Combobox
type ConfigOption func(*Config)

// WithName sets the name copied into events
func WithName(name string) ConfigOption {
	return func(c *Config) {
		c.Name = name
	}
}

// WithLabel sets the input label
func WithLabel(label string) ConfigOption {
	return func(c *Config) {
		c.Label = label
	}
}

// WithPlaceholder sets the input placeholder
func WithPlaceholder(placeholder string) ConfigOption {
	return func(c *Config) {
		c.Placeholder = placeholder
	}
}

// WithNoMatchString sets the text shown when no option matches
func WithNoMatchString(s string) ConfigOption {
	return func(c *Config) {
		c.NoMatchString = s
	}
}

// WithDebounceDelay sets the delay between the last keystroke and filtering.
// Negative delays disable debouncing.
//
// Example:
//
//	box := combobox.New(combobox.WithDebounceDelay(200 * time.Millisecond))
func WithDebounceDelay(delay time.Duration) ConfigOption {
	return func(c *Config) {
		c.DebounceDelay = delay
	}
}

// WithRequired enables or disables the validity check
func WithRequired(required bool) ConfigOption {
	return func(c *Config) {
		c.Required = required
	}
}

// WithDisabled disables the input
func WithDisabled(disabled bool) ConfigOption {
	return func(c *Config) {
		c.Disabled = disabled
	}
}

// WithMultiselect enables or disables multi-select
func WithMultiselect(multi bool) ConfigOption {
	return func(c *Config) {
		c.AllowMultiselect = multi
	}
}

// WithHidePills hides the selected pills in multi-select mode
func WithHidePills(hide bool) ConfigOption {
	return func(c *Config) {
		c.HidePills = hide
	}
}

// WithFilter sets the whole match configuration
func WithFilter(filter FilterConfig) ConfigOption {
	return func(c *Config) {
		c.Filter = filter
	}
}

// WithIncludeValueInMatch makes option values searchable
func WithIncludeValueInMatch(include bool) ConfigOption {
	return func(c *Config) {
		c.Filter.IncludeValueInMatch = include
	}
}

// WithIncludeSublabelInMatch makes option sublabels searchable
func WithIncludeSublabelInMatch(include bool) ConfigOption {
	return func(c *Config) {
		c.Filter.IncludeSublabelInMatch = include
	}
}

// WithMessageWhenValueMissing sets the message reported by an empty required combobox
func WithMessageWhenValueMissing(msg string) ConfigOption {
	return func(c *Config) {
		c.MessageWhenValueMissing = msg
	}
}

// WithSearchHandler replaces the built-in filter with handler
func WithSearchHandler(handler SearchHandler) ConfigOption {
	return func(c *Config) {
		c.SearchHandler = handler
	}
}

// WithProvider sets the asynchronous option source
func WithProvider(provider OptionProvider) ConfigOption {
	return func(c *Config) {
		c.Provider = provider
	}
}

// WithClock sets the timer source used for debouncing
func WithClock(clock Clock) ConfigOption {
	return func(c *Config) {
		c.Clock = clock
	}
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) ConfigOption {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithOptions sets the initial option list
func WithOptions(options []Option) ConfigOption {
	return func(c *Config) {
		c.Options = options
	}
}

// WithValues sets the initially selected values
func WithValues(values ...string) ConfigOption {
	return func(c *Config) {
		c.Values = values
	}
}

// Combobox is a searchable selector.
//
// It keeps the option list, the search text, the selection, the validity
// state and the open/closed state of the dropdown, and recomputes option
// visibility synchronously after every mutation. Selection changes are
// reported through OnChange, action rows through OnAction and every state
// change through Subscribe.
//
// All methods are safe for concurrent use. Debounced searches and provider
// responses arrive on their own goroutines; they are applied under the same
// lock as user events. Callbacks run without the lock held, so they may call
// back into the Combobox.
type Combobox struct {
	mu        sync.Mutex
	id        string
	config    Config
	logger    *log.Logger
	store     *OptionStore
	selection *SelectionSet
	gate      *ValidationGate
	dropdown  DropdownVisibility
	debouncer *DebounceScheduler
	notifier  *ChangeNotifier
	text      string
	closed    bool

	// provider state
	loading   bool
	errMsg    string
	token     uint64
	source    string
	hasSource bool
	afterLoad func(q Query, options []Option)
}

// New creates a new combobox configured by options.
//
// Example:
//
//	box := combobox.New(
//		combobox.WithOptions([]combobox.Option{
//			{Value: "a", Label: "Apple"},
//			{Value: "b", Label: "Banana"},
//		}),
//		combobox.WithMultiselect(true),
//	)
//	defer box.Close()
//
//	box.OnChange(func(ev combobox.ChangeEvent) {
//		fmt.Println(ev.Values)
//	})
//	box.Focus(ctx)
//	box.Input(ctx, "an")
//	box.SelectValue("b")
func New(options ...ConfigOption) *Combobox {
	config := defaultConfig()
	for _, option := range options {
		option(&config)
	}
	return newFromConfig(config)
}

func defaultConfig() Config {
	return Config{
		Placeholder:             DefaultPlaceholder,
		NoMatchString:           DefaultNoMatchString,
		MessageWhenValueMissing: DefaultMessageWhenValueMissing,
	}
}

func newFromConfig(config Config) *Combobox {
	if config.DebounceDelay < 0 {
		config.DebounceDelay = 0
	}
	if config.Clock == nil {
		config.Clock = realClock{}
	}
	logger := config.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	id := uuid.NewString()
	c := &Combobox{
		id:        id,
		config:    config,
		logger:    logger.With("instance", id),
		store:     NewOptionStore(config.Options),
		selection: NewSelectionSet(config.AllowMultiselect),
		gate:      NewValidationGate(),
		debouncer: NewDebounceScheduler(config.DebounceDelay, config.Clock),
		notifier:  NewChangeNotifier(),
	}
	c.selection.SetValues(config.Values)
	c.refilterLocked()
	return c
}

// effects collects the notifications produced by a mutation so they can be
// delivered after the lock is released.
type effects struct {
	change *ChangeEvent
	action *ActionEvent
	update bool
}

func (c *Combobox) commit(fx effects) {
	if fx.action != nil {
		c.notifier.emitAction(*fx.action)
	}
	if fx.change != nil {
		c.notifier.emitChange(*fx.change)
	}
	if fx.update || fx.change != nil || fx.action != nil {
		c.notifier.emitUpdate(c.Snapshot())
	}
}

func (c *Combobox) mutate(fn func() effects) {
	c.commit(func() effects {
		c.mu.Lock()
		defer c.mu.Unlock()
		return fn()
	}())
}

// refilterLocked recomputes visibility against the current text.
func (c *Combobox) refilterLocked() {
	c.filterLocked(c.text)
}

func (c *Combobox) filterLocked(text string) {
	applyFilter(c.store, text, c.config.Filter, c.selection, c.config.SearchHandler == nil)
}

func (c *Combobox) changeEventLocked() *ChangeEvent {
	ev := newChangeEvent(c.id, c.config.Name, c.selection, c.store)
	return &ev
}

// ID returns the identifier of this instance. It tags log lines and events.
func (c *Combobox) ID() string {
	return c.id
}

// OnChange registers fn to receive selection change events and returns a
// function that unregisters it.
func (c *Combobox) OnChange(fn func(ChangeEvent)) func() {
	return c.notifier.OnChange(fn)
}

// OnAction registers fn to receive action row activations.
func (c *Combobox) OnAction(fn func(ActionEvent)) func() {
	return c.notifier.OnAction(fn)
}

// Subscribe registers fn to receive a snapshot after every state change.
func (c *Combobox) Subscribe(fn func(Snapshot)) func() {
	return c.notifier.OnUpdate(fn)
}

// SetOptions replaces the option list with copies of options.
//
// Visibility is recomputed against the current search text and selection.
// A provider fetch still in flight is superseded and its response dropped.
func (c *Combobox) SetOptions(options []Option) {
	c.mutate(func() effects {
		c.token++
		c.loading = false
		c.store.SetOptions(options)
		c.refilterLocked()
		c.logger.Debug("options replaced", "count", len(options))
		return effects{update: true}
	})
}

// Options returns a copy of the current options with their hidden flags.
func (c *Combobox) Options() []Option {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Options()
}

// VisibleIndices returns the indexes of the options that are currently shown.
func (c *Combobox) VisibleIndices() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.VisibleIndices()
}

// NoMatchFound reports whether every non-action option is hidden.
func (c *Combobox) NoMatchFound() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.AllHidden()
}

// SetSearchHandler replaces the search handler. A nil handler restores the
// built-in filter.
func (c *Combobox) SetSearchHandler(handler SearchHandler) {
	c.mutate(func() effects {
		c.config.SearchHandler = handler
		c.refilterLocked()
		return effects{update: true}
	})
}

// SetValues replaces the selection without emitting a change event, the way a
// host initializes a combobox. In single-select mode only the first value is kept.
func (c *Combobox) SetValues(values ...string) {
	c.mutate(func() effects {
		c.selection.SetValues(values)
		c.refilterLocked()
		return effects{update: true}
	})
}

// SetValue selects value without emitting a change event. An empty value
// clears the selection.
func (c *Combobox) SetValue(value string) {
	if value == "" {
		c.SetValues()
		return
	}
	c.SetValues(value)
}

// SetRawValues accepts loosely typed host input. A single value is treated
// as a one-element list and nil as an empty one; see CoerceValues.
func (c *Combobox) SetRawValues(v any) {
	c.SetValues(CoerceValues(v)...)
}

// Value returns the first selected value, or an empty string.
func (c *Combobox) Value() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, _ := c.selection.PrimaryValue()
	return v
}

// Values returns the selected values in selection order.
func (c *Combobox) Values() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection.Values()
}

// SelectedOptions returns the options of the selected values that exist in
// the current option list.
func (c *Combobox) SelectedOptions() []Option {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection.ResolveOptions(c.store)
}

// SelectedOption returns the first resolved selected option.
func (c *Combobox) SelectedOption() (Option, bool) {
	selected := c.SelectedOptions()
	if len(selected) == 0 {
		return Option{}, false
	}
	return selected[0], true
}

// Event returns a ChangeEvent describing the current selection without
// emitting it.
func (c *Combobox) Event() ChangeEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.changeEventLocked()
}

// InputText returns the current search text.
func (c *Combobox) InputText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// Input records the search text typed by the user and schedules a search.
//
// After the debounce delay the search handler runs if one is configured;
// otherwise option visibility is recomputed for text. A later Input call
// before the delay has passed replaces this one.
func (c *Combobox) Input(ctx context.Context, text string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.text = text
	c.mu.Unlock()
	c.commit(effects{update: true})

	c.debouncer.Schedule(func() {
		c.runSearch(ctx, text)
	})
}

func (c *Combobox) runSearch(ctx context.Context, text string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	handler := c.config.SearchHandler
	if handler == nil {
		c.filterLocked(text)
	}
	c.mu.Unlock()

	if handler != nil {
		handler(ctx, text)
		return
	}
	c.commit(effects{update: true})
}

// Focus opens the dropdown and recomputes visibility immediately for the
// current text. A leftover BlankMarker in the input is cleared first.
func (c *Combobox) Focus(_ context.Context) {
	c.mutate(func() effects {
		if c.text == BlankMarker {
			c.text = ""
		}
		c.refilterLocked()
		c.dropdown.FocusIn()
		return effects{update: true}
	})
}

// Blur closes the dropdown and evaluates validity.
func (c *Combobox) Blur() {
	c.mutate(func() effects {
		c.dropdown.FocusOut()
		c.evaluateLocked()
		return effects{update: true}
	})
}

// State returns the dropdown state.
func (c *Combobox) State() DropdownState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropdown.State()
}

// IsOpen reports whether the dropdown is open.
func (c *Combobox) IsOpen() bool {
	return c.State() == Open
}

// SelectIndex activates the option at index in the option list.
//
// Action rows emit an ActionEvent and leave the selection untouched. Other
// options are selected and a ChangeEvent is emitted; in multi-select mode the
// search text is cleared. It panics if index is out of range.
func (c *Combobox) SelectIndex(index int) {
	c.mutate(func() effects {
		return c.activateLocked(c.store.Get(index))
	})
}

// SelectValue activates the first option whose value is value. It reports
// false, and changes nothing, when no such option exists.
func (c *Combobox) SelectValue(value string) bool {
	found := false
	c.mutate(func() effects {
		opt, ok := c.store.FindByValue(value)
		if !ok {
			return effects{}
		}
		found = true
		return c.activateLocked(opt)
	})
	return found
}

func (c *Combobox) activateLocked(opt Option) effects {
	if opt.IsAction {
		return effects{action: &ActionEvent{InstanceID: c.id, Name: c.config.Name, Value: opt.Value}}
	}
	c.selection.Select(opt.Value)
	if c.selection.Multi() {
		c.text = ""
	}
	c.refilterLocked()
	return effects{change: c.changeEventLocked()}
}

// Unselect removes the selected value at index and emits a ChangeEvent.
// It panics if index is out of range.
func (c *Combobox) Unselect(index int) {
	c.mutate(func() effects {
		c.selection.Unselect(index)
		c.refilterLocked()
		return effects{change: c.changeEventLocked()}
	})
}

// Clear empties the selection and emits a ChangeEvent.
func (c *Combobox) Clear() {
	c.mutate(func() effects {
		c.selection.Clear()
		c.refilterLocked()
		return effects{change: c.changeEventLocked()}
	})
}

// ReportValidity evaluates validity and returns whether the combobox is valid.
// The message is available through Validity.
func (c *Combobox) ReportValidity() bool {
	var valid bool
	c.mutate(func() effects {
		valid = c.evaluateLocked().Valid
		return effects{update: true}
	})
	return valid
}

func (c *Combobox) evaluateLocked() Validity {
	return c.gate.Evaluate(c.config.Required, c.selection, c.config.MessageWhenValueMissing)
}

// Validity returns the result of the last validity evaluation.
func (c *Combobox) Validity() Validity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gate.State()
}

// IsLoading reports whether a provider fetch is in flight.
func (c *Combobox) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// ErrorMessage returns the message of the last failed provider fetch.
func (c *Combobox) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// InputDisabled reports whether the input should refuse typing.
func (c *Combobox) InputDisabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config.Disabled || c.loading
}

// ShowPills reports whether selected values should be rendered as pills.
func (c *Combobox) ShowPills() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config.AllowMultiselect && !c.config.HidePills && c.selection.Len() > 0
}

// ShowSelectedValue reports whether a single-select combobox has a value to
// display in place of the input.
func (c *Combobox) ShowSelectedValue() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.config.AllowMultiselect && c.selection.Len() > 0
}

// Config returns a copy of the configuration.
func (c *Combobox) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config
}

// Close cancels the pending debounced search and discards every provider
// response still in flight. It is safe to call Close multiple times.
func (c *Combobox) Close() error {
	c.debouncer.Cancel()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.token++
	return nil
}

// Snapshot is a consistent copy of everything a presentation layer needs.
type Snapshot struct {
	Label           string
	Placeholder     string
	NoMatchString   string
	Text            string
	State           DropdownState
	Options         []Option
	Values          []string
	SelectedOptions []Option
	NoMatch         bool
	Loading         bool
	ErrorMessage    string
	Validity        Validity
	Multi           bool
	ShowPills       bool
	InputDisabled   bool
}

// Snapshot returns the current state.
func (c *Combobox) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Label:           c.config.Label,
		Placeholder:     c.config.Placeholder,
		NoMatchString:   c.config.NoMatchString,
		Text:            c.text,
		State:           c.dropdown.State(),
		Options:         c.store.Options(),
		Values:          c.selection.Values(),
		SelectedOptions: c.selection.ResolveOptions(c.store),
		NoMatch:         c.store.AllHidden(),
		Loading:         c.loading,
		ErrorMessage:    c.errMsg,
		Validity:        c.gate.State(),
		Multi:           c.config.AllowMultiselect,
		ShowPills:       c.config.AllowMultiselect && !c.config.HidePills && c.selection.Len() > 0,
		InputDisabled:   c.config.Disabled || c.loading,
	}
}
