package combobox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// KeyAction represents the action to perform when a key is pressed
type KeyAction int

// Key action constants define the actions that can be performed when keys are pressed
const (
	ActionNone KeyAction = iota
	ActionSubmit
	ActionCancel
	ActionMoveUp
	ActionMoveDown
	ActionDeleteChar
	ActionDeleteLine
	ActionUnselectLast
	ActionClearSelection
	ActionDone
	ActionEOF
)

// KeyMap holds the key binding configuration
type KeyMap struct {
	bindings  map[rune]KeyAction
	sequences map[string]KeyAction
}

// NewDefaultKeyMap creates the default key bindings of a Session.
//
// Default key bindings:
//   - Enter: Activate the highlighted option
//   - Tab: Finish (validity is checked first)
//   - Ctrl+C: Cancel (interrupt)
//   - Ctrl+D: EOF
//   - Ctrl+U: Clear the search text
//   - Ctrl+X: Unselect the last selected value
//   - Ctrl+L: Clear the selection
//   - Backspace: Delete the last character of the search text
//   - Up/Down arrows: Move the highlight
//
// Example:
//
//	keyMap := combobox.NewDefaultKeyMap()
//	keyMap.Bind('\x0E', combobox.ActionMoveDown) // Ctrl+N
func NewDefaultKeyMap() *KeyMap {
	km := &KeyMap{
		bindings:  make(map[rune]KeyAction),
		sequences: make(map[string]KeyAction),
	}

	km.bindings['\r'] = ActionSubmit
	km.bindings['\n'] = ActionSubmit
	km.bindings['\t'] = ActionDone
	km.bindings['\x03'] = ActionCancel         // Ctrl+C
	km.bindings['\x04'] = ActionEOF            // Ctrl+D
	km.bindings['\x15'] = ActionDeleteLine     // Ctrl+U
	km.bindings['\x18'] = ActionUnselectLast   // Ctrl+X
	km.bindings['\x0C'] = ActionClearSelection // Ctrl+L
	km.bindings['\x7f'] = ActionDeleteChar     // Backspace
	km.bindings['\b'] = ActionDeleteChar       // Backspace

	km.sequences["[A"] = ActionMoveUp
	km.sequences["[B"] = ActionMoveDown

	return km
}

// Bind adds or updates a key binding for a single character.
func (km *KeyMap) Bind(key rune, action KeyAction) {
	km.bindings[key] = action
}

// BindSequence adds or updates an escape sequence binding. The sequence does
// not include the initial ESC character.
func (km *KeyMap) BindSequence(seq string, action KeyAction) {
	km.sequences[seq] = action
}

// GetAction returns the action for a key, or ActionNone if not bound
func (km *KeyMap) GetAction(key rune) KeyAction {
	if km == nil || km.bindings == nil {
		return ActionNone
	}
	return km.bindings[key]
}

// GetSequenceAction returns the action for an escape sequence, or ActionNone if not bound
func (km *KeyMap) GetSequenceAction(seq string) KeyAction {
	if km == nil || km.sequences == nil {
		return ActionNone
	}
	return km.sequences[seq]
}

// SessionConfig holds the presentation settings of a Session.
type SessionConfig struct {
	ColorScheme *ColorScheme
	KeyMap      *KeyMap
	Output      io.Writer // Defaults to stdout
}

// SessionOption configures a Session.
type SessionOption func(*SessionConfig)

// WithColorScheme sets the color scheme
func WithColorScheme(colorScheme *ColorScheme) SessionOption {
	return func(c *SessionConfig) {
		c.ColorScheme = colorScheme
	}
}

// WithKeyMap sets the key bindings
func WithKeyMap(keyMap *KeyMap) SessionOption {
	return func(c *SessionConfig) {
		c.KeyMap = keyMap
	}
}

// WithOutput sets the writer frames are drawn to
func WithOutput(w io.Writer) SessionOption {
	return func(c *SessionConfig) {
		c.Output = w
	}
}

// Session drives a Combobox from a terminal.
//
// Printable keys edit the search text, the arrows move the highlight through
// the visible options and Enter activates the highlighted one. A
// single-select session finishes once an option is selected; a multi-select
// session finishes on Tab. The dropdown is redrawn after every state change
// of the combobox, including debounced searches and provider responses.
type Session struct {
	box      *Combobox
	config   SessionConfig
	terminal terminalInterface
	renderer *renderer

	highlight int
	offset    int
}

// NewSession opens the terminal and prepares a session for box.
//
// Example:
//
//	s, err := combobox.NewSession(box, combobox.WithColorScheme(combobox.ThemeDark))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer s.Close()
//
//	values, err := s.Run()
func NewSession(box *Combobox, options ...SessionOption) (*Session, error) {
	terminal, err := newRealTerminal()
	if err != nil {
		return nil, fmt.Errorf("failed to create terminal: %w", err)
	}
	config := SessionConfig{Output: terminal.output}
	for _, option := range options {
		option(&config)
	}
	return newSession(box, terminal, config), nil
}

func newSession(box *Combobox, terminal terminalInterface, config SessionConfig) *Session {
	if config.ColorScheme == nil {
		config.ColorScheme = ThemeDefault
	}
	if config.KeyMap == nil {
		config.KeyMap = NewDefaultKeyMap()
	}
	if config.Output == nil {
		config.Output = newOutput()
	}
	return &Session{
		box:      box,
		config:   config,
		terminal: terminal,
		renderer: newRenderer(config.Output, config.ColorScheme),
	}
}

// Run starts the session and returns the selected values.
func (s *Session) Run() ([]string, error) {
	return s.RunWithContext(context.Background())
}

type keyEvent struct {
	r   rune
	seq string
	err error
}

// RunWithContext starts the session with context support.
//
// It returns the selected values once the user finishes, ErrInterrupted on
// Ctrl+C, ErrEOF when input ends and ctx.Err() when ctx is done.
func (s *Session) RunWithContext(ctx context.Context) ([]string, error) {
	if err := s.terminal.SetRaw(); err != nil {
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	defer func() {
		if err := s.terminal.Restore(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to exit raw mode: %v\n", err)
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates := make(chan struct{}, 1)
	unsubscribe := s.box.Subscribe(func(Snapshot) {
		select {
		case updates <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	keys := make(chan keyEvent)
	go s.readKeys(ctx, keys)

	s.box.Focus(ctx)
	if err := s.render(); err != nil {
		return nil, err
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-updates:
		case key := <-keys:
			if key.err != nil {
				if errors.Is(key.err, io.EOF) {
					return nil, ErrEOF
				}
				return nil, fmt.Errorf("failed to read input: %w", key.err)
			}
			values, done, err := s.handleKey(ctx, key)
			if done {
				if err := s.render(); err != nil {
					return nil, err
				}
			}
			if err != nil || done {
				s.renderer.finish()
				return values, err
			}
		}
		if err := s.render(); err != nil {
			return nil, err
		}
	}
}

// readKeys forwards key presses until ctx is done or reading fails.
func (s *Session) readKeys(ctx context.Context, keys chan<- keyEvent) {
	for {
		var ev keyEvent
		r, _, err := s.terminal.ReadRune()
		switch {
		case err != nil:
			ev.err = err
		case r == '\x1b':
			seq, err := s.readEscapeSequence()
			if err != nil {
				ev.err = err
			} else {
				ev.r, ev.seq = r, seq
			}
		default:
			ev.r = r
		}

		select {
		case keys <- ev:
		case <-ctx.Done():
			return
		}
		if ev.err != nil {
			return
		}
	}
}

func (s *Session) readEscapeSequence() (string, error) {
	seq := make([]rune, 0, 10)
	for range 10 {
		r, _, err := s.terminal.ReadRune()
		if err != nil {
			return "", err
		}
		seq = append(seq, r)

		str := string(seq)
		if str == "[A" || str == "[B" || str == "[C" || str == "[D" || str == "[H" || str == "[F" {
			return str, nil
		}
		if strings.HasSuffix(str, "~") && len(str) >= 3 {
			return str, nil
		}
		if len(seq) >= 3 && (seq[len(seq)-1] < '0' || seq[len(seq)-1] > '9') {
			return str, nil
		}
	}
	return string(seq), nil
}

// handleKey applies one key press. done reports that the session is over.
func (s *Session) handleKey(ctx context.Context, key keyEvent) (values []string, done bool, err error) {
	var action KeyAction
	if key.seq != "" {
		action = s.config.KeyMap.GetSequenceAction(key.seq)
	} else {
		action = s.config.KeyMap.GetAction(key.r)
	}

	switch action {
	case ActionCancel:
		fmt.Fprint(s.config.Output, "^C")
		return nil, false, ErrInterrupted

	case ActionEOF:
		if s.box.InputText() == "" {
			return nil, false, ErrEOF
		}

	case ActionMoveUp:
		if s.highlight > 0 {
			s.highlight--
		}

	case ActionMoveDown:
		if s.highlight < len(s.box.VisibleIndices())-1 {
			s.highlight++
		}

	case ActionDeleteChar:
		text := []rune(s.box.InputText())
		if len(text) > 0 && !s.box.InputDisabled() {
			s.input(ctx, string(text[:len(text)-1]))
		}

	case ActionDeleteLine:
		if s.box.InputText() != "" {
			s.input(ctx, "")
		}

	case ActionUnselectLast:
		if n := len(s.box.Values()); n > 0 {
			s.box.Unselect(n - 1)
		}

	case ActionClearSelection:
		s.box.Clear()

	case ActionSubmit:
		return s.submit(ctx)

	case ActionDone:
		return s.finish(ctx)

	default:
		if key.seq == "" && (key.r >= 32 && key.r != 127) && !s.box.InputDisabled() {
			s.input(ctx, s.box.InputText()+string(key.r))
		}
	}
	return nil, false, nil
}

func (s *Session) input(ctx context.Context, text string) {
	s.highlight, s.offset = 0, 0
	s.box.Input(ctx, text)
}

// submit activates the highlighted option. A single-select session is over
// once a regular option is selected.
func (s *Session) submit(ctx context.Context) ([]string, bool, error) {
	opt, ok := highlightedOption(s.box.Snapshot().Options, s.highlight)
	if !ok || !s.box.SelectValue(opt.Value) {
		return nil, false, nil
	}

	if n := len(s.box.VisibleIndices()); s.highlight >= n {
		s.highlight = max(n-1, 0)
	}
	if opt.IsAction || s.box.Config().AllowMultiselect {
		return nil, false, nil
	}
	return s.finish(ctx)
}

// highlightedOption returns the visible option at position highlight.
func highlightedOption(options []Option, highlight int) (Option, bool) {
	for _, opt := range options {
		if opt.Hidden {
			continue
		}
		if highlight == 0 {
			return opt, true
		}
		highlight--
	}
	return Option{}, false
}

// finish closes the dropdown. An invalid combobox is refocused so the
// message stays visible and the user can keep picking.
func (s *Session) finish(ctx context.Context) ([]string, bool, error) {
	s.box.Blur()
	if !s.box.Validity().Valid {
		s.box.Focus(ctx)
		return nil, false, nil
	}
	return s.box.Values(), true, nil
}

func (s *Session) render() error {
	width, _, _ := s.terminal.Size()
	visible := len(s.box.VisibleIndices())
	if s.highlight >= visible {
		s.highlight = max(visible-1, 0)
	}
	if s.highlight < s.offset {
		s.offset = s.highlight
	}
	if s.highlight >= s.offset+maxVisibleRows {
		s.offset = s.highlight - maxVisibleRows + 1
	}
	v := view{highlight: s.highlight, offset: s.offset, width: width}
	if err := s.renderer.render(s.box.Snapshot(), v); err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}
	return nil
}

// Close restores the cursor and releases the terminal. It does not close the
// combobox. It's safe to call Close multiple times.
func (s *Session) Close() error {
	if s.config.Output != nil {
		fmt.Fprint(s.config.Output, "\x1b[?25h") // Show cursor
	}
	if s.terminal != nil {
		return s.terminal.Close()
	}
	return nil
}
