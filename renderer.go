package combobox

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Markers drawn by the renderer.
const (
	highlightMarker = "▶ "
	loadingMarker   = "Loading..."
	actionMarker    = "+ "
	pillRemove      = " ×"
)

// maxVisibleRows limits the dropdown height.
const maxVisibleRows = 10

// renderer draws a Snapshot as a block of terminal lines below the cursor.
//
// Each frame redraws the whole block: the cursor is moved back to the first
// line of the previous frame, every line is cleared and rewritten, leftover
// lines are erased and the cursor is parked at the end of the input text.
type renderer struct {
	output      io.Writer
	colorScheme *ColorScheme
	cursorRow   int // row of the input line within the last frame
	lastLines   int
}

func newRenderer(output io.Writer, colorScheme *ColorScheme) *renderer {
	if colorScheme == nil {
		colorScheme = ThemeDefault
	}
	return &renderer{
		output:      output,
		colorScheme: colorScheme,
	}
}

// view is what a frame shows besides the combobox state.
type view struct {
	highlight int // position within the visible options
	offset    int // first visible option drawn
	width     int // terminal width, zero for unlimited
}

// frame is a rendered block and the position of the input caret.
type frame struct {
	lines     []string
	inputRow  int
	inputCol  int
	plainText []string // the same lines without escape sequences
}

func (r *renderer) paint(c Color, s string) string {
	return c.ToANSI() + s + Reset()
}

// build lays out snap without writing anything.
func (r *renderer) build(snap Snapshot, v view) frame {
	var f frame
	// A line cut to the terminal width keeps only its base color.
	add := func(plain, colored string, base Color) {
		if v.width > 0 && runewidth.StringWidth(plain) > v.width {
			plain = runewidth.Truncate(plain, v.width, "…")
			colored = r.paint(base, plain)
		}
		f.plainText = append(f.plainText, plain)
		f.lines = append(f.lines, colored)
	}

	if label := labelLine(snap); label != "" {
		add(label, r.paint(r.colorScheme.Label, label), r.colorScheme.Label)
	}

	if snap.ShowPills {
		var plain, colored []string
		for _, value := range snap.Values {
			pill := "[" + pillText(value, snap.SelectedOptions) + pillRemove + "]"
			plain = append(plain, pill)
			colored = append(colored, r.paint(r.colorScheme.Pill, pill))
		}
		add(strings.Join(plain, " "), strings.Join(colored, " "), r.colorScheme.Pill)
	}

	const prompt = "> "
	f.inputRow = len(f.lines)
	f.inputCol = runewidth.StringWidth(prompt) + runewidth.StringWidth(snap.Text)
	switch {
	case snap.Text != "":
		add(prompt+snap.Text, prompt+r.paint(r.colorScheme.Input, snap.Text), r.colorScheme.Input)
	case !snap.Multi && len(snap.SelectedOptions) > 0:
		selected := snap.SelectedOptions[0].Label
		add(prompt+selected, prompt+r.paint(r.colorScheme.Input, selected), r.colorScheme.Input)
	default:
		add(prompt+snap.Placeholder, prompt+r.paint(r.colorScheme.Placeholder, snap.Placeholder), r.colorScheme.Placeholder)
	}

	if snap.State == Open {
		switch {
		case snap.Loading:
			add("  "+loadingMarker, "  "+r.paint(r.colorScheme.Placeholder, loadingMarker), r.colorScheme.Placeholder)
		case snap.ErrorMessage != "":
			add("  "+snap.ErrorMessage, "  "+r.paint(r.colorScheme.Error, snap.ErrorMessage), r.colorScheme.Error)
		default:
			visible := visibleOptions(snap.Options)
			end := min(v.offset+maxVisibleRows, len(visible))
			for i := v.offset; i < end; i++ {
				highlighted := i == v.highlight
				plain, colored := r.optionRow(visible[i], highlighted)
				add(plain, colored, r.optionColor(visible[i], highlighted))
			}
			if snap.NoMatch {
				add("  "+snap.NoMatchString, "  "+r.paint(r.colorScheme.Placeholder, snap.NoMatchString), r.colorScheme.Placeholder)
			}
		}
	}

	if !snap.Validity.Valid && snap.Validity.Message != "" {
		add(snap.Validity.Message, r.paint(r.colorScheme.Error, snap.Validity.Message), r.colorScheme.Error)
	}
	return f
}

func (r *renderer) optionRow(opt Option, highlighted bool) (plain, colored string) {
	marker := "  "
	if highlighted {
		marker = highlightMarker
	}
	text := opt.Label
	if opt.IsAction {
		text = actionMarker + text
	}

	plain = marker
	colored = marker
	if opt.Icon != "" && !opt.IsAction {
		icon := "[" + opt.Icon + "] "
		plain += icon
		colored += r.paint(r.colorScheme.Option.Icon, icon)
	}

	plain += text
	colored += r.paint(r.optionColor(opt, highlighted), text)

	if opt.Sublabel != "" {
		sub := " - " + opt.Sublabel
		plain += sub
		colored += r.paint(r.colorScheme.Option.Sublabel, sub)
	}
	return plain, colored
}

func (r *renderer) optionColor(opt Option, highlighted bool) Color {
	switch {
	case highlighted:
		return r.colorScheme.Highlight
	case opt.IsAction:
		return r.colorScheme.Option.Action
	default:
		return r.colorScheme.Option.Text
	}
}

// render draws snap, replacing the previous frame.
func (r *renderer) render(snap Snapshot, v view) error {
	f := r.build(snap, v)

	var b strings.Builder
	if r.cursorRow > 0 {
		fmt.Fprintf(&b, "\x1b[%dA", r.cursorRow)
	}
	b.WriteString("\r")
	for i, line := range f.lines {
		if i > 0 {
			b.WriteString("\r\n")
		}
		b.WriteString("\x1b[K")
		b.WriteString(line)
	}
	b.WriteString("\x1b[J") // erase leftovers of a taller frame

	if up := len(f.lines) - 1 - f.inputRow; up > 0 {
		fmt.Fprintf(&b, "\x1b[%dA", up)
	}
	b.WriteString("\r")
	if f.inputCol > 0 {
		fmt.Fprintf(&b, "\x1b[%dC", f.inputCol)
	}

	if _, err := io.WriteString(r.output, b.String()); err != nil {
		return err
	}
	r.cursorRow = f.inputRow
	r.lastLines = len(f.lines)
	return nil
}

// finish moves the cursor below the last frame.
func (r *renderer) finish() error {
	var b strings.Builder
	if down := r.lastLines - 1 - r.cursorRow; down > 0 {
		fmt.Fprintf(&b, "\x1b[%dB", down)
	}
	b.WriteString("\r\n")
	r.cursorRow = 0
	r.lastLines = 0
	_, err := io.WriteString(r.output, b.String())
	return err
}

// labelLine returns the label, with a "(n)" counter when several values can
// be selected.
func labelLine(snap Snapshot) string {
	if snap.Label == "" {
		return ""
	}
	if snap.Multi && len(snap.Values) > 0 {
		return fmt.Sprintf("%s (%d)", snap.Label, len(snap.Values))
	}
	return snap.Label
}

// pillText returns the label of value, or value itself when no option
// carries it any more.
func pillText(value string, selected []Option) string {
	for _, opt := range selected {
		if opt.Value == value {
			return opt.Label
		}
	}
	return value
}

func visibleOptions(options []Option) []Option {
	visible := make([]Option, 0, len(options))
	for _, opt := range options {
		if !opt.Hidden {
			visible = append(visible, opt)
		}
	}
	return visible
}
