package combobox

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRendererBuild(t *testing.T) {
	t.Parallel()

	r := newRenderer(&bytes.Buffer{}, nil)

	tests := []struct {
		name string
		snap Snapshot
		view view
		want []string
	}{
		{
			name: "closed with placeholder",
			snap: Snapshot{Label: "Fruit", Placeholder: "Select an option", State: Closed, Validity: Validity{Valid: true}},
			want: []string{"Fruit", "> Select an option"},
		},
		{
			name: "open with highlight, icon and sublabel",
			snap: Snapshot{
				Text:  "a",
				State: Open,
				Options: []Option{
					{Value: "a", Label: "Apple", Icon: "fruit"},
					{Value: "x", Label: "Hidden", Hidden: true},
					{Value: "b", Label: "Banana", Sublabel: "yellow"},
					{Value: "new", Label: "New fruit", Icon: "ignored", IsAction: true},
				},
				Validity: Validity{Valid: true},
			},
			view: view{highlight: 1},
			want: []string{
				"> a",
				"  [fruit] Apple",
				"▶ Banana - yellow",
				"  + New fruit",
			},
		},
		{
			name: "multi counter and pills",
			snap: Snapshot{
				Label:           "Fruit",
				State:           Closed,
				Multi:           true,
				ShowPills:       true,
				Values:          []string{"a", "gone"},
				SelectedOptions: []Option{{Value: "a", Label: "Apple"}},
				Placeholder:     "Select an option",
				Validity:        Validity{Valid: true},
			},
			want: []string{"Fruit (2)", "[Apple ×] [gone ×]", "> Select an option"},
		},
		{
			name: "single selection replaces placeholder",
			snap: Snapshot{
				State:           Closed,
				Values:          []string{"b"},
				SelectedOptions: []Option{{Value: "b", Label: "Banana"}},
				Placeholder:     "Select an option",
				Validity:        Validity{Valid: true},
			},
			want: []string{"> Banana"},
		},
		{
			name: "no match",
			snap: Snapshot{
				Text:          "zzz",
				State:         Open,
				Options:       []Option{{Value: "a", Label: "Apple", Hidden: true}},
				NoMatch:       true,
				NoMatchString: "No matches found",
				Validity:      Validity{Valid: true},
			},
			want: []string{"> zzz", "  No matches found"},
		},
		{
			name: "loading wins over options",
			snap: Snapshot{State: Open, Loading: true, Options: []Option{{Value: "a", Label: "Apple"}}, Validity: Validity{Valid: true}},
			want: []string{"> ", "  Loading..."},
		},
		{
			name: "provider error",
			snap: Snapshot{State: Open, ErrorMessage: "connection refused", Validity: Validity{Valid: true}},
			want: []string{"> ", "  connection refused"},
		},
		{
			name: "validity message",
			snap: Snapshot{State: Closed, Validity: Validity{Valid: false, Message: "Please select at least one option."}},
			want: []string{"> ", "Please select at least one option."},
		},
		{
			name: "truncated to width",
			snap: Snapshot{Text: "abcdefghij", State: Closed, Validity: Validity{Valid: true}},
			view: view{width: 6},
			want: []string{"> abc…"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := r.build(tt.snap, tt.view)
			assert.Equal(t, tt.want, f.plainText)
			assert.Len(t, f.lines, len(f.plainText))
		})
	}
}

func TestRendererBuildTruncatedKeepsColor(t *testing.T) {
	t.Parallel()

	r := newRenderer(&bytes.Buffer{}, ThemeDark)
	snap := Snapshot{
		State:           Open,
		Multi:           true,
		ShowPills:       true,
		Values:          []string{"a", "b"},
		SelectedOptions: []Option{{Value: "a", Label: "Apple"}, {Value: "b", Label: "Banana"}},
		Options: []Option{
			{Value: "c", Label: "Cherry", Sublabel: "red and sweet"},
			{Value: "new", Label: "Create a new fruit", IsAction: true},
		},
		Validity: Validity{Valid: true},
	}
	f := r.build(snap, view{width: 10})

	require.Len(t, f.plainText, 4)
	want := []Color{ThemeDark.Pill, ThemeDark.Placeholder, ThemeDark.Highlight, ThemeDark.Option.Action}
	for i, c := range want {
		if i == 1 {
			continue // the prompt line fits
		}
		assert.True(t, strings.HasSuffix(f.plainText[i], "…"), f.plainText[i])
		assert.LessOrEqual(t, runewidth.StringWidth(f.plainText[i]), 10)
		assert.Equal(t, r.paint(c, f.plainText[i]), f.lines[i])
	}
}

func TestRendererBuildScrolls(t *testing.T) {
	t.Parallel()

	var options []Option
	for i := range 15 {
		options = append(options, Option{Value: fmt.Sprint(i), Label: fmt.Sprintf("Option %d", i)})
	}
	r := newRenderer(&bytes.Buffer{}, ThemeDark)
	f := r.build(Snapshot{State: Open, Options: options, Validity: Validity{Valid: true}}, view{highlight: 12, offset: 5})

	require.Len(t, f.plainText, 1+maxVisibleRows)
	assert.Equal(t, "  Option 5", f.plainText[1])
	assert.Equal(t, "▶ Option 12", f.plainText[8])
	assert.Equal(t, "  Option 14", f.plainText[maxVisibleRows])
}

func TestRendererInputCaret(t *testing.T) {
	t.Parallel()

	r := newRenderer(&bytes.Buffer{}, nil)
	f := r.build(Snapshot{Label: "Fruit", Text: "りんご", State: Closed, Validity: Validity{Valid: true}}, view{})
	assert.Equal(t, 1, f.inputRow)
	assert.Equal(t, 2+6, f.inputCol)
}

func TestRendererRender(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := newRenderer(&buf, nil)
	snap := Snapshot{
		Label:    "Fruit",
		State:    Open,
		Options:  []Option{{Value: "a", Label: "Apple"}, {Value: "b", Label: "Banana"}},
		Validity: Validity{Valid: true},
	}

	require.NoError(t, r.render(snap, view{}))
	first := buf.String()
	assert.Contains(t, first, "Apple")
	assert.Contains(t, first, "\x1b[J")
	assert.NotContains(t, first, "\x1b[1A", "first frame starts at the cursor")
	assert.Equal(t, 1, r.cursorRow)
	assert.Equal(t, 4, r.lastLines)

	buf.Reset()
	require.NoError(t, r.render(snap, view{highlight: 1}))
	assert.True(t, strings.HasPrefix(buf.String(), "\x1b[1A\r"), "redraw moves back to the label line")

	buf.Reset()
	require.NoError(t, r.finish())
	assert.Equal(t, "\x1b[2B\r\n", buf.String())
	assert.Equal(t, 0, r.cursorRow)
}

func TestThemeByName(t *testing.T) {
	t.Parallel()

	theme, ok := ThemeByName("Dracula")
	require.True(t, ok)
	assert.Same(t, ThemeDracula, theme)

	_, ok = ThemeByName("solarized")
	assert.False(t, ok)
}

func TestColorToANSI(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "\x1b[38;2;1;2;3m", Color{R: 1, G: 2, B: 3}.ToANSI())
	assert.Equal(t, "\x1b[1;38;2;255;0;0m", Color{R: 255, Bold: true}.ToANSI())
	assert.Equal(t, "\x1b[0m", Reset())
}
