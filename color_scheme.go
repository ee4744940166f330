package combobox

import (
	"fmt"
	"strings"
)

// ColorScheme defines the colors a Session renders with.
type ColorScheme struct {
	Name        string       `json:"name" mapstructure:"name"`
	Label       Color        `json:"label" mapstructure:"label"`
	Input       Color        `json:"input" mapstructure:"input"`
	Placeholder Color        `json:"placeholder" mapstructure:"placeholder"`
	Option      OptionColors `json:"option" mapstructure:"option"`
	Highlight   Color        `json:"highlight" mapstructure:"highlight"`
	Pill        Color        `json:"pill" mapstructure:"pill"`
	Error       Color        `json:"error" mapstructure:"error"`
}

// OptionColors defines colors for dropdown rows.
type OptionColors struct {
	Text     Color `json:"text" mapstructure:"text"`
	Sublabel Color `json:"sublabel" mapstructure:"sublabel"`
	Icon     Color `json:"icon" mapstructure:"icon"`
	Action   Color `json:"action" mapstructure:"action"`
}

// Color represents an RGB color with optional formatting.
type Color struct {
	R    uint8 `json:"r" mapstructure:"r"`
	G    uint8 `json:"g" mapstructure:"g"`
	B    uint8 `json:"b" mapstructure:"b"`
	Bold bool  `json:"bold" mapstructure:"bold"`
}

// ThemeDefault is the default color scheme
var ThemeDefault = &ColorScheme{
	Name:        "default",
	Label:       Color{R: 0, G: 255, B: 0, Bold: true},
	Input:       Color{R: 255, G: 255, B: 255, Bold: true},
	Placeholder: Color{R: 128, G: 128, B: 128},
	Option: OptionColors{
		Text:     Color{R: 200, G: 200, B: 200},
		Sublabel: Color{R: 128, G: 128, B: 128},
		Icon:     Color{R: 100, G: 149, B: 237},
		Action:   Color{R: 255, G: 255, B: 0, Bold: true},
	},
	Highlight: Color{R: 0, G: 255, B: 255, Bold: true},
	Pill:      Color{R: 135, G: 206, B: 250, Bold: true},
	Error:     Color{R: 255, G: 85, B: 85, Bold: true},
}

// ThemeDark is a dark theme with light blue labels
var ThemeDark = &ColorScheme{
	Name:        "dark",
	Label:       Color{R: 102, G: 217, B: 239, Bold: true},
	Input:       Color{R: 248, G: 248, B: 242},
	Placeholder: Color{R: 98, G: 114, B: 164},
	Option: OptionColors{
		Text:     Color{R: 189, G: 147, B: 249},
		Sublabel: Color{R: 98, G: 114, B: 164},
		Icon:     Color{R: 139, G: 233, B: 253},
		Action:   Color{R: 255, G: 184, B: 108, Bold: true},
	},
	Highlight: Color{R: 80, G: 250, B: 123, Bold: true},
	Pill:      Color{R: 255, G: 121, B: 198, Bold: true},
	Error:     Color{R: 255, G: 85, B: 85, Bold: true},
}

// ThemeLight is a light theme with blue labels and dark gray text
var ThemeLight = &ColorScheme{
	Name:        "light",
	Label:       Color{R: 0, G: 119, B: 187, Bold: true},
	Input:       Color{R: 36, G: 41, B: 46},
	Placeholder: Color{R: 149, G: 157, B: 165},
	Option: OptionColors{
		Text:     Color{R: 88, G: 96, B: 105},
		Sublabel: Color{R: 149, G: 157, B: 165},
		Icon:     Color{R: 3, G: 102, B: 214},
		Action:   Color{R: 215, G: 58, B: 73, Bold: true},
	},
	Highlight: Color{R: 40, G: 167, B: 69, Bold: true},
	Pill:      Color{R: 111, G: 66, B: 193, Bold: true},
	Error:     Color{R: 203, G: 36, B: 49, Bold: true},
}

// ThemeAccessible is a colorblind-safe theme with high contrast
var ThemeAccessible = &ColorScheme{
	Name:        "accessible",
	Label:       Color{R: 0, G: 114, B: 178, Bold: true},
	Input:       Color{R: 255, G: 255, B: 255},
	Placeholder: Color{R: 204, G: 204, B: 204},
	Option: OptionColors{
		Text:     Color{R: 255, G: 255, B: 255},
		Sublabel: Color{R: 204, G: 204, B: 204},
		Icon:     Color{R: 86, G: 180, B: 233},
		Action:   Color{R: 240, G: 228, B: 66, Bold: true},
	},
	Highlight: Color{R: 230, G: 159, B: 0, Bold: true},
	Pill:      Color{R: 0, G: 158, B: 115, Bold: true},
	Error:     Color{R: 213, G: 94, B: 0, Bold: true},
}

// ThemeDracula is the Dracula color scheme
var ThemeDracula = &ColorScheme{
	Name:        "dracula",
	Label:       Color{R: 255, G: 121, B: 198, Bold: true},
	Input:       Color{R: 248, G: 248, B: 242},
	Placeholder: Color{R: 98, G: 114, B: 164},
	Option: OptionColors{
		Text:     Color{R: 139, G: 233, B: 253},
		Sublabel: Color{R: 98, G: 114, B: 164},
		Icon:     Color{R: 189, G: 147, B: 249},
		Action:   Color{R: 241, G: 250, B: 140, Bold: true},
	},
	Highlight: Color{R: 80, G: 250, B: 123, Bold: true},
	Pill:      Color{R: 255, G: 184, B: 108, Bold: true},
	Error:     Color{R: 255, G: 85, B: 85, Bold: true},
}

var themes = []*ColorScheme{ThemeDefault, ThemeDark, ThemeLight, ThemeAccessible, ThemeDracula}

// ThemeByName returns the built-in theme called name, ignoring case.
func ThemeByName(name string) (*ColorScheme, bool) {
	for _, theme := range themes {
		if strings.EqualFold(theme.Name, name) {
			return theme, true
		}
	}
	return nil, false
}

// ToANSI converts a Color to an ANSI escape sequence.
func (c Color) ToANSI() string {
	var codes []string
	if c.Bold {
		codes = append(codes, "1")
	}
	codes = append(codes, fmt.Sprintf("38;2;%d;%d;%d", c.R, c.G, c.B))
	return fmt.Sprintf("\x1b[%sm", strings.Join(codes, ";"))
}

// Reset returns the ANSI reset sequence.
func Reset() string {
	return "\x1b[0m"
}
