package markterm

import (
	"sort"
	"strings"

	"github.com/muesli/termenv"

	"pkt.systems/markterm/internal/palette"
)

// Style describes a terminal style as an ANSI prefix sequence. An empty
// prefix is the uniform "no styling" representation; callers never branch
// on color support.
type Style struct {
	Prefix string
}

// Styles groups the semantic styles used by the renderer.
type Styles struct {
	Text       Style
	Heading    [6]Style
	Emphasis   Style
	Strong     Style
	Strike     Style
	CodeInline Style
	CodeBorder Style
	Quote      Style
	ListMarker Style
	LinkText   Style
	LinkURL    Style
	TaskDone   Style
	TaskOpen   Style
	Rule       Style
	StatusBar  Style
}

// Theme provides named styles for rendering.
type Theme interface {
	Name() string
	Styles() Styles
}

type theme struct {
	name   string
	styles Styles
}

func (t theme) Name() string   { return t.name }
func (t theme) Styles() Styles { return t.styles }

// NewTheme returns a Theme from a Styles definition.
func NewTheme(name string, styles Styles) Theme {
	return theme{name: name, styles: styles}
}

func style(prefixes ...string) Style {
	var b strings.Builder
	for _, p := range prefixes {
		if p != "" {
			b.WriteString(p)
		}
	}
	return Style{Prefix: b.String()}
}

func stylesFromPalette(p palette.Palette) Styles {
	return Styles{
		Text: style(p.Text),
		Heading: [6]Style{
			style(palette.Bold, palette.Underline, p.H1),
			style(palette.Bold, p.H2),
			style(palette.Bold, p.H3),
			style(palette.Bold, p.H4),
			style(palette.Bold),
			style(palette.Bold),
		},
		Emphasis:   style(palette.Italic, p.Emphasis),
		Strong:     style(palette.Bold, p.Strong),
		Strike:     style(palette.Strike),
		CodeInline: style(p.CodeInline),
		CodeBorder: style(p.CodeBorder),
		Quote:      style(p.Quote),
		ListMarker: style(p.ListMarker),
		LinkText:   style(palette.Underline, p.LinkText),
		LinkURL:    style(p.LinkURL),
		TaskDone:   style(palette.Bold, p.TaskDone),
		TaskOpen:   style(palette.Dim),
		Rule:       style(p.Rule),
		StatusBar:  style(palette.Reverse),
	}
}

var builtinThemes = map[string]Theme{
	"dark":  theme{name: "dark", styles: stylesFromPalette(palette.PaletteDark)},
	"light": theme{name: "light", styles: stylesFromPalette(palette.PaletteLight)},
	"none":  theme{name: "none", styles: Styles{}},
}

// AvailableThemes returns the selectable theme names, including the auto
// pseudo-theme resolved against the terminal environment.
func AvailableThemes() []string {
	names := make([]string, 0, len(builtinThemes)+1)
	names = append(names, "auto")
	for name := range builtinThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeByName returns a theme by name. "auto" and the empty string resolve
// against the current terminal environment.
func ThemeByName(name string) (Theme, bool) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" || normalized == "auto" {
		return autoTheme(), true
	}
	t, ok := builtinThemes[normalized]
	return t, ok
}

// NoneTheme returns the styleless theme used when color is suppressed.
func NoneTheme() Theme {
	return builtinThemes["none"]
}

// DefaultTheme returns the dark theme.
func DefaultTheme() Theme {
	return builtinThemes["dark"]
}

// autoTheme inspects the terminal: NO_COLOR or an unstyled color profile
// selects none, otherwise background luminance picks dark or light.
func autoTheme() Theme {
	if termenv.EnvNoColor() {
		return builtinThemes["none"]
	}
	if termenv.EnvColorProfile() == termenv.Ascii {
		return builtinThemes["none"]
	}
	if termenv.HasDarkBackground() {
		return builtinThemes["dark"]
	}
	return builtinThemes["light"]
}
