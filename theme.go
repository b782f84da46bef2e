package mdstream

import (
	"sort"
	"strings"

	"github.com/nicwl/gptui-sub001/internal/palette"
)

// Style describes a terminal style as an ANSI prefix sequence.
type Style struct {
	Prefix string
}

// Styles groups the semantic styles used by the renderer, one per node
// role.
type Styles struct {
	Text           Style
	Heading        [6]Style
	Emphasis       Style
	Strong         Style
	EmphasisStrong Style
	Strikethrough  Style
	CodeInline     Style
	CodeBlock      Style
	Quote          Style
	ListMarker     Style
	LinkText       Style
	LinkURL        Style
	Rule           Style
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
		Text:           style(p.Text),
		Heading:        [6]Style{style(palette.Bold, p.H1), style(palette.Bold, p.H2), style(palette.Bold, p.H3), style(p.H4), style(p.H5), style(p.H6)},
		Emphasis:       style(palette.Italic, p.Emphasis),
		Strong:         style(palette.Bold, p.Strong),
		EmphasisStrong: style(palette.Bold, palette.Italic, p.EmphasisStrong),
		Strikethrough:  style(palette.Faint, p.Text),
		CodeInline:     style(p.CodeInline),
		CodeBlock:      style(p.CodeBlock),
		Quote:          style(palette.Italic, p.Quote),
		ListMarker:     style(p.ListMarker),
		LinkText:       style(palette.Underline, p.LinkText),
		LinkURL:        style(p.LinkURL),
		Rule:           style(p.Rule),
	}
}

var builtinThemes = map[string]Theme{
	"default":        theme{name: "default", styles: stylesFromPalette(palette.Default)},
	"dracula":        theme{name: "dracula", styles: stylesFromPalette(palette.Dracula)},
	"nord":           theme{name: "nord", styles: stylesFromPalette(palette.Nord)},
	"gruvbox":        theme{name: "gruvbox", styles: stylesFromPalette(palette.Gruvbox)},
	"solarized-dark": theme{name: "solarized-dark", styles: stylesFromPalette(palette.SolarizedDark)},
	"github-dark":    theme{name: "github-dark", styles: stylesFromPalette(palette.GithubDark)},
	"tokyo-night":    theme{name: "tokyo-night", styles: stylesFromPalette(palette.TokyoNight)},
}

// AvailableThemes returns the names of built-in themes.
func AvailableThemes() []string {
	names := make([]string, 0, len(builtinThemes))
	for name := range builtinThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeByName returns a built-in theme by name. The empty name resolves to
// the default theme.
func ThemeByName(name string) (Theme, bool) {
	if name == "" {
		return builtinThemes["default"], true
	}
	normalized := strings.ToLower(strings.TrimSpace(name))
	t, ok := builtinThemes[normalized]
	return t, ok
}

// DefaultTheme returns the default built-in theme.
func DefaultTheme() Theme {
	return builtinThemes["default"]
}
