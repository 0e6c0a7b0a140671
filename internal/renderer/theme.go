package renderer

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/dshills/markpad/internal/renderer/core"
)

// Theme holds every style the renderer draws with.
type Theme struct {
	Text      core.Style
	Selection core.Style
	Border    core.Style

	Heading core.Style
	Code    core.Style
	Quote   core.Style
	Link    core.Style
	Rule    core.Style

	Toolbar         core.Style
	ToolbarDisabled core.Style

	Status        core.Style
	StatusWarning core.Style
	StatusError   core.Style
	Prompt        core.Style
}

// DefaultTheme uses the terminal's own colours.
func DefaultTheme() Theme {
	base := core.DefaultStyle()
	bar := base.WithBackground(core.ColorGray).WithForeground(core.ColorWhite)
	return Theme{
		Text:            base,
		Selection:       base.Reverse(),
		Border:          base.Dim(),
		Heading:         base.Bold().WithForeground(core.ColorBlue),
		Code:            base.WithForeground(core.ColorGreen),
		Quote:           base.Dim().Italic(),
		Link:            base.Underline().WithForeground(core.ColorCyan),
		Rule:            base.Dim(),
		Toolbar:         bar,
		ToolbarDisabled: bar.Dim(),
		Status:          bar,
		StatusWarning:   bar.WithForeground(core.ColorYellow).Bold(),
		StatusError:     bar.WithForeground(core.ColorRed).Bold(),
		Prompt:          base.Bold(),
	}
}

// ThemeFromStyle derives a theme from a chroma style so the editor
// matches the highlighted code in the preview. Token types the style does
// not colour keep the default theme's value.
func ThemeFromStyle(name string) Theme {
	t := DefaultTheme()
	s := styles.Get(name)
	if s == nil {
		return t
	}

	bg := s.Get(chroma.Background)
	if bg.Background.IsSet() {
		t.Text = t.Text.WithBackground(fromColour(bg.Background))
	}
	if bg.Colour.IsSet() {
		t.Text = t.Text.WithForeground(fromColour(bg.Colour))
	}
	if bg.Background.IsSet() && bg.Colour.IsSet() {
		// Tint instead of reversing so selected code keeps its colours.
		sel := t.Text.Background.Blend(t.Text.Foreground, 0.25)
		t.Selection = t.Text.WithBackground(sel)
		t.Border = t.Text.WithForeground(t.Text.Background.Blend(t.Text.Foreground, 0.4))
	}

	t.Heading = derive(t.Text, s.Get(chroma.GenericHeading), t.Heading).Bold()
	t.Code = derive(t.Text, s.Get(chroma.LiteralString), t.Code)
	t.Quote = derive(t.Text, s.Get(chroma.Comment), t.Quote).Italic()
	t.Link = derive(t.Text, s.Get(chroma.NameFunction), t.Link).Underline()
	t.Rule = t.Border
	return t
}

func derive(base core.Style, e chroma.StyleEntry, fallback core.Style) core.Style {
	if !e.Colour.IsSet() {
		return base.Merge(fallback)
	}
	return base.WithForeground(fromColour(e.Colour))
}

func fromColour(c chroma.Colour) core.Color {
	return core.ColorFromRGB(c.Red(), c.Green(), c.Blue())
}
