// Package core provides the cell and style types shared by the renderer
// and its backends. It exists so backend does not import renderer.
package core

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// Attribute represents text attributes (bold, italic, etc.).
type Attribute uint16

// Text attribute flags.
const (
	AttrNone          Attribute = 0
	AttrBold          Attribute = 1 << iota
	AttrDim                     // Faint/dim text
	AttrItalic                  // Italic text
	AttrUnderline               // Underlined text
	AttrReverse                 // Reverse video (swap fg/bg)
	AttrStrikethrough           // Strikethrough text
)

// Has returns true if the attribute set contains the given attribute.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// Color is a true colour or the terminal default.
type Color struct {
	R, G, B uint8
	// Default indicates this is the terminal's default color.
	Default bool
}

// ColorDefault represents the terminal's default color.
var ColorDefault = Color{Default: true}

// Common colors.
var (
	ColorBlack  = Color{R: 0, G: 0, B: 0}
	ColorWhite  = Color{R: 255, G: 255, B: 255}
	ColorRed    = Color{R: 205, G: 49, B: 49}
	ColorGreen  = Color{R: 13, G: 188, B: 121}
	ColorBlue   = Color{R: 36, G: 114, B: 200}
	ColorYellow = Color{R: 229, G: 229, B: 16}
	ColorCyan   = Color{R: 17, G: 168, B: 205}
	ColorGray   = Color{R: 128, G: 128, B: 128}
)

// ColorFromRGB creates a true color from RGB components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromHex parses #rgb or #rrggbb. The leading # is optional.
func ColorFromHex(hex string) (Color, error) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 3 && len(hex) != 6 {
		return Color{}, fmt.Errorf("invalid hex color length: %s", hex)
	}
	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color: %s", hex)
	}
	r, g, b := c.RGB255()
	return ColorFromRGB(r, g, b), nil
}

// IsDefault returns true if this is the default/transparent color.
func (c Color) IsDefault() bool {
	return c.Default
}

// Hex returns the colour as #rrggbb, or "default".
func (c Color) Hex() string {
	if c.Default {
		return "default"
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Blend mixes c toward other by amount in [0, 1] in Lab space.
// Blending with the default colour returns c unchanged.
func (c Color) Blend(other Color, amount float64) Color {
	if c.Default || other.Default {
		return c
	}
	a := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	b := colorful.Color{R: float64(other.R) / 255, G: float64(other.G) / 255, B: float64(other.B) / 255}
	r, g, bl := a.BlendLab(b, amount).Clamped().RGB255()
	return ColorFromRGB(r, g, bl)
}

// Style represents the visual style of text.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// DefaultStyle returns the default terminal style.
func DefaultStyle() Style {
	return Style{
		Foreground: ColorDefault,
		Background: ColorDefault,
	}
}

// WithForeground returns a new style with the given foreground color.
func (s Style) WithForeground(fg Color) Style {
	s.Foreground = fg
	return s
}

// WithBackground returns a new style with the given background color.
func (s Style) WithBackground(bg Color) Style {
	s.Background = bg
	return s
}

// Bold returns a new style with bold attribute added.
func (s Style) Bold() Style {
	s.Attributes |= AttrBold
	return s
}

// Dim returns a new style with dim attribute added.
func (s Style) Dim() Style {
	s.Attributes |= AttrDim
	return s
}

// Italic returns a new style with italic attribute added.
func (s Style) Italic() Style {
	s.Attributes |= AttrItalic
	return s
}

// Underline returns a new style with underline attribute added.
func (s Style) Underline() Style {
	s.Attributes |= AttrUnderline
	return s
}

// Reverse returns a new style with reverse video attribute added.
func (s Style) Reverse() Style {
	s.Attributes |= AttrReverse
	return s
}

// Strikethrough returns a new style with strikethrough attribute added.
func (s Style) Strikethrough() Style {
	s.Attributes |= AttrStrikethrough
	return s
}

// Merge overlays other on s. Default colours in other do not override.
func (s Style) Merge(other Style) Style {
	if !other.Foreground.IsDefault() {
		s.Foreground = other.Foreground
	}
	if !other.Background.IsDefault() {
		s.Background = other.Background
	}
	s.Attributes |= other.Attributes
	return s
}

// Cell is a single terminal cell. A cell holds one grapheme cluster.
type Cell struct {
	// Text is the grapheme cluster to display.
	Text string

	// Width is the display width of this cell. Zero marks the right half
	// of a wide character.
	Width int

	// Style is the visual style for this cell.
	Style Style
}

// EmptyCell returns an empty cell with default style.
func EmptyCell() Cell {
	return Cell{Text: " ", Width: 1, Style: DefaultStyle()}
}

// IsContinuation returns true if this is a continuation cell.
func (c Cell) IsContinuation() bool {
	return c.Width == 0 && c.Text == ""
}

// CellsFromString splits s into grapheme cells. Wide clusters are
// followed by a continuation cell and control characters are dropped.
func CellsFromString(s string, style Style) []Cell {
	cells := make([]Cell, 0, len(s))
	state := -1
	for len(s) > 0 {
		var cluster string
		var width int
		cluster, s, width, state = uniseg.FirstGraphemeClusterInString(s, state)
		if width == 0 {
			continue
		}
		cells = append(cells, Cell{Text: cluster, Width: width, Style: style})
		for i := 1; i < width; i++ {
			cells = append(cells, Cell{Style: style})
		}
	}
	return cells
}

// StringWidth returns the display width of s.
func StringWidth(s string) int {
	return uniseg.StringWidth(s)
}

// StringFromCells converts cells back to a string.
func StringFromCells(cells []Cell) string {
	var b strings.Builder
	for _, c := range cells {
		if !c.IsContinuation() {
			b.WriteString(c.Text)
		}
	}
	return b.String()
}

// Rect is a screen rectangle. Right and Bottom are exclusive.
type Rect struct {
	Top, Left, Bottom, Right int
}

// RectFromSize creates a rectangle from its origin and size.
func RectFromSize(top, left, height, width int) Rect {
	return Rect{Top: top, Left: left, Bottom: top + height, Right: left + width}
}

// Width returns the width of the rectangle.
func (r Rect) Width() int {
	if r.Right <= r.Left {
		return 0
	}
	return r.Right - r.Left
}

// Height returns the height of the rectangle.
func (r Rect) Height() int {
	if r.Bottom <= r.Top {
		return 0
	}
	return r.Bottom - r.Top
}

// IsEmpty returns true if the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width() == 0 || r.Height() == 0
}
