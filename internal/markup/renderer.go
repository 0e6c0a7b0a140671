package markup

import (
	"bytes"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Renderer converts Markdown source to HTML. Render must be pure and
// total: any input, however malformed, yields some HTML.
type Renderer interface {
	Render(src string) string
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(src string) string

// Render calls f(src).
func (f RendererFunc) Render(src string) string {
	return f(src)
}

// Goldmark renders GitHub-flavoured Markdown with goldmark.
//
// Raw HTML passes through so that underline, colour spans and comments
// produced by the formatting commands reach the preview.
type Goldmark struct {
	md goldmark.Markdown
}

// NewGoldmark creates a GFM renderer.
func NewGoldmark() *Goldmark {
	return &Goldmark{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
	}
}

// Render converts src to HTML. A conversion error falls back to the
// escaped source in a pre block.
func (g *Goldmark) Render(src string) string {
	var buf bytes.Buffer
	if err := g.md.Convert([]byte(src), &buf); err != nil {
		return "<pre>" + html.EscapeString(src) + "</pre>\n"
	}
	return buf.String()
}
