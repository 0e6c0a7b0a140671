package markup

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"regexp"
	"sync"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "github"

var codeBlockRE = regexp.MustCompile(`(?s)<pre><code class="language-([^"]+)">(.*?)</code></pre>`)

// Highlighter is a Decorator that syntax-highlights fenced code blocks
// with chroma. Blocks in languages chroma does not know are left alone.
type Highlighter struct {
	mu        sync.RWMutex
	style     *chroma.Style
	formatter *chromahtml.Formatter
	classes   bool
}

// NewHighlighter creates a highlighter for the named chroma style. With
// classes set, the output uses CSS classes (see WriteCSS) instead of
// inline styles. Unknown style names fall back to DefaultStyle.
func NewHighlighter(style string, classes bool) *Highlighter {
	h := &Highlighter{}
	h.Configure(style, classes)
	return h
}

// Configure changes the style and output mode.
func (h *Highlighter) Configure(style string, classes bool) {
	sty := styles.Get(style)
	if sty == nil || (sty == styles.Fallback && style != styles.Fallback.Name) {
		sty = styles.Get(DefaultStyle)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.style = sty
	h.classes = classes
	h.formatter = chromahtml.New(
		chromahtml.WithClasses(classes),
		chromahtml.TabWidth(4),
	)
}

// StyleName returns the active chroma style name.
func (h *Highlighter) StyleName() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.style.Name
}

// Decorate replaces each language-tagged code block with highlighted HTML
// wrapped in a div carrying a data-lang label.
func (h *Highlighter) Decorate(doc string) string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return codeBlockRE.ReplaceAllStringFunc(doc, func(block string) string {
		m := codeBlockRE.FindStringSubmatch(block)
		lang, code := m[1], html.UnescapeString(m[2])

		out, err := h.highlight(lang, code)
		if err != nil {
			return block
		}
		return fmt.Sprintf(`<div class="highlight" data-lang="%s">%s</div>`, html.EscapeString(lang), out)
	})
}

func (h *Highlighter) highlight(lang, code string) (string, error) {
	lex := lexers.Get(lang)
	if lex == nil {
		return "", fmt.Errorf("no lexer for %q", lang)
	}
	lex = chroma.Coalesce(lex)

	it, err := lex.Tokenise(nil, code)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, it); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteCSS writes the stylesheet for class-based output.
func (h *Highlighter) WriteCSS(w io.Writer) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.formatter.WriteCSS(w, h.style)
}
