// Package export writes the buffer out as Markdown or as a standalone
// HTML page. Exporting never changes the session.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/markpad/internal/markup"
)

// DefaultFilename is the name used when no export path is given.
const DefaultFilename = "markdown.md"

// ErrUnknownFormat indicates an unsupported export format name.
var ErrUnknownFormat = errors.New("unknown export format")

// Format selects the export output.
type Format uint8

const (
	// FormatMarkdown writes the buffer text unchanged.
	FormatMarkdown Format = iota
	// FormatHTML writes the rendered preview as a full HTML document.
	FormatHTML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatMarkdown:
		return "markdown"
	case FormatHTML:
		return "html"
	default:
		return "unknown"
	}
}

// Ext returns the file extension for the format.
func (f Format) Ext() string {
	if f == FormatHTML {
		return ".html"
	}
	return ".md"
}

// ParseFormat parses "markdown", "md", "html" or "htm".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Source is what an export reads from.
type Source interface {
	Text() string
	Preview() markup.Document
}

// Stylesheet writes CSS for the exported page.
type Stylesheet interface {
	WriteCSS(w io.Writer) error
}

// Markdown writes text unchanged.
func Markdown(w io.Writer, text string) error {
	_, err := io.WriteString(w, text)
	return err
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
{{- if .CSS}}
<style>
{{.CSS}}</style>
{{- end}}
</head>
<body>
<article class="markdown-body">
{{.Body}}</article>
</body>
</html>
`))

// HTML writes doc as a standalone page. css may be nil.
func HTML(w io.Writer, doc markup.Document, css Stylesheet) error {
	title := doc.Title
	if title == "" {
		title = "Untitled"
	}

	var sheet bytes.Buffer
	if css != nil {
		if err := css.WriteCSS(&sheet); err != nil {
			return fmt.Errorf("failed to write stylesheet: %w", err)
		}
	}

	return pageTemplate.Execute(w, struct {
		Title string
		CSS   template.CSS
		Body  template.HTML
	}{
		Title: title,
		CSS:   template.CSS(sheet.String()),
		Body:  template.HTML(doc.HTML),
	})
}

// Write renders src in the given format to w.
func Write(w io.Writer, format Format, src Source, css Stylesheet) error {
	switch format {
	case FormatMarkdown:
		return Markdown(w, src.Text())
	case FormatHTML:
		return HTML(w, src.Preview(), css)
	default:
		return fmt.Errorf("%w: %d", ErrUnknownFormat, format)
	}
}

// ToFile writes src to path atomically using a temp file and rename. An
// empty path selects DefaultFilename with the format's extension.
// It returns the path written.
func ToFile(path string, format Format, src Source, css Stylesheet) (string, error) {
	if path == "" {
		path = strings.TrimSuffix(DefaultFilename, filepath.Ext(DefaultFilename)) + format.Ext()
	}

	var buf bytes.Buffer
	if err := Write(&buf, format, src, css); err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("failed to rename temp file: %w", err)
	}

	return path, nil
}
