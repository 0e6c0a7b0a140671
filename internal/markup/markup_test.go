package markup

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGoldmarkRender(t *testing.T) {
	g := NewGoldmark()
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"bold", "**hi**", "<strong>hi</strong>"},
		{"strikethrough", "~~gone~~", "<del>gone</del>"},
		{"raw underline", "<u>under</u>", "<u>under</u>"},
		{"colour span", `<span style="color: red">x</span>`, `<span style="color: red">x</span>`},
		{"task list", "- [ ] todo", `type="checkbox"`},
		{"table", "| a | b |\n|---|---|\n| 1 | 2 |", "<table>"},
		{"heading id", "## Hello World", `id="hello-world"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Render(tt.src)
			if !strings.Contains(got, tt.want) {
				t.Errorf("Render(%q) = %q, want it to contain %q", tt.src, got, tt.want)
			}
		})
	}
}

func TestGoldmarkRenderIsTotal(t *testing.T) {
	g := NewGoldmark()
	for _, src := range []string{"", "```", "[unclosed(", "<div>", "\x00\xff"} {
		_ = g.Render(src)
	}
}

func TestSplitFrontMatter(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantMeta map[string]any
		wantBody string
	}{
		{
			name:     "none",
			src:      "# Title\n",
			wantMeta: nil,
			wantBody: "# Title\n",
		},
		{
			name:     "block",
			src:      "---\ntitle: Notes\ntags: [a, b]\n---\nbody\n",
			wantMeta: map[string]any{"title": "Notes", "tags": []any{"a", "b"}},
			wantBody: "body\n",
		},
		{
			name:     "block at end",
			src:      "---\ntitle: Only\n---",
			wantMeta: map[string]any{"title": "Only"},
			wantBody: "",
		},
		{
			name:     "unterminated",
			src:      "---\ntitle: x\nbody",
			wantMeta: nil,
			wantBody: "---\ntitle: x\nbody",
		},
		{
			name:     "malformed yaml",
			src:      "---\n: : :\n  - [\n---\nbody",
			wantMeta: nil,
			wantBody: "---\n: : :\n  - [\n---\nbody",
		},
		{
			name:     "horizontal rule is not front matter",
			src:      "text\n---\nmore",
			wantMeta: nil,
			wantBody: "text\n---\nmore",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, body := SplitFrontMatter(tt.src)
			if diff := cmp.Diff(tt.wantMeta, meta); diff != "" {
				t.Errorf("meta mismatch (-want +got):\n%s", diff)
			}
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestTitleFrom(t *testing.T) {
	if got := titleFrom(map[string]any{"title": "Meta"}, "# Heading"); got != "Meta" {
		t.Errorf("front matter title = %q", got)
	}
	if got := titleFrom(nil, "```\n# not a title\n```\n# Real #\n"); got != "Real" {
		t.Errorf("heading title = %q", got)
	}
	if got := titleFrom(nil, "## Sub only"); got != "" {
		t.Errorf("expected no title, got %q", got)
	}
}

func TestHighlighterDecorate(t *testing.T) {
	h := NewHighlighter("github", false)
	in := `<pre><code class="language-go">func main() { x := &quot;hi&quot; }
</code></pre>`
	out := h.Decorate(in)

	if !strings.Contains(out, `data-lang="go"`) {
		t.Errorf("missing language label: %s", out)
	}
	if !strings.Contains(out, "style=") {
		t.Errorf("expected inline styles: %s", out)
	}
	if strings.Contains(out, "&amp;quot;") {
		t.Errorf("entities were double escaped: %s", out)
	}
}

func TestHighlighterUnknownLanguage(t *testing.T) {
	h := NewHighlighter("github", false)
	in := `<pre><code class="language-nosuchlang">x</code></pre>`
	if out := h.Decorate(in); out != in {
		t.Errorf("unknown language should be left alone, got %s", out)
	}
}

func TestHighlighterClassesAndCSS(t *testing.T) {
	h := NewHighlighter("monokai", true)
	out := h.Decorate(`<pre><code class="language-python">print(1)
</code></pre>`)
	if !strings.Contains(out, `class="chroma"`) {
		t.Errorf("expected class-based output: %s", out)
	}

	var css bytes.Buffer
	if err := h.WriteCSS(&css); err != nil {
		t.Fatalf("WriteCSS() error: %v", err)
	}
	if !strings.Contains(css.String(), ".chroma") {
		t.Error("stylesheet should target .chroma")
	}
}

func TestHighlighterUnknownStyleFallsBack(t *testing.T) {
	h := NewHighlighter("does-not-exist", false)
	if h.StyleName() != DefaultStyle {
		t.Errorf("style = %q, want %q", h.StyleName(), DefaultStyle)
	}
}

func TestPipelineRender(t *testing.T) {
	upper := DecoratorFunc(strings.ToUpper)
	p := NewPipeline(nil, upper)

	doc := p.Render("---\ntitle: Doc\n---\n# heading\n")
	if doc.Title != "Doc" {
		t.Errorf("title = %q", doc.Title)
	}
	if doc.Meta["title"] != "Doc" {
		t.Errorf("meta = %v", doc.Meta)
	}
	if !strings.Contains(doc.HTML, "<H1") {
		t.Errorf("decorator not applied: %s", doc.HTML)
	}
	if strings.Contains(doc.HTML, "TITLE:") {
		t.Errorf("front matter leaked into HTML: %s", doc.HTML)
	}
}

func TestPipelineEndToEndHighlight(t *testing.T) {
	p := NewPipeline(NewGoldmark(), NewHighlighter("github", true))
	doc := p.Render("```go\npackage main\n```\n")
	if !strings.Contains(doc.HTML, `data-lang="go"`) {
		t.Errorf("code block not highlighted: %s", doc.HTML)
	}
}

func TestPipelineUse(t *testing.T) {
	p := NewPipeline(RendererFunc(func(s string) string { return s }))
	p.Use(nil)
	p.Use(DecoratorFunc(func(s string) string { return s + "!" }))
	if got := p.Render("x").HTML; got != "x!" {
		t.Errorf("Render() = %q", got)
	}
}
