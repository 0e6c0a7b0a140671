package markup

import "sync"

// Decorator post-processes rendered HTML. Like Renderer it must be total:
// on any internal failure it returns its input unchanged.
type Decorator interface {
	Decorate(html string) string
}

// DecoratorFunc adapts a function to the Decorator interface.
type DecoratorFunc func(html string) string

// Decorate calls f(html).
func (f DecoratorFunc) Decorate(html string) string {
	return f(html)
}

// Document is a rendered preview.
type Document struct {
	HTML  string
	Meta  map[string]any
	Title string
}

// Pipeline renders Markdown through a Renderer and then each Decorator in
// order.
type Pipeline struct {
	mu         sync.RWMutex
	renderer   Renderer
	decorators []Decorator
}

// NewPipeline creates a pipeline. A nil renderer selects goldmark.
func NewPipeline(r Renderer, decorators ...Decorator) *Pipeline {
	if r == nil {
		r = NewGoldmark()
	}
	return &Pipeline{
		renderer:   r,
		decorators: decorators,
	}
}

// Use appends a decorator.
func (p *Pipeline) Use(d Decorator) {
	if d == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.decorators = append(p.decorators, d)
}

// Render strips front matter, renders the body and runs the decorators.
func (p *Pipeline) Render(src string) Document {
	p.mu.RLock()
	defer p.mu.RUnlock()

	meta, body := SplitFrontMatter(src)
	out := p.renderer.Render(body)
	for _, d := range p.decorators {
		out = d.Decorate(out)
	}
	return Document{
		HTML:  out,
		Meta:  meta,
		Title: titleFrom(meta, body),
	}
}
