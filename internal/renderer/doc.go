// Package renderer provides the terminal display for markpad.
//
// The screen is split into four regions:
//
//	┌────────────────────────────────────────┐
//	│ toolbar: command labels                │
//	├───────────────────┬────────────────────┤
//	│ editor (source)   │ preview (rendered) │
//	├───────────────────┴────────────────────┤
//	│ status line / dialog prompt            │
//	└────────────────────────────────────────┘
//
// The editor pane soft-wraps the Markdown source by grapheme cluster and
// highlights the selection. The preview pane lays out the pipeline's HTML
// as styled text and scrolls in step with the caret.
//
// Usage:
//
//	b, _ := backend.NewTerminal()
//	r := renderer.New(b, renderer.DefaultOptions())
//	r.Render(renderer.Frame{Text: text, Selection: sel, Preview: doc})
package renderer
