// Package markup renders the Markdown buffer into the HTML preview.
//
// A Pipeline runs three stages:
//
//   - SplitFrontMatter removes a leading YAML block and keeps it as metadata
//   - a Renderer (goldmark with GFM by default) produces HTML
//   - Decorators post-process the HTML, e.g. the chroma Highlighter
//
// Every stage is total. Malformed Markdown, YAML or code never produces an
// error; the worst case is HTML that shows the source as written.
package markup
