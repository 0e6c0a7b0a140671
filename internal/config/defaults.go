package config

// DefaultSeed is the document shown when markpad starts without a file.
const DefaultSeed = `# Welcome to your markdown editor

Write markdown on the left, and the preview updates instantly on the right.

## Features

- Undo and redo across every kind of edit
- Toolbar commands for formatting, lists, links and tables
- Seamless live rendering

> Paste or import markdown to see it instantly rendered.`

// DefaultKeymap binds keys to actions. Values are command names from the
// command registry or one of the app actions.
func DefaultKeymap() map[string]string {
	return map[string]string{
		"Ctrl+B": "format.bold",
		"Alt+I":  "format.italic",
		"Ctrl+U": "format.underline",
		"Alt+S":  "format.strikethrough",
		"Alt+`":  "format.code",
		"Alt+/":  "format.comment",
		"Alt+C":  "dialog.color",
		"Ctrl+L": "dialog.link",
		"Alt+G":  "dialog.image",
		"Alt+K":  "dialog.codeblock",
		"Alt+-":  "insert.hr",
		"Ctrl+T": "dialog.table",
		"Alt+Q":  "line.quote",
		"Alt+L":  "line.ul",
		"Alt+N":  "line.ol",
		"Alt+X":  "line.task",
		"Alt+H":  "dialog.heading",
		"Ctrl+A": "edit.selectAll",
		"Ctrl+Z": "edit.undo",
		"Ctrl+Y": "edit.redo",
		"Ctrl+V": "edit.paste",
		"Ctrl+C": "edit.copy",
		"Ctrl+S": "file.exportMarkdown",
		"Ctrl+E": "file.exportHTML",
		"Ctrl+P": "view.togglePreview",
		"Ctrl+Q": "app.quit",
	}
}

func defaultConfig() map[string]any {
	keymap := make(map[string]any)
	for k, v := range DefaultKeymap() {
		keymap[k] = v
	}
	return map[string]any{
		"editor": map[string]any{
			"seed": DefaultSeed,
		},
		"history": map[string]any{
			"capacity": int64(100),
		},
		"render": map[string]any{
			"highlightStyle":   "github",
			"highlightClasses": false,
			"plugins":          []any{},
			"pluginTimeout":    "250ms",
		},
		"clipboard": map[string]any{
			"system": true,
		},
		"export": map[string]any{
			"filename": "markdown.md",
			"dir":      "",
		},
		"logging": map[string]any{
			"level": "info",
			"file":  "",
		},
		"keymap": keymap,
	}
}
