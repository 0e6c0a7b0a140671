package app

import (
	"github.com/dshills/markpad/internal/command"
	"github.com/dshills/markpad/internal/command/structured"
	"github.com/dshills/markpad/internal/renderer"
	"github.com/dshills/markpad/internal/renderer/backend"
	"github.com/dshills/markpad/internal/renderer/core"
)

// prompt is a one-line dialog in the status bar. The selection is
// captured when it opens; Enter applies and Esc cancels without touching
// the buffer.
type prompt struct {
	label  string
	input  []rune
	cursor int
	hint   string

	// apply runs on Enter. A non-nil error keeps the prompt open.
	apply func(input string) error
}

func (p *prompt) insert(s string) {
	rs := []rune(s)
	p.input = append(p.input[:p.cursor], append(rs, p.input[p.cursor:]...)...)
	p.cursor += len(rs)
}

// openPrompt shows a prompt prefilled with initial.
func (app *Application) openPrompt(label, initial string, apply func(string) error) {
	app.prompt = &prompt{label: label, apply: apply}
	app.prompt.insert(initial)
	app.showPrompt()
}

func (app *Application) showPrompt() {
	if app.renderer == nil || app.prompt == nil {
		return
	}
	p := app.prompt
	label := p.label
	if p.hint != "" {
		label += " (" + p.hint + ")"
	}
	cells := core.StringWidth(string(p.input[:p.cursor]))
	app.renderer.Status().SetPrompt(label, string(p.input), cells)
}

func (app *Application) closePrompt() {
	app.prompt = nil
	if app.renderer != nil {
		app.renderer.Status().ClearPrompt()
	}
}

// handlePromptKey edits the prompt line.
func (app *Application) handlePromptKey(ev backend.Event) error {
	p := app.prompt
	switch ev.Key {
	case backend.KeyEscape:
		app.closePrompt()
		return nil
	case backend.KeyEnter:
		if err := p.apply(string(p.input)); err != nil {
			app.Logger().Debug("%s rejected: %v", p.label, err)
			p.hint = err.Error()
			app.showPrompt()
			return nil
		}
		app.closePrompt()
		return nil
	case backend.KeyRune:
		if ev.Mod&(backend.ModCtrl|backend.ModAlt) != 0 {
			return nil
		}
		p.insert(string(ev.Rune))
	case backend.KeyBackspace:
		if p.cursor > 0 {
			p.input = append(p.input[:p.cursor-1], p.input[p.cursor:]...)
			p.cursor--
		}
	case backend.KeyDelete:
		if p.cursor < len(p.input) {
			p.input = append(p.input[:p.cursor], p.input[p.cursor+1:]...)
		}
	case backend.KeyLeft:
		if p.cursor > 0 {
			p.cursor--
		}
	case backend.KeyRight:
		if p.cursor < len(p.input) {
			p.cursor++
		}
	case backend.KeyHome:
		p.cursor = 0
	case backend.KeyEnd:
		p.cursor = len(p.input)
	default:
		return nil
	}
	p.hint = ""
	app.showPrompt()
	return nil
}

// insertStructured confirms b against the captured range and applies it.
func (app *Application) insertStructured(pending structured.Pending, b structured.Builder) error {
	req, err := pending.Confirm(b)
	if err != nil {
		return err
	}
	app.session.InsertStructured(req.Target, req.Replacement)
	return nil
}

// executeWithArg runs a registry command with a dialog argument.
func (app *Application) executeWithArg(name, arg string) error {
	res := app.commands.Execute(app.session, name, arg)
	app.metrics.RecordCommand(name, res.Status)
	if res.IsError() {
		return res.Error
	}
	if res.Status == command.StatusNoOp && res.Message != "" {
		app.setMessage(res.Message, renderer.MessageWarning)
	}
	return nil
}

func (app *Application) openTableDialog() error {
	pending := structured.Capture(app.session.Selection())
	app.openPrompt("Table size", "", func(in string) error {
		rows, cols, err := structured.ParseTableSize(in)
		if err != nil {
			return err
		}
		return app.insertStructured(pending, structured.Table{Rows: rows, Cols: cols})
	})
	return nil
}

// openLinkDialog asks for the URL of the selected text. Like the toolbar
// button it refuses an empty selection.
func (app *Application) openLinkDialog() error {
	if c, ok := app.commands.Get(command.CmdLink); ok {
		if res, ok := c.Available(app.session.Selection()); !ok {
			app.metrics.RecordCommand(command.CmdLink, res.Status)
			app.report(command.CmdLink, res)
			return nil
		}
	}
	text := app.session.SelectedText()
	pending := structured.Capture(app.session.Selection())
	app.openPrompt("Link URL", "", func(in string) error {
		return app.insertStructured(pending, structured.Link{Text: text, URL: in})
	})
	return nil
}

func (app *Application) openImageDialog() error {
	alt := app.session.SelectedText()
	pending := structured.Capture(app.session.Selection())
	app.openPrompt("Image source", "", func(in string) error {
		return app.insertStructured(pending, structured.Image{Alt: alt, Source: in})
	})
	return nil
}

// openCodeBlockDialog fences the selection, or inserts a placeholder block
// when nothing is selected.
func (app *Application) openCodeBlockDialog() error {
	sel := app.session.Selection()
	content := app.session.SelectedText()
	pending := structured.Capture(sel)
	app.openPrompt("Code language", "", func(in string) error {
		if content == "" {
			return app.executeWithArg(command.CmdCodeBlock, in)
		}
		return app.insertStructured(pending, structured.CodeBlock{Language: in, Content: content})
	})
	return nil
}

func (app *Application) openColorDialog() error {
	app.openPrompt("Color", command.DefaultColor, func(in string) error {
		return app.executeWithArg(command.CmdColor, in)
	})
	return nil
}

func (app *Application) openHeadingDialog() error {
	app.openPrompt("Heading level", "2", func(in string) error {
		return app.executeWithArg(command.CmdHeading, in)
	})
	return nil
}
