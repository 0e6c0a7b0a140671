package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dshills/markpad/internal/clipboard"
	"github.com/dshills/markpad/internal/engine"
	"github.com/dshills/markpad/internal/export"
	"github.com/dshills/markpad/internal/renderer"
)

// Application action names. Key bindings may name these or any command in
// the registry.
const (
	ActionUndo           = "edit.undo"
	ActionRedo           = "edit.redo"
	ActionPaste          = "edit.paste"
	ActionCopy           = "edit.copy"
	ActionSelectAll      = "edit.selectAll"
	ActionExportMarkdown = "file.exportMarkdown"
	ActionExportHTML     = "file.exportHTML"
	ActionTogglePreview  = "view.togglePreview"
	ActionTableDialog    = "dialog.table"
	ActionLinkDialog     = "dialog.link"
	ActionImageDialog    = "dialog.image"
	ActionColorDialog    = "dialog.color"
	ActionHeadingDialog  = "dialog.heading"
	ActionCodeDialog     = "dialog.codeblock"
	ActionQuit           = "app.quit"
)

// clipboardTimeout bounds one clipboard read or write.
const clipboardTimeout = 2 * time.Second

// actions maps application action names to their handlers. Handlers run
// on the event loop with app.mu held.
var actions = map[string]func(*Application) error{
	ActionUndo:           (*Application).undo,
	ActionRedo:           (*Application).redo,
	ActionPaste:          (*Application).paste,
	ActionCopy:           (*Application).copyAll,
	ActionSelectAll:      (*Application).selectAll,
	ActionExportMarkdown: func(app *Application) error { return app.exportTo(export.FormatMarkdown) },
	ActionExportHTML:     func(app *Application) error { return app.exportTo(export.FormatHTML) },
	ActionTogglePreview:  (*Application).togglePreview,
	ActionTableDialog:    (*Application).openTableDialog,
	ActionLinkDialog:     (*Application).openLinkDialog,
	ActionImageDialog:    (*Application).openImageDialog,
	ActionColorDialog:    (*Application).openColorDialog,
	ActionHeadingDialog:  (*Application).openHeadingDialog,
	ActionCodeDialog:     (*Application).openCodeBlockDialog,
	ActionQuit:           func(*Application) error { return ErrQuit },
}

func (app *Application) undo() error {
	if err := app.session.Undo(); err != nil {
		if errors.Is(err, engine.ErrNothingToUndo) {
			app.setMessage("Nothing to undo", renderer.MessageInfo)
			return nil
		}
		return err
	}
	return nil
}

func (app *Application) redo() error {
	if err := app.session.Redo(); err != nil {
		if errors.Is(err, engine.ErrNothingToRedo) {
			app.setMessage("Nothing to redo", renderer.MessageInfo)
			return nil
		}
		return err
	}
	return nil
}

// paste replaces the selection with the clipboard text. A clipboard
// failure leaves the buffer unchanged.
func (app *Application) paste() error {
	ctx, cancel := context.WithTimeout(context.Background(), clipboardTimeout)
	defer cancel()

	err := app.session.Paste(ctx, app.clipboard)
	switch {
	case err == nil:
	case errors.Is(err, clipboard.ErrEmpty) && !errors.Is(err, clipboard.ErrUnavailable):
		app.setMessage("Clipboard is empty", renderer.MessageInfo)
	default:
		app.logComponentError("clipboard", NewOperationError("paste", "", err))
		app.setMessage("Paste from clipboard not available", renderer.MessageWarning)
	}
	return nil
}

// copyAll copies the whole buffer.
func (app *Application) copyAll() error {
	ctx, cancel := context.WithTimeout(context.Background(), clipboardTimeout)
	defer cancel()

	if err := app.session.Copy(ctx, app.clipboard); err != nil {
		app.logComponentError("clipboard", NewOperationError("copy", "", err))
		msg := "Copy failed"
		if errors.Is(err, clipboard.ErrUnavailable) {
			msg = "Clipboard not available"
		}
		app.setMessage(msg, renderer.MessageError)
		return nil
	}
	app.setMessage("Copied to clipboard", renderer.MessageInfo)
	return nil
}

func (app *Application) selectAll() error {
	app.session.SetSelection(0, app.session.Len())
	return nil
}

func (app *Application) togglePreview() error {
	if app.renderer != nil {
		app.renderer.TogglePreview()
	}
	return nil
}

// exportPath returns where an export in format goes. Markdown goes back to
// the opened file when there is one.
func (app *Application) exportPath(format export.Format) string {
	if format == export.FormatMarkdown && app.path != "" {
		return app.path
	}
	ec := app.config.Export()
	name := ec.Filename
	if name == "" {
		name = export.DefaultFilename
	}
	if app.path != "" {
		name = filepath.Base(app.path)
	}
	name = name[:len(name)-len(filepath.Ext(name))] + format.Ext()
	return filepath.Join(ec.Dir, name)
}

// Export writes the buffer in format to the configured export location and
// returns the path written.
func (app *Application) Export(format export.Format) (string, error) {
	path := app.exportPath(format)

	var css export.Stylesheet
	if format == export.FormatHTML {
		css = app.highlighter
	}
	written, err := export.ToFile(path, format, app.session, css)
	if err != nil {
		return "", NewOperationError("export", path, err).WithContext(format.String())
	}
	app.Logger().Info("exported %s to %s", format, written)
	return written, nil
}

// exportTo is Export for key bindings. Errors are shown, not returned, so
// a failed export does not end the session.
func (app *Application) exportTo(format export.Format) error {
	written, err := app.Export(format)
	if err != nil {
		app.logComponentError("export", err)
		app.setMessage(err.Error(), renderer.MessageError)
		return nil
	}

	app.setMessage(fmt.Sprintf("Exported %s", written), renderer.MessageInfo)
	return nil
}
