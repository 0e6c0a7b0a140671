package app

import (
	"context"

	"github.com/dshills/markpad/internal/command"
	"github.com/dshills/markpad/internal/renderer"
	"github.com/dshills/markpad/internal/renderer/backend"
)

// eventLoop handles backend events in arrival order on one goroutine and
// redraws after each. It returns ErrQuit when the user quits.
func (app *Application) eventLoop(ctx context.Context, b backend.Backend) error {
	stop := make(chan struct{})
	defer close(stop)
	events := app.startInputPolling(b, stop)

	app.mu.Lock()
	app.redraw()
	app.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-app.done:
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			app.mu.Lock()
			timer := StartTimer()
			err := app.handleBackendEvent(ev)
			app.metrics.RecordEvent(timer.Elapsed())
			if err == nil {
				app.redraw()
			}
			app.mu.Unlock()
			if err != nil {
				return err
			}
		}
	}
}

// startInputPolling forwards backend events until the backend shuts down
// or stop is closed. PollEvent blocks; the backend.Shutdown in Run
// unblocks it.
func (app *Application) startInputPolling(b backend.Backend, stop <-chan struct{}) <-chan backend.Event {
	events := make(chan backend.Event)

	go func() {
		defer close(events)
		for {
			ev := b.PollEvent()
			if ev.Type == backend.EventNone {
				return
			}
			select {
			case events <- ev:
			case <-stop:
				return
			}
		}
	}()

	return events
}

// handleBackendEvent processes a backend event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) handleBackendEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventKey:
		return app.handleKeyEvent(ev)
	case backend.EventPaste:
		return app.handlePasteEvent(ev)
	case backend.EventResize, backend.EventInterrupt:
		// Redrawn by the caller.
		return nil
	default:
		return nil
	}
}

// handleKeyEvent routes a key to the open prompt, a bound action or
// plain editing.
func (app *Application) handleKeyEvent(ev backend.Event) error {
	if app.prompt != nil {
		return app.handlePromptKey(ev)
	}
	if app.renderer != nil {
		app.renderer.Status().ClearMessage()
	}

	if name := ev.Name(); name != "" {
		if action, ok := app.keymap[name]; ok {
			app.Logger().Debug("key %s -> %s", name, action)
			return app.runAction(action)
		}
	}

	shift := ev.Mod.Has(backend.ModShift)
	ctrl := ev.Mod.Has(backend.ModCtrl)
	switch ev.Key {
	case backend.KeyRune:
		if ev.Mod&(backend.ModCtrl|backend.ModAlt) == 0 {
			app.session.InsertText(string(ev.Rune))
		}
	case backend.KeyEnter:
		app.session.InsertText("\n")
	case backend.KeyTab:
		app.session.InsertText("\t")
	case backend.KeyBackspace:
		app.session.DeleteBackward()
	case backend.KeyDelete:
		app.session.DeleteForward()
	case backend.KeyLeft, backend.KeyRight, backend.KeyUp, backend.KeyDown,
		backend.KeyHome, backend.KeyEnd, backend.KeyPageUp, backend.KeyPageDown:
		app.moveCaret(ev.Key, shift, ctrl)
	}
	return nil
}

// handlePasteEvent inserts bracketed-paste text as one edit.
func (app *Application) handlePasteEvent(ev backend.Event) error {
	if ev.PasteText == "" {
		return nil
	}
	if app.prompt != nil {
		app.prompt.insert(ev.PasteText)
		return nil
	}
	app.session.InsertText(ev.PasteText)
	return nil
}

// runAction runs a registry command or an application action.
func (app *Application) runAction(name string) error {
	if _, ok := app.commands.Get(name); ok {
		res := app.commands.Execute(app.session, name, "")
		app.metrics.RecordCommand(name, res.Status)
		app.report(name, res)
		return nil
	}
	if fn, ok := actions[name]; ok {
		app.metrics.RecordCommand(name, command.StatusOK)
		return fn(app)
	}
	app.setMessage(ErrUnknownAction.Error()+": "+name, renderer.MessageError)
	return nil
}

// report shows the outcome of a command on the status line.
func (app *Application) report(name string, res command.Result) {
	switch res.Status {
	case command.StatusError:
		app.Logger().Debug("command %s rejected: %v", name, res.Error)
		app.setMessage(res.Error.Error(), renderer.MessageError)
	case command.StatusNoOp:
		if res.Message != "" {
			app.setMessage(res.Message, renderer.MessageWarning)
		}
	}
}

// setMessage shows msg on the status line once the renderer exists.
func (app *Application) setMessage(msg string, t renderer.MessageType) {
	if app.renderer != nil {
		app.renderer.Status().SetMessage(msg, t)
	}
}

// redraw renders the current session state.
func (app *Application) redraw() {
	if app.renderer == nil {
		return
	}
	timer := StartTimer()
	defer func() { app.metrics.RecordFrame(timer.Elapsed()) }()

	app.updateStatus()
	sel := app.session.Selection()
	app.renderer.Render(renderer.Frame{
		Text:      app.session.Text(),
		Selection: sel,
		Preview:   app.session.Preview(),
		Commands:  app.commands.States(sel),
	})
}

// updateStatus copies the caret position and undo state to the status line.
func (app *Application) updateStatus() {
	if app.renderer == nil {
		return
	}
	status := app.renderer.Status()
	p := app.session.Point()
	status.SetPosition(int(p.Line)+1, column(app.session.Text(), app.session.Selection().Cursor()))
	log := app.session.History()
	status.SetHistory(app.session.CanUndo(), app.session.CanRedo(), log.Index())
}
