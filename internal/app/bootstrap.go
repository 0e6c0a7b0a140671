package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/dshills/markpad/internal/clipboard"
	"github.com/dshills/markpad/internal/command"
	"github.com/dshills/markpad/internal/config"
	"github.com/dshills/markpad/internal/config/notify"
	"github.com/dshills/markpad/internal/engine"
	"github.com/dshills/markpad/internal/markup"
	"github.com/dshills/markpad/internal/plugin/lua"
	"github.com/dshills/markpad/internal/renderer"
	"github.com/dshills/markpad/internal/renderer/backend"
)

// bootstrapper handles component initialization in dependency order.
type bootstrapper struct {
	app  *Application
	opts Options

	// configErr is a load failure, reported once logging is up.
	configErr error
}

// bootstrap initializes all components. On failure New releases whatever
// was already acquired.
func (app *Application) bootstrap() error {
	b := &bootstrapper{app: app, opts: app.opts}

	steps := []func() error{
		b.initConfig,
		b.initLogging,
		b.initPipeline,
		b.initPlugins,
		b.initSession,
		b.initClipboard,
		b.initKeymap,
		b.initSubscriptions,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// initConfig loads settings. A malformed settings file is not fatal: the
// defaults still apply and the error is logged.
func (b *bootstrapper) initConfig() error {
	configOpts := []config.Option{
		config.WithWatcher(b.opts.Watch),
		config.WithErrorHandler(func(err error) {
			b.app.Logger().WithComponent("config").Warn("%v", err)
		}),
	}
	if b.opts.ConfigPath != "" {
		configOpts = append(configOpts, config.WithSettingsFile(b.opts.ConfigPath))
	}

	b.app.config = config.New(configOpts...)
	b.configErr = b.app.config.Load(context.Background())
	return nil
}

// initLogging creates the application logger from options and settings.
func (b *bootstrapper) initLogging() error {
	lc := b.app.config.Logging()

	level := lc.Level
	if b.opts.LogLevel != "" {
		level = b.opts.LogLevel
	}
	if b.opts.Debug {
		level = "debug"
	}

	cfg := DefaultLoggerConfig()
	cfg.Level = ParseLogLevel(level)
	switch {
	case b.opts.LogOutput != nil:
		cfg.Output = b.opts.LogOutput
	default:
		path := lc.File
		if b.opts.LogFile != "" {
			path = b.opts.LogFile
		}
		if path == "" {
			path = DefaultLogPath()
		}
		f, err := OpenLogFile(path)
		if err != nil {
			return &InitError{Component: "logging", Err: err}
		}
		b.app.logFile = f
		cfg.Output = f
	}
	b.app.logger = NewLogger(cfg)

	if b.configErr != nil {
		b.app.logComponentError("config", NewComponentError("config", "load", b.configErr))
	}
	return nil
}

// initPipeline builds the preview pipeline: goldmark, then chroma.
func (b *bootstrapper) initPipeline() error {
	rc := b.app.config.Render()
	b.app.highlighter = markup.NewHighlighter(rc.HighlightStyle, rc.HighlightClasses)
	if name := b.app.highlighter.StyleName(); name != rc.HighlightStyle {
		b.app.Logger().Warn("unknown highlight style %q, using %q", rc.HighlightStyle, name)
	}
	b.app.pipeline = markup.NewPipeline(markup.NewGoldmark(), b.app.highlighter)
	return nil
}

// initPlugins loads the Lua decorators after the highlighter. Scripts that
// fail to load are skipped.
func (b *bootstrapper) initPlugins() error {
	rc := b.app.config.Render()
	if len(rc.Plugins) == 0 {
		return nil
	}

	log := b.app.Logger().WithComponent("plugin")
	plugins, err := lua.LoadAll(rc.Plugins, lua.Options{
		Timeout: rc.PluginTimeout,
		Logger:  log,
	})
	if err != nil {
		log.Warn("%v", err)
	}
	for _, p := range plugins {
		b.app.pipeline.Use(p)
		log.Info("loaded plugin %s", p.Name())
	}
	b.app.plugins = plugins
	return nil
}

// initSession opens the file or the welcome document.
func (b *bootstrapper) initSession() error {
	content := b.app.config.Editor().Seed
	if b.opts.File != "" {
		data, err := os.ReadFile(b.opts.File)
		switch {
		case err == nil:
			content = string(data)
		case errors.Is(err, fs.ErrNotExist):
			content = ""
		default:
			return &InitError{Component: "session", Err: NewOperationError("open", b.opts.File, err)}
		}
		b.app.path = b.opts.File
	}

	b.app.session = engine.New(
		engine.WithContent(content),
		engine.WithHistoryCapacity(b.app.config.History().Capacity),
		engine.WithPipeline(b.app.pipeline),
		engine.WithLogger(b.app.Logger().WithComponent("engine")),
	)
	b.app.commands = command.NewRegistry()
	return nil
}

// initClipboard selects the system clipboard with an in-memory fallback,
// or only the in-memory one when clipboard.system is off.
func (b *bootstrapper) initClipboard() error {
	switch {
	case b.opts.Clipboard != nil:
		b.app.clipboard = b.opts.Clipboard
	case b.app.config.Clipboard().System:
		sys := clipboard.NewSystem()
		if !sys.Available() {
			b.app.Logger().Info("system clipboard unavailable, using in-memory clipboard")
		}
		b.app.clipboard = clipboard.NewFallback(sys, clipboard.NewMemory())
	default:
		b.app.clipboard = clipboard.NewMemory()
	}
	return nil
}

// initKeymap loads key bindings, dropping those that name no action.
func (b *bootstrapper) initKeymap() error {
	b.app.keymap = b.app.loadKeymap()
	return nil
}

// initSubscriptions re-applies settings when the configuration changes.
func (b *bootstrapper) initSubscriptions() error {
	b.app.configSub = b.app.config.Subscribe(b.app.onConfigChange)
	return nil
}

// loadKeymap returns the configured bindings that resolve to a command or
// an application action.
func (app *Application) loadKeymap() map[string]string {
	km := app.config.Keymap()
	for key, action := range km {
		if !app.knownAction(action) {
			app.Logger().WithComponent("keymap").Warn("%v", fmt.Errorf("%w: %s = %q", ErrUnknownAction, key, action))
			delete(km, key)
		}
	}
	return km
}

func (app *Application) knownAction(name string) bool {
	if _, ok := app.commands.Get(name); ok {
		return true
	}
	_, ok := actions[name]
	return ok
}

// onConfigChange applies a setting change to the running application.
// Reloads carry no path and re-apply everything.
func (app *Application) onConfigChange(c notify.Change) {
	all := c.Path == ""
	touches := func(prefix string) bool {
		return all || c.Path == prefix || strings.HasPrefix(c.Path, prefix+".")
	}

	app.mu.Lock()
	defer app.mu.Unlock()

	if touches("logging") {
		level := ParseLogLevel(app.config.Logging().Level)
		if app.opts.LogLevel != "" {
			level = ParseLogLevel(app.opts.LogLevel)
		}
		if app.opts.Debug {
			level = LogLevelDebug
		}
		app.Logger().SetLevel(level)
	}
	if touches("render") {
		rc := app.config.Render()
		app.highlighter.Configure(rc.HighlightStyle, rc.HighlightClasses)
		app.session.SetPipeline(app.pipeline)
		if app.renderer != nil {
			app.renderer.SetTheme(renderer.ThemeFromStyle(app.highlighter.StyleName()))
		}
		app.Logger().Debug("highlight style is now %s", app.highlighter.StyleName())
	}
	if touches("keymap") {
		app.keymap = app.loadKeymap()
	}
	if touches("history.capacity") && !all {
		app.Logger().Info("history.capacity takes effect on restart")
	}

	// Wake the event loop so the next frame shows the change.
	if app.backend != nil && app.running.Load() {
		app.backend.PostEvent(backend.Event{Type: backend.EventInterrupt})
	}
}
