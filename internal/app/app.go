package app

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"

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

// Application is the central coordinator for markpad. It owns the editing
// session and wires configuration, the command set, the preview pipeline,
// the clipboard and the terminal renderer around it.
type Application struct {
	mu sync.Mutex

	// Core infrastructure
	config    *config.Config
	logger    *Logger
	logFile   io.Closer
	configSub *notify.Subscription
	metrics   *Metrics

	// Editing
	session  *engine.Session
	commands *command.Registry
	keymap   map[string]string
	prompt   *prompt
	path     string

	// Preview
	pipeline    *markup.Pipeline
	highlighter *markup.Highlighter
	plugins     []*lua.Decorator

	// Collaborators
	clipboard clipboard.Clipboard

	// Display
	renderer *renderer.Renderer
	backend  backend.Backend

	// State
	running   atomic.Bool
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once

	// Options
	opts Options
}

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the settings file. Empty selects the
	// user config directory.
	ConfigPath string

	// File is a Markdown file to open. A missing file starts empty and is
	// created on export. Empty shows the welcome document.
	File string

	// Debug enables debug mode with extra logging.
	Debug bool

	// LogLevel overrides logging.level.
	LogLevel string

	// LogFile overrides logging.file.
	LogFile string

	// LogOutput, when set, receives log lines instead of a file.
	LogOutput io.Writer

	// Watch reloads the settings file when it changes.
	Watch bool

	// Clipboard replaces the configured clipboard.
	Clipboard clipboard.Clipboard
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:    opts,
		done:    make(chan struct{}),
		metrics: NewMetrics(),
	}

	if err := app.bootstrap(); err != nil {
		app.closeResources()
		return nil, err
	}

	return app, nil
}

// SetBackend sets the terminal backend.
// Must be called before Run().
func (app *Application) SetBackend(b backend.Backend) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}

	app.backend = b
	return nil
}

// Run initializes the backend and processes events until the user quits,
// ctx is done or Shutdown is called.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	app.mu.Lock()
	b := app.backend
	if b == nil {
		app.mu.Unlock()
		return ErrNoBackend
	}
	select {
	case <-app.done:
		app.mu.Unlock()
		return ErrNotRunning
	default:
	}
	app.stopped = make(chan struct{})
	defer close(app.stopped)
	app.mu.Unlock()

	if err := b.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer b.Shutdown()

	app.mu.Lock()
	opts := renderer.DefaultOptions()
	opts.Theme = renderer.ThemeFromStyle(app.highlighter.StyleName())
	app.renderer = renderer.New(b, opts)
	app.updateStatus()
	app.mu.Unlock()

	app.Logger().Info("editor started (session %s)", app.session.ID())
	err := app.eventLoop(ctx, b)
	app.logMetrics()
	if errors.Is(err, ErrQuit) {
		err = nil
	}
	return err
}

// Shutdown stops the event loop, waits for Run to return and releases
// plugins, the config watcher and the log file. It is safe to call more
// than once.
func (app *Application) Shutdown() {
	app.closeOnce.Do(func() {
		close(app.done)

		app.mu.Lock()
		stopped := app.stopped
		app.mu.Unlock()
		if stopped != nil {
			<-stopped
		}

		app.closeResources()
	})
}

// closeResources releases everything bootstrap acquired.
func (app *Application) closeResources() {
	for _, p := range app.plugins {
		p.Close()
	}
	app.plugins = nil
	if app.configSub != nil {
		app.configSub.Unsubscribe()
	}
	if app.config != nil {
		app.config.Close()
	}
	if app.logFile != nil {
		_ = app.logFile.Close()
		app.logFile = nil
	}
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the configuration system.
func (app *Application) Config() *config.Config {
	return app.config
}

// Session returns the editing session.
func (app *Application) Session() *engine.Session {
	return app.session
}

// Commands returns the command registry.
func (app *Application) Commands() *command.Registry {
	return app.commands
}

// Renderer returns the renderer, or nil before Run.
func (app *Application) Renderer() *renderer.Renderer {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.renderer
}

// Path returns the file markpad exports Markdown to, if one was opened.
func (app *Application) Path() string {
	return app.path
}
