// Package watcher reports changes to markpad's settings file.
//
// It watches the file's parent directory with fsnotify, because editors
// commonly save by writing a temporary file and renaming it over the
// original, which drops a watch placed on the file itself. Bursts of events
// for one file are coalesced and delivered once the file has been quiet for
// the debounce interval.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrNotRunning is returned by Watch after Stop.
var ErrNotRunning = errors.New("watcher is stopped")

// Event is a debounced change to a watched file.
type Event struct {
	Path string
	Op   Operation
	Time time.Time
}

// Operation is the kind of change.
type Operation int

const (
	OpWrite Operation = iota
	OpCreate
	OpRemove
	OpRename
)

func (op Operation) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Handler is called once per debounced event. Handlers run on the
// watcher's goroutine.
type Handler func(event Event)

// Watcher delivers debounced change events for individual files.
type Watcher struct {
	mu       sync.RWMutex
	fsw      *fsnotify.Watcher
	files    map[string]bool
	dirs     map[string]int
	handlers []Handler
	errorFn  func(error)
	debounce time.Duration

	pendingMu sync.Mutex
	pending   map[string]Event

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	stopped bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long a file must be quiet before its event fires.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithErrorHandler receives errors reported by fsnotify.
func WithErrorHandler(fn func(error)) Option {
	return func(w *Watcher) {
		w.errorFn = fn
	}
}

// New creates a watcher. Call Start to begin delivering events.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]bool),
		dirs:     make(map[string]int),
		debounce: 100 * time.Millisecond,
		pending:  make(map[string]Event),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch starts reporting changes to path. The file itself need not exist
// yet, but its directory must.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return ErrNotRunning
	}
	if w.files[abs] {
		return nil
	}
	dir := filepath.Dir(abs)
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	w.dirs[dir]++
	w.files[abs] = true
	return nil
}

// Unwatch stops reporting changes to path.
func (w *Watcher) Unwatch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.files[abs] {
		return nil
	}
	delete(w.files, abs)
	dir := filepath.Dir(abs)
	if w.dirs[dir]--; w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		if !w.stopped {
			return w.fsw.Remove(dir)
		}
	}
	return nil
}

// Watched returns the watched file paths.
func (w *Watcher) Watched() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]string, 0, len(w.files))
	for p := range w.files {
		out = append(out, p)
	}
	return out
}

// OnChange registers a handler.
func (w *Watcher) OnChange(h Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, h)
}

// Start begins delivering events. It is a no-op if already running.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running || w.stopped {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.running = true

	w.wg.Add(2)
	go w.eventLoop(ctx)
	go w.debounceLoop(ctx)
}

// Stop halts delivery and releases the fsnotify watcher. A stopped watcher
// cannot be restarted.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	w.running = false
	cancel := w.cancel
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
	return w.fsw.Close()
}

// IsRunning reports whether Start has been called and Stop has not.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

func (w *Watcher) eventLoop(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleFSEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.mu.RLock()
			fn := w.errorFn
			w.mu.RUnlock()
			if fn != nil {
				fn(err)
			}
		}
	}
}

func (w *Watcher) handleFSEvent(ev fsnotify.Event) {
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return
	}
	w.mu.RLock()
	watched := w.files[abs]
	w.mu.RUnlock()
	if !watched {
		return
	}

	var op Operation
	switch {
	case ev.Op.Has(fsnotify.Remove):
		op = OpRemove
	case ev.Op.Has(fsnotify.Rename):
		op = OpRename
	case ev.Op.Has(fsnotify.Create):
		op = OpCreate
	case ev.Op.Has(fsnotify.Write):
		op = OpWrite
	default:
		return
	}
	w.queue(Event{Path: abs, Op: op, Time: time.Now()})
}

// queue coalesces events for one path. A remove wins over anything; a
// create is not downgraded to a write.
func (w *Watcher) queue(ev Event) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	if prev, ok := w.pending[ev.Path]; ok {
		switch {
		case prev.Op == OpRemove && ev.Op != OpCreate:
			ev.Op = OpRemove
		case prev.Op == OpCreate && ev.Op == OpWrite:
			ev.Op = OpCreate
		}
	}
	w.pending[ev.Path] = ev
}

func (w *Watcher) debounceLoop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.flush(time.Now().Add(-w.debounce))
		}
	}
}

// flush emits every pending event last seen before cutoff.
func (w *Watcher) flush(cutoff time.Time) {
	w.pendingMu.Lock()
	var ready []Event
	for path, ev := range w.pending {
		if ev.Time.Before(cutoff) {
			ready = append(ready, ev)
			delete(w.pending, path)
		}
	}
	w.pendingMu.Unlock()

	if len(ready) == 0 {
		return
	}
	w.mu.RLock()
	handlers := append([]Handler(nil), w.handlers...)
	w.mu.RUnlock()

	for _, ev := range ready {
		for _, h := range handlers {
			safeCall(h, ev)
		}
	}
}

// safeCall keeps a panicking handler from killing the watcher goroutine.
func safeCall(h Handler, ev Event) {
	defer func() { _ = recover() }()
	h(ev)
}
