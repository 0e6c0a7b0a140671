package lua

import (
	"errors"
	"fmt"
	"html"
	"path/filepath"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// Logger receives plugin diagnostics.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}

// Decorator runs a plugin's decorate(html) function. It satisfies
// markup.Decorator.
type Decorator struct {
	name   string
	state  *State
	logger Logger
}

// Options configures loaded plugins.
type Options struct {
	Timeout time.Duration
	Logger  Logger
}

// Load runs the script at path and returns a decorator for it.
func Load(path string, opts Options) (*Decorator, error) {
	d := newDecorator(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), opts)
	if err := d.state.DoFile(path); err != nil {
		d.Close()
		return nil, fmt.Errorf("loading plugin %s: %w", path, err)
	}
	return d.check()
}

// LoadString is Load for an in-memory script.
func LoadString(name, code string, opts Options) (*Decorator, error) {
	d := newDecorator(name, opts)
	if err := d.state.DoString(code); err != nil {
		d.Close()
		return nil, fmt.Errorf("loading plugin %s: %w", name, err)
	}
	return d.check()
}

// LoadAll loads every script. Scripts that fail are skipped and their
// errors joined into the returned error.
func LoadAll(paths []string, opts Options) ([]*Decorator, error) {
	var (
		out  []*Decorator
		errs []error
	)
	for _, p := range paths {
		d, err := Load(p, opts)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, d)
	}
	return out, errors.Join(errs...)
}

func newDecorator(name string, opts Options) *Decorator {
	d := &Decorator{name: name, logger: opts.Logger}
	if d.logger == nil {
		d.logger = nopLogger{}
	}
	d.state = NewState(
		WithTimeout(opts.Timeout),
		WithPrint(func(line string) { d.logger.Debug("plugin %s: %s", d.name, line) }),
	)
	d.state.RegisterModule("markpad", map[string]lua.LGFunction{
		"escape": luaEscape,
		"trim":   luaTrim,
	})
	return d
}

func (d *Decorator) check() (*Decorator, error) {
	if !d.state.HasFunction("decorate") {
		d.Close()
		return nil, fmt.Errorf("%s: %w", d.name, ErrNoDecorate)
	}
	return d, nil
}

// Name returns the plugin name, the script's base name without extension.
func (d *Decorator) Name() string {
	return d.name
}

// Decorate passes doc to the script. Any failure returns doc unchanged.
func (d *Decorator) Decorate(doc string) string {
	ret, err := d.state.Call("decorate", lua.LString(doc))
	if err != nil {
		d.logger.Warn("plugin %s failed: %v", d.name, err)
		return doc
	}
	s, ok := ret.(lua.LString)
	if !ok {
		d.logger.Warn("plugin %s returned %s, not a string", d.name, ret.Type())
		return doc
	}
	return string(s)
}

// Close releases the plugin's interpreter.
func (d *Decorator) Close() {
	d.state.Close()
}

func luaEscape(L *lua.LState) int {
	L.Push(lua.LString(html.EscapeString(L.CheckString(1))))
	return 1
}

func luaTrim(L *lua.LState) int {
	L.Push(lua.LString(strings.TrimSpace(L.CheckString(1))))
	return 1
}
