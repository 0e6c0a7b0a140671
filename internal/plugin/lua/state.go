package lua

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultTimeout bounds a single call into Lua.
const DefaultTimeout = 250 * time.Millisecond

// State is a sandboxed Lua interpreter. gopher-lua states are not safe for
// concurrent use; State serialises every call with its mutex.
type State struct {
	L *lua.LState

	mu      sync.Mutex
	timeout time.Duration
	print   func(string)
	closed  bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithTimeout sets the per-call deadline.
func WithTimeout(d time.Duration) StateOption {
	return func(s *State) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithPrint routes Lua's print to fn instead of discarding it.
func WithPrint(fn func(string)) StateOption {
	return func(s *State) {
		s.print = fn
	}
}

// NewState creates a sandboxed state.
func NewState(opts ...StateOption) *State {
	s := &State{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(s)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)
	s.L = L
	s.sandbox()
	return s
}

// openSafeLibraries opens base, table, string and math. io, os, debug
// and package stay closed.
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
}

func (s *State) sandbox() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		s.L.SetGlobal(name, lua.LNil)
	}
	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		parts := make([]string, L.GetTop())
		for i := range parts {
			parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
		}
		if s.print != nil {
			s.print(strings.Join(parts, "\t"))
		}
		return 0
	}))
}

// DoString runs a chunk under the call timeout.
func (s *State) DoString(code string) error {
	return s.run(func() error { return s.L.DoString(code) })
}

// DoFile runs a script file under the call timeout.
func (s *State) DoFile(path string) error {
	return s.run(func() error { return s.L.DoFile(path) })
}

// SetGlobal sets a global variable.
func (s *State) SetGlobal(name string, value lua.LValue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.L.SetGlobal(name, value)
	}
}

// RegisterModule exposes funcs as a global table.
func (s *State) RegisterModule(name string, funcs map[string]lua.LGFunction) *lua.LTable {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	mod := s.L.SetFuncs(s.L.NewTable(), funcs)
	s.L.SetGlobal(name, mod)
	return mod
}

// HasFunction reports whether a global function named fn exists.
func (s *State) HasFunction(fn string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && s.L.GetGlobal(fn).Type() == lua.LTFunction
}

// Call calls a global function and returns its first result.
func (s *State) Call(fn string, args ...lua.LValue) (lua.LValue, error) {
	var ret lua.LValue = lua.LNil
	err := s.run(func() error {
		f := s.L.GetGlobal(fn)
		if f.Type() != lua.LTFunction {
			return fmt.Errorf("%q is not a function (got %s)", fn, f.Type())
		}
		if err := s.L.CallByParam(lua.P{Fn: f, NRet: 1, Protect: true}, args...); err != nil {
			return err
		}
		ret = s.L.Get(-1)
		s.L.Pop(1)
		return nil
	})
	return ret, err
}

// run executes fn with the state locked and a deadline installed. The VM
// checks the context between instructions, so runaway loops are stopped.
func (s *State) run(fn func() error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStateClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	top := s.L.GetTop()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
		if s.L.GetTop() > top {
			s.L.SetTop(top)
		}
		if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %v", ErrExecutionTimeout, err)
		}
	}()
	return fn()
}

// Close releases the interpreter.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.L.Close()
		s.closed = true
	}
}
