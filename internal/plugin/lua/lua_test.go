package lua

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	glua "github.com/yuin/gopher-lua"
)

type recordLogger struct {
	debug, warn []string
}

func (l *recordLogger) Debug(msg string, args ...any) { l.debug = append(l.debug, msg) }
func (l *recordLogger) Warn(msg string, args ...any)  { l.warn = append(l.warn, msg) }

func TestState_Sandbox(t *testing.T) {
	s := NewState()
	defer s.Close()

	for _, name := range []string{"io", "os", "debug", "dofile", "loadfile", "load", "require"} {
		t.Run(name, func(t *testing.T) {
			if err := s.DoString("assert(" + name + " == nil)"); err != nil {
				t.Errorf("%s should be unavailable: %v", name, err)
			}
		})
	}
	if err := s.DoString(`assert(string.upper("a") == "A" and math.max(1, 2) == 2)`); err != nil {
		t.Errorf("safe libraries should load: %v", err)
	}
}

func TestState_Timeout(t *testing.T) {
	s := NewState(WithTimeout(50 * time.Millisecond))
	defer s.Close()

	err := s.DoString("while true do end")
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Fatalf("DoString() error = %v, want ErrExecutionTimeout", err)
	}
	// The state stays usable after a timeout.
	if err := s.DoString("x = 1"); err != nil {
		t.Errorf("state unusable after timeout: %v", err)
	}
}

func TestState_Call(t *testing.T) {
	s := NewState()
	defer s.Close()

	if err := s.DoString(`function add(a, b) return a + b end`); err != nil {
		t.Fatal(err)
	}
	ret, err := s.Call("add", glua.LNumber(2), glua.LNumber(3))
	if err != nil || ret != glua.LNumber(5) {
		t.Errorf("Call() = %v, %v", ret, err)
	}
	if _, err := s.Call("missing"); err == nil {
		t.Error("calling a missing function should fail")
	}
	if top := s.L.GetTop(); top != 0 {
		t.Errorf("stack not balanced: top = %d", top)
	}
}

func TestState_Closed(t *testing.T) {
	s := NewState()
	s.Close()
	s.Close()
	if err := s.DoString("x = 1"); !errors.Is(err, ErrStateClosed) {
		t.Errorf("error = %v, want ErrStateClosed", err)
	}
	if s.HasFunction("print") {
		t.Error("closed state should report no functions")
	}
}

func TestDecorator_Decorate(t *testing.T) {
	log := &recordLogger{}
	d, err := LoadString("footer", `
function decorate(html)
  print("decorating")
  return html .. "<footer>" .. markpad.escape("a<b") .. "</footer>"
end`, Options{Logger: log})
	if err != nil {
		t.Fatalf("LoadString() error: %v", err)
	}
	defer d.Close()

	got := d.Decorate("<p>x</p>")
	if got != "<p>x</p><footer>a&lt;b</footer>" {
		t.Errorf("Decorate() = %q", got)
	}
	if len(log.debug) != 1 {
		t.Errorf("print should go to the debug log, got %v", log.debug)
	}
}

func TestDecorator_FailuresLeaveHTML(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"runtime error", `function decorate(h) error("boom") end`},
		{"non-string", `function decorate(h) return 42 end`},
		{"nil", `function decorate(h) end`},
		{"runaway", `function decorate(h) while true do end end`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &recordLogger{}
			d, err := LoadString(tt.name, tt.code, Options{Timeout: 50 * time.Millisecond, Logger: log})
			if err != nil {
				t.Fatal(err)
			}
			defer d.Close()

			if got := d.Decorate("<p>keep</p>"); got != "<p>keep</p>" {
				t.Errorf("Decorate() = %q, want input unchanged", got)
			}
			if len(log.warn) != 1 {
				t.Errorf("expected one warning, got %v", log.warn)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := LoadString("empty", "x = 1", Options{}); !errors.Is(err, ErrNoDecorate) {
		t.Errorf("error = %v, want ErrNoDecorate", err)
	}
	if _, err := LoadString("syntax", "function (", Options{}); err == nil {
		t.Error("syntax error should fail to load")
	}
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "upper.lua")
	bad := filepath.Join(dir, "bad.lua")
	if err := os.WriteFile(good, []byte(`function decorate(h) return string.upper(h) end`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte(`x = `), 0o644); err != nil {
		t.Fatal(err)
	}

	ds, err := LoadAll([]string{good, bad, filepath.Join(dir, "missing.lua")}, Options{})
	if len(ds) != 1 {
		t.Fatalf("loaded %d plugins, want 1", len(ds))
	}
	defer ds[0].Close()
	if err == nil || !strings.Contains(err.Error(), "bad.lua") || !strings.Contains(err.Error(), "missing.lua") {
		t.Errorf("joined error = %v", err)
	}
	if ds[0].Name() != "upper" {
		t.Errorf("Name() = %q", ds[0].Name())
	}
	if got := ds[0].Decorate("<p>hi</p>"); got != "<P>HI</P>" {
		t.Errorf("Decorate() = %q", got)
	}
}
