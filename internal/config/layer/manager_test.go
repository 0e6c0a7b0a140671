package layer

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestManager_Add(t *testing.T) {
	m := NewManager()
	m.Add(New(SourceSession))
	m.Add(New(SourceBuiltin))
	m.Add(New(SourceUser))

	var names []string
	for _, l := range m.Layers() {
		names = append(names, l.Name)
	}
	want := []string{"defaults", "user", "session"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("layer order mismatch (-want +got):\n%s", diff)
	}

	// Adding a layer with an existing name replaces it.
	m.Add(NewWithData(SourceUser, map[string]any{"a": 1}))
	if len(m.Layers()) != 3 {
		t.Errorf("Layers() = %d, want 3", len(m.Layers()))
	}
	if v, _ := m.Get("a"); v != 1 {
		t.Errorf("Get(a) = %v, want 1", v)
	}
}

func TestManager_Remove(t *testing.T) {
	m := NewManager()
	m.Add(New(SourceBuiltin))

	if !m.Remove("defaults") {
		t.Error("Remove should report an existing layer")
	}
	if m.Remove("defaults") {
		t.Error("Remove should report a missing layer")
	}
	if m.Layer("defaults") != nil {
		t.Error("layer should be gone")
	}
}

func TestManager_Precedence(t *testing.T) {
	m := NewManager()
	m.Add(NewWithData(SourceBuiltin, map[string]any{
		"history": map[string]any{"capacity": int64(100)},
		"render":  map[string]any{"highlightStyle": "github", "highlightClasses": false},
	}))
	m.Add(NewWithData(SourceUser, map[string]any{
		"render": map[string]any{"highlightStyle": "monokai"},
	}))
	m.Add(NewWithData(SourceEnv, map[string]any{
		"history": map[string]any{"capacity": int64(20)},
	}))

	tests := []struct {
		path   string
		want   any
		origin string
	}{
		{"history.capacity", int64(20), "environment"},
		{"render.highlightStyle", "monokai", "user"},
		{"render.highlightClasses", false, "defaults"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := m.Get(tt.path)
			if !ok || got != tt.want {
				t.Errorf("Get(%q) = %v, %v; want %v", tt.path, got, ok, tt.want)
			}
			origin, _ := m.Origin(tt.path)
			if origin != tt.origin {
				t.Errorf("Origin(%q) = %q, want %q", tt.path, origin, tt.origin)
			}
		})
	}

	if _, ok := m.Get("render.missing"); ok {
		t.Error("missing path should not be found")
	}
}

func TestManager_MergeReturnsCopy(t *testing.T) {
	m := NewManager()
	m.Add(NewWithData(SourceBuiltin, map[string]any{"editor": map[string]any{"seed": "x"}}))

	merged := m.Merge()
	SetByPath(merged, "editor.seed", "changed")

	if v, _ := m.Get("editor.seed"); v != "x" {
		t.Errorf("mutating Merge() leaked into manager: %v", v)
	}
}

func TestManager_Set(t *testing.T) {
	m := NewManager()
	ro := New(SourceBuiltin)
	ro.ReadOnly = true
	m.Add(ro)
	m.Add(New(SourceUser))

	if err := m.Set("user", "logging.level", "debug"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if v, _ := m.Get("logging.level"); v != "debug" {
		t.Errorf("Get() = %v, want debug", v)
	}

	if err := m.Set("defaults", "x", 1); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Set on read-only layer error = %v, want ErrReadOnly", err)
	}
	if err := m.Set("nope", "x", 1); !errors.Is(err, ErrLayerNotFound) {
		t.Errorf("Set on missing layer error = %v, want ErrLayerNotFound", err)
	}
}

func TestManager_SetInSession(t *testing.T) {
	m := NewManager()
	m.Add(NewWithData(SourceArgs, map[string]any{"logging": map[string]any{"level": "warn"}}))

	m.SetInSession("logging.level", "error")
	if v, _ := m.Get("logging.level"); v != "error" {
		t.Errorf("session value should win, got %v", v)
	}
	if l := m.Layer("session"); l == nil || l.Priority != PrioritySession {
		t.Error("session layer should be created with session priority")
	}
}

func TestManager_DeleteAndReplace(t *testing.T) {
	m := NewManager()
	m.Add(NewWithData(SourceBuiltin, map[string]any{"a": "base"}))
	m.Add(NewWithData(SourceUser, map[string]any{"a": "user"}))

	if err := m.Delete("user", "a"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if v, _ := m.Get("a"); v != "base" {
		t.Errorf("after Delete Get(a) = %v, want base", v)
	}

	if err := m.Replace("user", map[string]any{"b": true}); err != nil {
		t.Fatalf("Replace() error: %v", err)
	}
	if v, _ := m.Get("b"); v != true {
		t.Errorf("after Replace Get(b) = %v", v)
	}
}
