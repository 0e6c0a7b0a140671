package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTOMLLoader_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")
	content := `
[history]
capacity = 50

[render]
highlightStyle = "monokai"
plugins = ["toc.lua"]

[keymap]
"Ctrl+B" = "format.bold"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := NewTOMLLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := map[string]any{
		"history": map[string]any{"capacity": int64(50)},
		"render":  map[string]any{"highlightStyle": "monokai", "plugins": []any{"toc.lua"}},
		"keymap":  map[string]any{"Ctrl+B": "format.bold"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestTOMLLoader_Missing(t *testing.T) {
	got, err := NewTOMLLoader(filepath.Join(t.TempDir(), "none.toml")).Load()
	if err != nil || got != nil {
		t.Errorf("Load() on missing file = %v, %v; want nil, nil", got, err)
	}
}

func TestTOMLLoader_ParseError(t *testing.T) {
	_, err := NewTOMLLoader("x").LoadFromReader(strings.NewReader("[history]\ncapacity = = 3\n"))

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if perr.Line != 2 {
		t.Errorf("Line = %d, want 2", perr.Line)
	}
	if !strings.Contains(perr.Error(), "line 2") {
		t.Errorf("Error() = %q", perr.Error())
	}
	if perr.Unwrap() == nil {
		t.Error("ParseError should wrap the decoder error")
	}
}

func TestTOMLLoader_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.toml")
	l := NewTOMLLoader(path)
	data := map[string]any{"logging": map[string]any{"level": "debug"}}

	if err := l.Save(data); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}
	got, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if diff := cmp.Diff(data, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEnvLoader_Load(t *testing.T) {
	t.Setenv("MARKPAD_HISTORY_CAPACITY", "25")
	t.Setenv("MARKPAD_LOG_LEVEL", "debug")
	t.Setenv("MARKPAD_CLIPBOARD", "off")
	t.Setenv("MARKPAD_RENDER_HIGHLIGHT_STYLE", "dracula")
	t.Setenv("MARKPAD_RENDER_PLUGINS", "a.lua, b.lua")
	t.Setenv("MARKPAD_ALONE", "ignored")

	got, err := NewEnvLoader(DefaultEnvPrefix).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := map[string]any{
		"history":   map[string]any{"capacity": int64(25)},
		"logging":   map[string]any{"level": "debug"},
		"clipboard": map[string]any{"system": false},
		"render": map[string]any{
			"highlightStyle": "dracula",
			"plugins":        []any{"a.lua", "b.lua"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestEnvLoader_AddMapping(t *testing.T) {
	t.Setenv("MARKPAD_SEED", "# hi")
	l := NewEnvLoader(DefaultEnvPrefix)
	l.AddMapping("MARKPAD_SEED", "editor.seed")

	got, _ := l.Load()
	if diff := cmp.Diff(map[string]any{"editor": map[string]any{"seed": "# hi"}}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"", ""},
		{"true", true},
		{"No", false},
		{"42", int64(42)},
		{"1.5", 1.5},
		{"x,y", []any{"x", "y"}},
		{"github", "github"},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, parseValue(tt.in)); diff != "" {
			t.Errorf("parseValue(%q) (-want +got):\n%s", tt.in, diff)
		}
	}
}
