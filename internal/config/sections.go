package config

import (
	"fmt"
	"time"
)

// Section accessors return snapshots. Changing a returned struct does not
// change the configuration; use Set for that.

// EditorConfig holds editor settings.
type EditorConfig struct {
	// Seed is the initial buffer content.
	Seed string
}

// HistoryConfig holds undo history settings.
type HistoryConfig struct {
	// Capacity is the maximum number of snapshots kept.
	Capacity int
}

// RenderConfig holds preview settings.
type RenderConfig struct {
	// HighlightStyle is a chroma style name.
	HighlightStyle string

	// HighlightClasses emits CSS classes instead of inline styles.
	HighlightClasses bool

	// Plugins are Lua decorator scripts, run in order.
	Plugins []string

	// PluginTimeout bounds one decorate call.
	PluginTimeout time.Duration
}

// ClipboardConfig holds clipboard settings.
type ClipboardConfig struct {
	// System uses the OS clipboard, falling back to an in-memory one.
	System bool
}

// ExportConfig holds export settings.
type ExportConfig struct {
	Filename string

	// Dir is where exports are written. Empty means the working directory.
	Dir string
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string

	// File is the log destination. Empty selects the default state file.
	File string
}

// Editor returns editor settings.
func (c *Config) Editor() EditorConfig {
	return EditorConfig{
		Seed: c.getStringOr("editor.seed", DefaultSeed),
	}
}

// History returns history settings. Capacities below one fall back to 100.
func (c *Config) History() HistoryConfig {
	n := c.getIntOr("history.capacity", 100)
	if n < 1 {
		c.recordError("history.capacity", fmt.Errorf("%w: history.capacity must be positive, got %d", ErrInvalidValue, n))
		n = 100
	}
	return HistoryConfig{Capacity: n}
}

// Render returns preview settings.
func (c *Config) Render() RenderConfig {
	timeout := 250 * time.Millisecond
	if s := c.getStringOr("render.pluginTimeout", ""); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 {
			timeout = d
		} else {
			c.recordError("render.pluginTimeout", fmt.Errorf("%w: render.pluginTimeout %q", ErrInvalidValue, s))
		}
	}
	return RenderConfig{
		HighlightStyle:   c.getStringOr("render.highlightStyle", "github"),
		HighlightClasses: c.getBoolOr("render.highlightClasses", false),
		Plugins:          c.getStringSliceOr("render.plugins", nil),
		PluginTimeout:    timeout,
	}
}

// Clipboard returns clipboard settings.
func (c *Config) Clipboard() ClipboardConfig {
	return ClipboardConfig{System: c.getBoolOr("clipboard.system", true)}
}

// Export returns export settings.
func (c *Config) Export() ExportConfig {
	return ExportConfig{
		Filename: c.getStringOr("export.filename", "markdown.md"),
		Dir:      c.getStringOr("export.dir", ""),
	}
}

// Logging returns logging settings.
func (c *Config) Logging() LoggingConfig {
	return LoggingConfig{
		Level: c.getStringOr("logging.level", "info"),
		File:  c.getStringOr("logging.file", ""),
	}
}

// Keymap returns the key bindings. Binding a key to "" in a higher layer
// removes the default binding.
func (c *Config) Keymap() map[string]string {
	km, err := c.GetStringMap("keymap")
	if err != nil {
		c.recordError("keymap", err)
		return DefaultKeymap()
	}
	for k, v := range km {
		if v == "" {
			delete(km, k)
		}
	}
	return km
}

// The *Or helpers fall back to the default for missing or mistyped values
// and record type errors so that Errors can report them.

func (c *Config) getStringOr(path, def string) string {
	v, err := c.GetString(path)
	if err != nil {
		c.recordError(path, err)
		return def
	}
	return v
}

func (c *Config) getIntOr(path string, def int) int {
	v, err := c.GetInt(path)
	if err != nil {
		c.recordError(path, err)
		return def
	}
	return v
}

func (c *Config) getBoolOr(path string, def bool) bool {
	v, err := c.GetBool(path)
	if err != nil {
		c.recordError(path, err)
		return def
	}
	return v
}

func (c *Config) getStringSliceOr(path string, def []string) []string {
	v, err := c.GetStringSlice(path)
	if err != nil {
		c.recordError(path, err)
		return append([]string(nil), def...)
	}
	return v
}
