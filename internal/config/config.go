package config

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/dshills/markpad/internal/config/layer"
	"github.com/dshills/markpad/internal/config/loader"
	"github.com/dshills/markpad/internal/config/notify"
	"github.com/dshills/markpad/internal/config/watcher"
)

// SettingsFile is the name of the user settings file.
const SettingsFile = "settings.toml"

// Config provides merged access to markpad settings.
type Config struct {
	mu sync.RWMutex

	layers   *layer.Manager
	notifier *notify.Notifier
	watcher  *watcher.Watcher

	userConfigDir string
	settingsPath  string
	envPrefix     string
	args          map[string]any

	enableWatcher bool
	onError       func(error)

	// configErrors records the first type error seen per path by the
	// section accessors.
	configErrors map[string]error
}

// Option configures a Config.
type Option func(*Config)

// WithUserConfigDir sets the directory holding settings.toml.
func WithUserConfigDir(dir string) Option {
	return func(c *Config) {
		c.userConfigDir = dir
	}
}

// WithSettingsFile loads settings from path instead of the user directory.
func WithSettingsFile(path string) Option {
	return func(c *Config) {
		c.settingsPath = path
	}
}

// WithEnvPrefix changes the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// WithArgs supplies command-line overrides as dotted paths.
func WithArgs(args map[string]any) Option {
	return func(c *Config) {
		c.args = args
	}
}

// WithWatcher enables live reload of the settings file.
func WithWatcher(enable bool) Option {
	return func(c *Config) {
		c.enableWatcher = enable
	}
}

// WithErrorHandler receives errors that happen after Load returns, such as
// a settings file that no longer parses.
func WithErrorHandler(fn func(error)) Option {
	return func(c *Config) {
		c.onError = fn
	}
}

// New creates a Config. Nothing is read until Load.
func New(opts ...Option) *Config {
	c := &Config{
		layers:    layer.NewManager(),
		notifier:  notify.New(),
		envPrefix: loader.DefaultEnvPrefix,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.userConfigDir == "" {
		c.userConfigDir = defaultUserConfigDir()
	}
	if c.settingsPath == "" {
		c.settingsPath = filepath.Join(c.userConfigDir, SettingsFile)
	}
	return c
}

// Load reads every layer and, if enabled, starts watching the settings
// file. A missing settings file is not an error; a malformed one is.
func (c *Config) Load(_ context.Context) error {
	c.layers.Add(layer.NewWithData(layer.SourceBuiltin, defaultConfig()))

	if err := c.loadUserSettings(); err != nil {
		return err
	}
	if err := c.loadEnvironment(); err != nil {
		return err
	}
	if len(c.args) > 0 {
		data := make(map[string]any)
		for path, v := range c.args {
			layer.SetByPath(data, path, v)
		}
		c.layers.Add(layer.NewWithData(layer.SourceArgs, data))
	}

	if !c.enableWatcher {
		return nil
	}
	w, err := watcher.New(watcher.WithErrorHandler(c.reportError))
	if err != nil {
		return err
	}
	if err := w.Watch(c.settingsPath); err != nil {
		_ = w.Stop()
		// The directory may not exist yet; run without live reload.
		c.reportError(err)
		return nil
	}
	w.OnChange(c.handleFileChange)
	w.Start()

	c.mu.Lock()
	c.watcher = w
	c.mu.Unlock()
	return nil
}

// Close stops the watcher and drops all subscribers.
func (c *Config) Close() {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()

	if w != nil {
		_ = w.Stop()
	}
	c.notifier.Close()
}

// SettingsPath returns the settings file location.
func (c *Config) SettingsPath() string {
	return c.settingsPath
}

// Get returns the effective value at path.
func (c *Config) Get(path string) (any, bool) {
	return c.layers.Get(path)
}

// Origin returns the name of the layer that supplies path.
func (c *Config) Origin(path string) (string, bool) {
	return c.layers.Origin(path)
}

// GetString returns the string at path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns the integer at path. Whole floats are accepted.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		if val == math.Trunc(val) {
			return int(val), nil
		}
	}
	return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
}

// GetBool returns the bool at path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// GetFloat returns the number at path.
func (c *Config) GetFloat(path string) (float64, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	}
	return 0, &TypeError{Path: path, Expected: "float64", Actual: typeName(v)}
}

// GetStringSlice returns the list of strings at path.
func (c *Config) GetStringSlice(path string) ([]string, error) {
	v, ok := c.Get(path)
	if !ok {
		return nil, ErrSettingNotFound
	}
	switch val := v.(type) {
	case []string:
		return append([]string(nil), val...), nil
	case []any:
		out := make([]string, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, &TypeError{Path: path, Expected: "[]string", Actual: "array of " + typeName(item)}
			}
			out[i] = s
		}
		return out, nil
	}
	return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
}

// GetStringMap returns the table at path with every value as a string.
func (c *Config) GetStringMap(path string) (map[string]string, error) {
	v, ok := c.Get(path)
	if !ok {
		return nil, ErrSettingNotFound
	}
	table, ok := v.(map[string]any)
	if !ok {
		return nil, &TypeError{Path: path, Expected: "table", Actual: typeName(v)}
	}
	out := make(map[string]string, len(table))
	for k, item := range table {
		s, ok := item.(string)
		if !ok {
			return nil, &TypeError{Path: path + "." + k, Expected: "string", Actual: typeName(item)}
		}
		out[k] = s
	}
	return out, nil
}

// Set stores value in the session layer and notifies subscribers.
func (c *Config) Set(path string, value any) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidValue)
	}
	old, _ := c.Get(path)
	c.layers.SetInSession(path, value)
	current, _ := c.Get(path)
	c.notifier.NotifySet(path, old, current, layer.SourceSession.String())
	return nil
}

// Unset removes a session override.
func (c *Config) Unset(path string) error {
	old, ok := c.Get(path)
	if !ok {
		return ErrSettingNotFound
	}
	if c.layers.Layer(layer.SourceSession.String()) == nil {
		return nil
	}
	if err := c.layers.Delete(layer.SourceSession.String(), path); err != nil {
		return err
	}
	if current, ok := c.Get(path); ok {
		c.notifier.NotifySet(path, old, current, layer.SourceSession.String())
	} else {
		c.notifier.NotifyDelete(path, old, layer.SourceSession.String())
	}
	return nil
}

// Subscribe registers an observer for every change.
func (c *Config) Subscribe(o notify.Observer) *notify.Subscription {
	return c.notifier.Subscribe(o)
}

// SubscribePath registers an observer for path and its children.
func (c *Config) SubscribePath(path string, o notify.Observer) *notify.Subscription {
	return c.notifier.SubscribePath(path, o)
}

// Merged returns a copy of the merged settings.
func (c *Config) Merged() map[string]any {
	return c.layers.Merge()
}

// Reload re-reads the settings file. On a parse error the previous user
// layer stays in effect.
func (c *Config) Reload() error {
	before := c.layers.Merge()
	if err := c.loadUserSettings(); err != nil {
		return err
	}
	if len(layer.Changed(before, c.layers.Merge())) > 0 {
		c.notifier.NotifyReload(layer.SourceUser.String())
	}
	return nil
}

// Errors returns the type errors recorded by the section accessors.
func (c *Config) Errors() map[string]error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.configErrors) == 0 {
		return nil
	}
	out := make(map[string]error, len(c.configErrors))
	for k, v := range c.configErrors {
		out[k] = v
	}
	return out
}

func (c *Config) loadUserSettings() error {
	data, err := loader.NewTOMLLoader(c.settingsPath).Load()
	if err != nil {
		return err
	}
	l := layer.NewWithData(layer.SourceUser, data)
	l.Path = c.settingsPath
	c.layers.Add(l)
	return nil
}

func (c *Config) loadEnvironment() error {
	data, err := loader.NewEnvLoader(c.envPrefix).Load()
	if err != nil {
		return err
	}
	if len(data) > 0 {
		c.layers.Add(layer.NewWithData(layer.SourceEnv, data))
	}
	return nil
}

func (c *Config) handleFileChange(event watcher.Event) {
	var err error
	switch event.Op {
	case watcher.OpRemove, watcher.OpRename:
		before := c.layers.Merge()
		err = c.layers.Replace(layer.SourceUser.String(), nil)
		if errors.Is(err, layer.ErrLayerNotFound) {
			// Nothing was loaded from the file, so nothing to drop.
			err = nil
		}
		if len(layer.Changed(before, c.layers.Merge())) > 0 {
			c.notifier.NotifyReload(layer.SourceUser.String())
		}
	default:
		err = c.Reload()
	}
	if err != nil {
		c.reportError(err)
	}
}

func (c *Config) reportError(err error) {
	if c.onError != nil && err != nil {
		c.onError(err)
	}
}

func (c *Config) recordError(path string, err error) {
	if errors.Is(err, ErrSettingNotFound) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.configErrors == nil {
		c.configErrors = make(map[string]error)
	}
	if _, ok := c.configErrors[path]; !ok {
		c.configErrors[path] = err
	}
}

func defaultUserConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "markpad")
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "markpad")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "markpad")
}
