package loader

import (
	"os"
	"strconv"
	"strings"

	"github.com/dshills/markpad/internal/config/layer"
)

// DefaultEnvPrefix is the prefix for markpad environment overrides.
const DefaultEnvPrefix = "MARKPAD_"

// EnvLoader turns prefixed environment variables into settings.
//
// Mapped names go to their configured path. Any other prefixed variable is
// converted by convention: MARKPAD_RENDER_HIGHLIGHT_STYLE becomes
// render.highlightStyle.
type EnvLoader struct {
	prefix  string
	mapping map[string]string
}

// NewEnvLoader creates a loader using the default mapping.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{prefix: prefix, mapping: defaultEnvMapping()}
}

func defaultEnvMapping() map[string]string {
	return map[string]string{
		"MARKPAD_LOG_LEVEL":        "logging.level",
		"MARKPAD_LOG_FILE":         "logging.file",
		"MARKPAD_HISTORY_CAPACITY": "history.capacity",
		"MARKPAD_HIGHLIGHT_STYLE":  "render.highlightStyle",
		"MARKPAD_CLIPBOARD":        "clipboard.system",
		"MARKPAD_EXPORT_DIR":       "export.dir",
	}
}

// AddMapping routes envVar to a config path.
func (l *EnvLoader) AddMapping(envVar, path string) {
	l.mapping[envVar] = path
}

// Load reads the environment. Empty values count as set.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		path, mapped := l.mapping[name]
		if !mapped {
			path = l.envToPath(name)
		}
		if path == "" {
			continue
		}
		layer.SetByPath(config, path, parseValue(value))
	}
	return config, nil
}

// envToPath converts MARKPAD_SECTION_SOME_KEY to section.someKey.
func (l *EnvLoader) envToPath(env string) string {
	parts := strings.Split(strings.TrimPrefix(env, l.prefix), "_")
	if len(parts) < 2 || parts[0] == "" {
		return ""
	}
	var key strings.Builder
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		p = strings.ToLower(p)
		if key.Len() > 0 {
			p = strings.ToUpper(p[:1]) + p[1:]
		}
		key.WriteString(p)
	}
	if key.Len() == 0 {
		return ""
	}
	return strings.ToLower(parts[0]) + "." + key.String()
}

// parseValue guesses the type of an environment value. Comma-separated
// values become lists.
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "":
		return s
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	if strings.Contains(s, ",") {
		var out []any
		for _, item := range strings.Split(s, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		return out
	}
	return s
}
