package markup

import (
	"strings"

	"gopkg.in/yaml.v3"
)

const frontMatterDelim = "---"

// SplitFrontMatter separates a leading YAML block delimited by "---" lines
// from the Markdown body. When there is no block, or the YAML does not
// parse to a mapping, meta is nil and body is src unchanged.
func SplitFrontMatter(src string) (meta map[string]any, body string) {
	if !strings.HasPrefix(src, frontMatterDelim+"\n") {
		return nil, src
	}

	rest := src[len(frontMatterDelim)+1:]
	var block string
	switch {
	case strings.HasPrefix(rest, frontMatterDelim+"\n"):
		block, body = "", rest[len(frontMatterDelim)+1:]
	case rest == frontMatterDelim:
		block, body = "", ""
	default:
		end := strings.Index(rest, "\n"+frontMatterDelim+"\n")
		switch {
		case end >= 0:
			block, body = rest[:end], rest[end+len(frontMatterDelim)+2:]
		case strings.HasSuffix(rest, "\n"+frontMatterDelim):
			block, body = rest[:len(rest)-len(frontMatterDelim)-1], ""
		default:
			return nil, src
		}
	}

	meta = make(map[string]any)
	if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
		return nil, src
	}
	return meta, body
}

// titleFrom returns the "title" front matter value, or the text of the
// first level-one ATX heading outside fenced code.
func titleFrom(meta map[string]any, body string) string {
	if t, ok := meta["title"].(string); ok && t != "" {
		return t
	}

	inFence := false
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(strings.TrimRight(trimmed[2:], "#"))
		}
	}
	return ""
}
