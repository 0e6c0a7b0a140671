package layer

import (
	"sort"
	"strings"
)

// DeepMerge merges src into dst and returns dst. Nested maps merge key by
// key; any other value in src replaces the one in dst.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}
	for key, srcVal := range src {
		srcMap, srcIsMap := srcVal.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = DeepMerge(dstMap, srcMap)
			continue
		}
		dst[key] = cloneValue(srcVal)
	}
	return dst
}

// GetByPath looks up a dot-separated path such as "render.highlightStyle".
func GetByPath(data map[string]any, path string) (any, bool) {
	if data == nil || path == "" {
		return nil, false
	}
	var current any = data
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = m[part]; !ok {
			return nil, false
		}
	}
	return current, true
}

// SetByPath stores value at path, creating intermediate maps. A scalar in
// the way of the path is replaced by a map.
func SetByPath(data map[string]any, path string, value any) {
	if data == nil || path == "" {
		return
	}
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

// DeleteByPath removes the value at path and reports whether it existed.
func DeleteByPath(data map[string]any, path string) bool {
	if data == nil || path == "" {
		return false
	}
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			return false
		}
		current = next
	}
	key := parts[len(parts)-1]
	if _, ok := current[key]; !ok {
		return false
	}
	delete(current, key)
	return true
}

// FlattenMap returns the leaves of data keyed by their dotted path.
func FlattenMap(data map[string]any) map[string]any {
	out := make(map[string]any)
	flatten(data, "", out)
	return out
}

func flatten(data map[string]any, prefix string, out map[string]any) {
	for key, val := range data {
		if prefix != "" {
			key = prefix + "." + key
		}
		if nested, ok := val.(map[string]any); ok && len(nested) > 0 {
			flatten(nested, key, out)
			continue
		}
		out[key] = val
	}
}

// DiffMaps compares two configurations leaf by leaf. Each result is sorted.
func DiffMaps(before, after map[string]any) (added, modified, removed []string) {
	oldFlat := FlattenMap(before)
	newFlat := FlattenMap(after)

	for path, newVal := range newFlat {
		oldVal, ok := oldFlat[path]
		switch {
		case !ok:
			added = append(added, path)
		case !valuesEqual(oldVal, newVal):
			modified = append(modified, path)
		}
	}
	for path := range oldFlat {
		if _, ok := newFlat[path]; !ok {
			removed = append(removed, path)
		}
	}
	sort.Strings(added)
	sort.Strings(modified)
	sort.Strings(removed)
	return added, modified, removed
}

// Changed returns every path DiffMaps reports, sorted.
func Changed(before, after map[string]any) []string {
	added, modified, removed := DiffMaps(before, after)
	out := make([]string, 0, len(added)+len(modified)+len(removed))
	out = append(out, added...)
	out = append(out, modified...)
	out = append(out, removed...)
	sort.Strings(out)
	return out
}

func valuesEqual(a, b any) bool {
	switch va := a.(type) {
	case map[string]any:
		vb, ok := b.(map[string]any)
		if !ok || len(va) != len(vb) {
			return false
		}
		for k, v := range va {
			if w, ok := vb[k]; !ok || !valuesEqual(v, w) {
				return false
			}
		}
		return true
	case []any:
		vb, ok := b.([]any)
		if !ok || len(va) != len(vb) {
			return false
		}
		for i := range va {
			if !valuesEqual(va[i], vb[i]) {
				return false
			}
		}
		return true
	case []string:
		vb, ok := b.([]string)
		if !ok || len(va) != len(vb) {
			return false
		}
		for i := range va {
			if va[i] != vb[i] {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
