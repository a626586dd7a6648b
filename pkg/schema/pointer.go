package schema

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// walkPointer follows a JSON pointer ("#/a/b", "/a/b", or "#") through a
// decoded payload.
func walkPointer(root any, pointer string) (any, error) {
	pointer = normalizePointer(pointer)
	if pointer == "#" {
		return root, nil
	}

	current := root
	for _, part := range SplitPointer(pointer) {
		switch typed := current.(type) {
		case map[string]any:
			value, ok := typed[part]
			if !ok {
				return nil, fmt.Errorf("schema: pointer %q not found", pointer)
			}
			current = value
		case []any:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(typed) {
				return nil, fmt.Errorf("schema: pointer %q out of range", pointer)
			}
			current = typed[idx]
		default:
			return nil, fmt.Errorf("schema: pointer %q invalid", pointer)
		}
	}
	return current, nil
}

// SplitPointer splits a reference path on "/" after dropping the leading "#",
// decoding percent escapes and the ~1 / ~0 pointer escapes.
func SplitPointer(pointer string) []string {
	trimmed := strings.TrimPrefix(strings.TrimSpace(pointer), "#")
	trimmed = strings.TrimPrefix(trimmed, "/")
	if trimmed == "" {
		return nil
	}
	parts := strings.Split(trimmed, "/")
	for idx, part := range parts {
		if decoded, err := url.PathUnescape(part); err == nil {
			part = decoded
		}
		part = strings.ReplaceAll(part, "~1", "/")
		parts[idx] = strings.ReplaceAll(part, "~0", "~")
	}
	return parts
}

func normalizePointer(pointer string) string {
	trimmed := strings.TrimSpace(pointer)
	if trimmed == "" || trimmed == "#" || trimmed == "/" || trimmed == "#/" {
		return "#"
	}
	parts := SplitPointer(trimmed)
	return joinPointer("#", parts...)
}

func joinPointer(base string, segments ...string) string {
	if base == "" {
		base = "#"
	}
	for _, segment := range segments {
		base = base + "/" + escapePointer(segment)
	}
	return base
}

func escapePointer(value string) string {
	replacer := strings.NewReplacer("~", "~0", "/", "~1")
	return replacer.Replace(value)
}

func itoa(value int) string {
	return strconv.Itoa(value)
}

func cloneAny(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, val := range typed {
			out[key] = cloneAny(val)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for idx, val := range typed {
			out[idx] = cloneAny(val)
		}
		return out
	default:
		return typed
	}
}

// CloneValue deep-copies a decoded value tree (maps, slices, scalars).
func CloneValue(value any) any {
	return cloneAny(value)
}
