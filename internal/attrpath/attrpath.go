// Package attrpath escapes DynamoDB document paths such as "a.b[2].c"
// against the reserved-word list.
package attrpath

import (
	"strconv"
	"strings"
)

// Placeholder prefixes the expression attribute name substituted for a
// reserved path segment.
const Placeholder = "#Safe"

// Escape returns path with every reserved segment replaced by a placeholder,
// along with the placeholder-to-name substitutions that were made.
//
// Escaping is idempotent: placeholders never match a reserved word, so
// Escape(Escape(p)) yields the same path.
func Escape(path string) (string, map[string]string) {
	names := make(map[string]string)
	return EscapeInto(names, path), names
}

// EscapeInto escapes path like Escape, recording substitutions in names.
func EscapeInto(names map[string]string, path string) string {
	switch {
	case strings.Contains(path, "."):
		return escapeSplit(names, path, ".")
	case strings.Contains(path, "["):
		return escapeSplit(names, path, "[")
	case IsReserved(path):
		safe := Placeholder + path
		names[safe] = path
		return safe
	default:
		return path
	}
}

func escapeSplit(names map[string]string, path, sep string) string {
	parts := strings.Split(path, sep)
	for i, p := range parts {
		parts[i] = EscapeInto(names, p)
	}
	return strings.Join(parts, sep)
}

// Join appends key to base. Keys starting with "[" address a list element
// and are appended without a dot.
func Join(base, key string) string {
	if base == "" {
		return key
	}
	if strings.HasPrefix(key, "[") {
		return base + key
	}
	return base + "." + key
}

// Index returns the path addressing element i of the list at base.
func Index(base string, i int) string {
	return base + "[" + strconv.Itoa(i) + "]"
}
