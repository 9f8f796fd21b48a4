package expr

import (
	"strings"
	"unicode"

	"github.com/jacentio/dynamodel/internal/attrpath"
)

// AliasSeparator splits a select DSL key into attribute name and alias.
const AliasSeparator = ":"

func splitAlias(key string) (name, alias string) {
	name, alias, ok := strings.Cut(key, AliasSeparator)
	if !ok || alias == "" {
		return name, name
	}
	return name, alias
}

// ProjectionPaths flattens a select DSL document into attribute paths.
// Keys may be written "name:alias"; the path uses name. A true or string
// value selects the attribute, false skips it and a nested document
// selects its own children.
func ProjectionPaths(sel map[string]any) ([]string, error) {
	return projectionPaths(sel, "")
}

func projectionPaths(sel map[string]any, prefix string) ([]string, error) {
	var paths []string
	for _, key := range sortedKeys(sel) {
		name, _ := splitAlias(key)
		path := attrpath.Join(prefix, name)

		switch v := sel[key].(type) {
		case bool:
			if v {
				paths = append(paths, path)
			}
		case string:
			paths = append(paths, path)
		case map[string]any:
			if len(v) == 0 {
				paths = append(paths, path)
				continue
			}
			nested, err := projectionPaths(v, path)
			if err != nil {
				return nil, err
			}
			paths = append(paths, nested...)
		default:
			return nil, invalidf("select entry '%s' takes true, an alias or a nested selection, got %T", path, v)
		}
	}
	return paths, nil
}

// SelectedNames returns the top-level attribute names a select DSL document
// requests.
func SelectedNames(sel map[string]any) []string {
	var names []string
	for _, key := range sortedKeys(sel) {
		if b, ok := sel[key].(bool); ok && !b {
			continue
		}
		name, _ := splitAlias(key)
		names = append(names, name)
	}
	return names
}

// ApplyAlias reshapes doc according to sel and returns the result; doc is
// not modified. Only selected attributes are kept. A string value renames
// the attribute, a "name:alias" key renames it to alias and a nested
// document recurses into the matching sub-document. Selected attributes
// missing from doc are skipped.
func ApplyAlias(doc, sel map[string]any) map[string]any {
	out := make(map[string]any, len(sel))
	for _, key := range sortedKeys(sel) {
		name, alias := splitAlias(key)
		v, ok := doc[name]
		if !ok {
			continue
		}

		switch s := sel[key].(type) {
		case bool:
			if s {
				out[alias] = v
			}
		case string:
			out[s] = v
		case map[string]any:
			if child, ok := v.(map[string]any); ok && len(s) > 0 {
				v = ApplyAlias(child, s)
			}
			out[alias] = v
		}
	}
	return out
}

// NormalizeProjection strips whitespace from a raw projection string and
// escapes every comma-separated path, returning the expression.
func NormalizeProjection(a *Attributes, raw string) string {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	if compact == "" {
		return ""
	}

	parts := strings.Split(compact, ",")
	out := parts[:0]
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, a.Path(p))
	}
	return strings.Join(out, ",")
}
