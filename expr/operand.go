package expr

import (
	"math"
	"reflect"
	"sort"
	"strconv"
)

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// asList returns the elements of a slice or array operand.
func asList(v any) ([]any, bool) {
	if l, ok := v.([]any); ok {
		return l, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	// []byte marshals as a binary attribute, not a list.
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// listOrSingleton wraps a non-list operand in a one-element list.
func listOrSingleton(v any) []any {
	if l, ok := asList(v); ok {
		return l
	}
	return []any{v}
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}

// listIndex reports whether v addresses a list element, returning the index.
// Numeric strings count as indexes.
func listIndex(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, n >= 0 && n <= math.MaxInt32
	case int32:
		return int(n), n >= 0
	case int64:
		if n < 0 || n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case uint:
		if n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case float64:
		if n < 0 || n > math.MaxInt32 || n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil && i >= 0 && i <= math.MaxInt32
	}
	return 0, false
}
