package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jacentio/dynamodel/internal/attrpath"
)

// Prepare turns raw into a validated, store-ready document. raw is not
// modified. Virtual setters are applied when applyVirtualSetters is true
// and their outputs are kept as persisted fields.
func (s *Schema) Prepare(raw Document, applyVirtualSetters bool) (Document, error) {
	p := &pipeline{self: deepCopy(raw)}
	doc := deepCopy(raw)

	if err := p.fillDefaults(s.fields, doc, ""); err != nil {
		return nil, err
	}
	if err := p.transformStrings(s.fields, doc, ""); err != nil {
		return nil, err
	}
	if err := p.applySetters(s.fields, doc, ""); err != nil {
		return nil, err
	}

	if applyVirtualSetters {
		for _, name := range s.VirtualSetters() {
			v, err := s.setters[name](p.self)
			if err != nil {
				return nil, fmt.Errorf("virtual setter %q: %w", name, err)
			}
			doc[name] = v
		}
	}

	missing, err := p.missingRequired(s.fields, doc, "")
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, &ValidationError{
			Rule:    RuleRequired,
			Reason:  "missing required fields: " + strings.Join(missing, ", "),
			Missing: missing,
		}
	}

	if err := checkTypes(s.fields, doc, ""); err != nil {
		return nil, err
	}
	if err := p.checkEnums(s.fields, doc, ""); err != nil {
		return nil, err
	}
	if err := p.checkBounds(s.fields, doc, ""); err != nil {
		return nil, err
	}

	keep := make(map[string]struct{}, len(s.setters))
	for name := range s.setters {
		keep[name] = struct{}{}
	}
	clean(s.fields, doc, false, keep)

	return doc, nil
}

// pipeline carries the producer context shared by every stage.
type pipeline struct {
	// self is a private copy of the caller's top-level document.
	self Document
}

func (p *pipeline) fillDefaults(fields map[string]*Field, doc Document, prefix string) error {
	for _, name := range sortedKeys(fields) {
		f := fields[name]
		path := attrpath.Join(prefix, name)

		if f.Default.IsSet() && isFalsy(doc[name]) {
			v, err := f.Default.Resolve(p.self)
			if err != nil {
				return producerError(path, "default", err)
			}
			doc[name] = copyValue(v)
		}

		if child, ok := doc[name].(map[string]any); ok && f.isObjectWithFields() {
			if err := p.fillDefaults(f.Fields, child, path); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *pipeline) transformStrings(fields map[string]*Field, doc Document, prefix string) error {
	for _, name := range sortedKeys(fields) {
		f := fields[name]
		path := attrpath.Join(prefix, name)

		switch v := doc[name].(type) {
		case string:
			if f.Kind != KindString {
				continue
			}
			transforms := []struct {
				attr  string
				flag  Value[bool]
				apply func(string) string
			}{
				{"trim", f.Trim, strings.TrimSpace},
				{"lowercase", f.Lowercase, strings.ToLower},
				{"uppercase", f.Uppercase, strings.ToUpper},
				{"capitalize", f.Capitalize, capitalize},
			}
			for _, t := range transforms {
				on, err := t.flag.Resolve(p.self)
				if err != nil {
					return producerError(path, t.attr, err)
				}
				if on {
					v = t.apply(v)
				}
			}
			doc[name] = v
		case map[string]any:
			if f.isObjectWithFields() {
				if err := p.transformStrings(f.Fields, v, path); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// applySetters runs custom setters on fields present in doc.
func (p *pipeline) applySetters(fields map[string]*Field, doc Document, prefix string) error {
	for _, name := range sortedKeys(doc) {
		f, ok := fields[name]
		if !ok {
			continue
		}
		path := attrpath.Join(prefix, name)

		if f.Set != nil {
			v, err := f.Set(p.self)
			if err != nil {
				return producerError(path, "set", err)
			}
			doc[name] = v
		}

		if child, ok := doc[name].(map[string]any); ok && f.isObjectWithFields() {
			if err := p.applySetters(f.Fields, child, path); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *pipeline) missingRequired(fields map[string]*Field, doc Document, prefix string) ([]string, error) {
	var missing []string
	for _, name := range sortedKeys(fields) {
		f := fields[name]
		path := attrpath.Join(prefix, name)

		required, err := f.Required.Resolve(p.self)
		if err != nil {
			return nil, producerError(path, "required", err)
		}
		if _, present := doc[name]; required && !present {
			missing = append(missing, path)
		}

		if child, ok := doc[name].(map[string]any); ok && f.isObjectWithFields() {
			nested, err := p.missingRequired(f.Fields, child, path)
			if err != nil {
				return nil, err
			}
			missing = append(missing, nested...)
		}
	}
	return missing, nil
}

func checkTypes(fields map[string]*Field, doc Document, prefix string) error {
	for _, name := range sortedKeys(doc) {
		f, ok := fields[name]
		if !ok {
			continue
		}
		path := attrpath.Join(prefix, name)

		if actual := KindOf(doc[name]); actual != f.Kind {
			return &TypeError{Path: path, Expected: f.Kind, Actual: actual}
		}
		if child, ok := doc[name].(map[string]any); ok && f.isObjectWithFields() {
			if err := checkTypes(f.Fields, child, path); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *pipeline) checkEnums(fields map[string]*Field, doc Document, prefix string) error {
	for _, name := range sortedKeys(doc) {
		f, ok := fields[name]
		if !ok {
			continue
		}
		path := attrpath.Join(prefix, name)
		v := doc[name]

		if child, ok := v.(map[string]any); ok {
			if f.isObjectWithFields() {
				if err := p.checkEnums(f.Fields, child, path); err != nil {
					return err
				}
			}
			continue
		}
		if !f.Enum.IsSet() || (f.Kind != KindString && f.Kind != KindNumber) {
			continue
		}

		allowed, err := f.Enum.Resolve(p.self)
		if err != nil {
			return producerError(path, "enum", err)
		}
		if len(allowed) == 0 || containsScalar(allowed, v) {
			continue
		}
		return &ValidationError{
			Path:    path,
			Rule:    RuleEnum,
			Reason:  fmt.Sprintf("value '%v' is not supported on field '%s', allowed values are '%s'", v, path, joinValues(allowed, " / ")),
			Allowed: allowed,
		}
	}
	return nil
}

// checkBounds enforces MinLength/MaxLength on strings and Min/Max on numbers.
func (p *pipeline) checkBounds(fields map[string]*Field, doc Document, prefix string) error {
	for _, name := range sortedKeys(doc) {
		f, ok := fields[name]
		if !ok {
			continue
		}
		path := attrpath.Join(prefix, name)

		switch v := doc[name].(type) {
		case map[string]any:
			if f.isObjectWithFields() {
				if err := p.checkBounds(f.Fields, v, path); err != nil {
					return err
				}
			}
		case string:
			if f.Kind == KindString {
				if err := p.checkLength(f, path, utf8.RuneCountInString(v)); err != nil {
					return err
				}
			}
		default:
			if n, ok := toFloat(v); ok && f.Kind == KindNumber {
				if err := p.checkRange(f, path, n); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (p *pipeline) checkLength(f *Field, path string, n int) error {
	if f.MinLength.IsSet() {
		lo, err := p.resolveLength(f.MinLength, path, "minLength")
		if err != nil {
			return err
		}
		if n < lo {
			return &ValidationError{Path: path, Rule: RuleMinLength,
				Reason: fmt.Sprintf("minimum allowed length for '%s' is %d", path, lo)}
		}
	}
	if f.MaxLength.IsSet() {
		hi, err := p.resolveLength(f.MaxLength, path, "maxLength")
		if err != nil {
			return err
		}
		if n > hi {
			return &ValidationError{Path: path, Rule: RuleMaxLength,
				Reason: fmt.Sprintf("maximum allowed length for '%s' is %d", path, hi)}
		}
	}
	return nil
}

func (p *pipeline) checkRange(f *Field, path string, n float64) error {
	if f.Min.IsSet() {
		lo, err := p.resolveNumber(f.Min, path, "min")
		if err != nil {
			return err
		}
		if n < lo {
			return &ValidationError{Path: path, Rule: RuleMin,
				Reason: fmt.Sprintf("minimum allowed value for '%s' is '%s', received %s", path, formatNumber(lo), formatNumber(n))}
		}
	}
	if f.Max.IsSet() {
		hi, err := p.resolveNumber(f.Max, path, "max")
		if err != nil {
			return err
		}
		if n > hi {
			return &ValidationError{Path: path, Rule: RuleMax,
				Reason: fmt.Sprintf("maximum allowed value for '%s' is '%s', received %s", path, formatNumber(hi), formatNumber(n))}
		}
	}
	return nil
}

func (p *pipeline) resolveNumber(v Value[float64], path, attr string) (float64, error) {
	n, err := v.Resolve(p.self)
	if err != nil {
		return 0, producerError(path, attr, err)
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, &DefinitionError{Field: path, Reason: fmt.Sprintf("'%s' must resolve to a number, received %v", attr, n)}
	}
	return n, nil
}

func (p *pipeline) resolveLength(v Value[int], path, attr string) (int, error) {
	n, err := v.Resolve(p.self)
	if err != nil {
		return 0, producerError(path, attr, err)
	}
	if n < 0 {
		return 0, &DefinitionError{Field: path, Reason: fmt.Sprintf("'%s' must resolve to a non-negative length, received %d", attr, n)}
	}
	return n, nil
}

// clean strips fields absent from the schema. Names in keep survive at the
// top level only.
func clean(fields map[string]*Field, doc Document, allowUndeclared bool, keep map[string]struct{}) {
	for name, v := range doc {
		f, ok := fields[name]
		if !ok {
			if _, kept := keep[name]; !kept && !allowUndeclared {
				delete(doc, name)
			}
			continue
		}
		if child, ok := v.(map[string]any); ok && f.isObjectWithFields() {
			clean(f.Fields, child, f.AllowUndeclared, nil)
		}
	}
}

func producerError(path, attr string, err error) error {
	return fmt.Errorf("%s producer on '%s': %w", attr, path, err)
}

func isFalsy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case bool:
		return !x
	case string:
		return x == ""
	}
	if n, ok := toFloat(v); ok {
		return n == 0 || math.IsNaN(n)
	}
	return false
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func containsScalar(allowed []any, v any) bool {
	for _, a := range allowed {
		if scalarEqual(a, v) {
			return true
		}
	}
	return false
}

func scalarEqual(a, b any) bool {
	if as, ok := a.(string); ok {
		bs, ok := b.(string)
		return ok && as == bs
	}
	an, ok := toFloat(a)
	if !ok {
		return false
	}
	bn, ok := toFloat(b)
	return ok && an == bn
}

func joinValues(values []any, sep string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, sep)
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// deepCopy copies nested maps and slices so stages can mutate freely.
func deepCopy(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return deepCopy(x)
	case []any:
		c := make([]any, len(x))
		for i, e := range x {
			c[i] = copyValue(e)
		}
		return c
	case StringSet:
		return append(StringSet(nil), x...)
	case NumberSet:
		return append(NumberSet(nil), x...)
	default:
		return v
	}
}
