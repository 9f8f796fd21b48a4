package expr

import (
	"strings"

	"github.com/jacentio/dynamodel/internal/attrpath"
)

// Condition is a node of a compiled boolean DSL document.
type Condition interface {
	render(a *Attributes) (string, error)
}

// Comparator is a binary comparison operator.
type Comparator string

// Comparators.
const (
	Equals             Comparator = "="
	NotEquals          Comparator = "<>"
	LessThan           Comparator = "<"
	LessThanOrEqual    Comparator = "<="
	GreaterThan        Comparator = ">"
	GreaterThanOrEqual Comparator = ">="
)

// And holds when every condition holds.
type And struct{ Conditions []Condition }

// Or holds when any condition holds.
type Or struct{ Conditions []Condition }

// Not negates a condition.
type Not struct{ Condition Condition }

// Comparison compares the attribute at Path with Value.
type Comparison struct {
	Path       string
	Comparator Comparator
	Value      any
}

// Between holds when Lower <= Path <= Upper.
type Between struct {
	Path         string
	Lower, Upper any
}

// In holds when the attribute equals one of Values.
type In struct {
	Path   string
	Values []any
}

// Exists checks attribute presence, or absence when Exists is false.
type Exists struct {
	Path   string
	Exists bool
}

// AttributeType holds when the attribute is stored with the given DynamoDB
// type descriptor, such as "S" or "L".
type AttributeType struct {
	Path string
	Type any
}

// BeginsWith holds when the attribute starts with Prefix.
type BeginsWith struct {
	Path   string
	Prefix any
}

// Contains holds when the attribute, a string, set or list, contains Operand.
type Contains struct {
	Path    string
	Operand any
}

var comparators = map[string]Comparator{
	"$eq":  Equals,
	"$neq": NotEquals,
	"$lt":  LessThan,
	"$lte": LessThanOrEqual,
	"$gt":  GreaterThan,
	"$gte": GreaterThanOrEqual,
}

var conditionOperators = []string{
	"$and", "$beginsWith", "$between", "$contains", "$eq", "$exists", "$gt", "$gte",
	"$in", "$includes", "$lt", "$lte", "$neq", "$not", "$or", "$startsWith", "$type",
}

// ParseCondition compiles a boolean DSL document into a Condition tree.
//
// A key not starting with "$" extends the current attribute path; its value
// is either a nested document or, for any other value, an implicit $eq.
// Several keys at one level are combined with an implicit $and in key order.
// A document value is always read as a nested path, so object equality must
// be written with an explicit $eq.
func ParseCondition(doc map[string]any) (Condition, error) {
	return parseCondition(doc, "")
}

func parseCondition(doc map[string]any, path string) (Condition, error) {
	switch len(doc) {
	case 0:
		return nil, invalidf("empty condition at '%s'", path)
	case 1:
	default:
		and := And{}
		for _, k := range sortedKeys(doc) {
			c, err := parseCondition(map[string]any{k: doc[k]}, path)
			if err != nil {
				return nil, err
			}
			and.Conditions = append(and.Conditions, c)
		}
		return and, nil
	}

	var key string
	for k := range doc {
		key = k
	}
	v := doc[key]

	if !strings.HasPrefix(key, "$") {
		current := attrpath.Join(path, key)
		if child, ok := v.(map[string]any); ok {
			return parseCondition(child, current)
		}
		return Comparison{Path: current, Comparator: Equals, Value: v}, nil
	}

	switch key {
	case "$and", "$or":
		operands, err := parseOperands(key, v, path)
		if err != nil {
			return nil, err
		}
		if key == "$and" {
			return And{Conditions: operands}, nil
		}
		return Or{Conditions: operands}, nil
	case "$not":
		child, ok := v.(map[string]any)
		if !ok {
			return nil, invalidf("$not takes a condition object, got %T", v)
		}
		c, err := parseCondition(child, path)
		if err != nil {
			return nil, err
		}
		return Not{Condition: c}, nil
	}

	if _, known := comparators[key]; !known && !isFunctionOperator(key) {
		return nil, &UnsupportedOperatorError{Operator: key, Supported: conditionOperators}
	}
	if path == "" {
		return nil, invalidf("%s needs an attribute path", key)
	}
	if cmp, ok := comparators[key]; ok {
		return Comparison{Path: path, Comparator: cmp, Value: v}, nil
	}

	switch key {
	case "$between":
		bounds, ok := asList(v)
		if !ok || len(bounds) != 2 {
			return nil, invalidf("$between on '%s' takes two bounds, got %v", path, v)
		}
		return Between{Path: path, Lower: bounds[0], Upper: bounds[1]}, nil
	case "$in":
		values, ok := asList(v)
		if !ok || len(values) == 0 {
			return nil, invalidf("$in on '%s' takes a non-empty list, got %v", path, v)
		}
		return In{Path: path, Values: values}, nil
	case "$exists":
		b, ok := v.(bool)
		if !ok {
			return nil, invalidf("$exists on '%s' takes a boolean, got %T", path, v)
		}
		return Exists{Path: path, Exists: b}, nil
	case "$type":
		return AttributeType{Path: path, Type: v}, nil
	case "$beginsWith", "$startsWith":
		return BeginsWith{Path: path, Prefix: v}, nil
	default: // $contains, $includes
		return Contains{Path: path, Operand: v}, nil
	}
}

func isFunctionOperator(key string) bool {
	switch key {
	case "$between", "$in", "$exists", "$type", "$beginsWith", "$startsWith", "$contains", "$includes":
		return true
	}
	return false
}

func parseOperands(op string, v any, path string) ([]Condition, error) {
	items, ok := asList(v)
	if !ok || len(items) == 0 {
		return nil, invalidf("%s takes a non-empty list of conditions, got %v", op, v)
	}
	out := make([]Condition, 0, len(items))
	for _, item := range items {
		child, ok := item.(map[string]any)
		if !ok {
			return nil, invalidf("%s operand must be a condition object, got %T", op, item)
		}
		c, err := parseCondition(child, path)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// RenderCondition serialises c into a ConditionExpression, binding names and
// values in a.
func RenderCondition(c Condition, a *Attributes) (string, error) {
	if c == nil {
		return "", invalidf("nil condition")
	}
	return c.render(a)
}

func (c And) render(a *Attributes) (string, error) { return renderJunction(c.Conditions, " AND ", a) }

func (c Or) render(a *Attributes) (string, error) { return renderJunction(c.Conditions, " OR ", a) }

func renderJunction(conds []Condition, sep string, a *Attributes) (string, error) {
	parts := make([]string, len(conds))
	for i, c := range conds {
		s, err := RenderCondition(c, a)
		if err != nil {
			return "", err
		}
		parts[i] = "(" + s + ")"
	}
	return strings.Join(parts, sep), nil
}

func (c Not) render(a *Attributes) (string, error) {
	s, err := RenderCondition(c.Condition, a)
	if err != nil {
		return "", err
	}
	return "NOT (" + s + ")", nil
}

func (c Comparison) render(a *Attributes) (string, error) {
	ph, err := a.Value(c.Value)
	if err != nil {
		return "", err
	}
	return a.Path(c.Path) + " " + string(c.Comparator) + " " + ph, nil
}

func (c Between) render(a *Attributes) (string, error) {
	lo, err := a.Value(c.Lower)
	if err != nil {
		return "", err
	}
	hi, err := a.Value(c.Upper)
	if err != nil {
		return "", err
	}
	return a.Path(c.Path) + " BETWEEN " + lo + " AND " + hi, nil
}

func (c In) render(a *Attributes) (string, error) {
	phs := make([]string, len(c.Values))
	for i, v := range c.Values {
		ph, err := a.Value(v)
		if err != nil {
			return "", err
		}
		phs[i] = ph
	}
	return a.Path(c.Path) + " IN (" + strings.Join(phs, ", ") + ")", nil
}

func (c Exists) render(a *Attributes) (string, error) {
	if c.Exists {
		return "attribute_exists(" + a.Path(c.Path) + ")", nil
	}
	return "attribute_not_exists(" + a.Path(c.Path) + ")", nil
}

func (c AttributeType) render(a *Attributes) (string, error) {
	return renderFunction("attribute_type", c.Path, c.Type, a)
}

func (c BeginsWith) render(a *Attributes) (string, error) {
	return renderFunction("begins_with", c.Path, c.Prefix, a)
}

func (c Contains) render(a *Attributes) (string, error) {
	return renderFunction("contains", c.Path, c.Operand, a)
}

func renderFunction(name, path string, operand any, a *Attributes) (string, error) {
	ph, err := a.Value(operand)
	if err != nil {
		return "", err
	}
	return name + "(" + a.Path(path) + ", " + ph + ")", nil
}
