package expr

import (
	"strings"

	"github.com/jacentio/dynamodel/internal/attrpath"
)

// Update operators.
const (
	OpSet     = "$set"
	OpPush    = "$push"
	OpUnshift = "$unshift"
	OpIncr    = "$incr"
	OpDecr    = "$decr"
	OpPull    = "$pull"
	OpRemove  = "$remove"
	OpDelete  = "$delete"
	OpAdd     = "$add"
)

var updateOperators = []string{OpAdd, OpDecr, OpDelete, OpIncr, OpPull, OpPush, OpRemove, OpSet, OpUnshift}

// UpdatePlan holds the compiled clauses of an UpdateExpression. Paths and
// values in the clauses refer to the Attributes of the Builder that compiled
// them.
type UpdatePlan struct {
	SetClauses    []string
	RemoveClauses []string
	AddClauses    []string
}

// Empty reports whether the plan has no clauses.
func (p *UpdatePlan) Empty() bool {
	return len(p.SetClauses) == 0 && len(p.RemoveClauses) == 0 && len(p.AddClauses) == 0
}

// Expression renders the plan as an UpdateExpression.
func (p *UpdatePlan) Expression() string {
	var sections []string
	if len(p.SetClauses) > 0 {
		sections = append(sections, "SET "+strings.Join(p.SetClauses, ", "))
	}
	if len(p.RemoveClauses) > 0 {
		sections = append(sections, "REMOVE "+strings.Join(p.RemoveClauses, ", "))
	}
	if len(p.AddClauses) > 0 {
		sections = append(sections, "ADD "+strings.Join(p.AddClauses, ", "))
	}
	return strings.Join(sections, " ")
}

type updateCompiler struct {
	attrs *Attributes
	plan  *UpdatePlan
}

func (c *updateCompiler) walk(doc map[string]any, path string) error {
	if path != "" && len(doc) > 1 && hasOperatorKey(doc) {
		return invalidf("operator object at '%s' must hold exactly one operator, got keys %v", path, sortedKeys(doc))
	}
	for _, key := range sortedKeys(doc) {
		v := doc[key]
		if !strings.HasPrefix(key, "$") {
			current := attrpath.Join(path, key)
			if child, ok := v.(map[string]any); ok {
				if err := c.walk(child, current); err != nil {
					return err
				}
				continue
			}
			if err := c.assign(current, v); err != nil {
				return err
			}
			continue
		}
		if err := c.operator(key, v, path); err != nil {
			return err
		}
	}
	return nil
}

// hasOperatorKey reports whether any key of doc names an operator. The
// top-level document may mix operators with plain keys.
func hasOperatorKey(doc map[string]any) bool {
	for k := range doc {
		if strings.HasPrefix(k, "$") {
			return true
		}
	}
	return false
}

func (c *updateCompiler) operator(op string, v any, path string) error {
	switch op {
	case OpSet:
		if path != "" {
			return c.assign(path, v)
		}
		fields, ok := v.(map[string]any)
		if !ok {
			return invalidf("top-level %s takes an object, got %T", op, v)
		}
		for _, k := range sortedKeys(fields) {
			if err := c.assign(k, fields[k]); err != nil {
				return err
			}
		}
		return nil

	case OpPush, OpUnshift:
		if path == "" {
			return invalidf("%s needs an attribute path", op)
		}
		ph, err := c.attrs.Value(listOrSingleton(v))
		if err != nil {
			return err
		}
		p := c.attrs.Path(path)
		if op == OpPush {
			c.set(p + " = list_append(" + p + ", " + ph + ")")
		} else {
			c.set(p + " = list_append(" + ph + ", " + p + ")")
		}
		return nil

	case OpIncr, OpDecr:
		if path == "" {
			return invalidf("%s needs an attribute path", op)
		}
		if !isNumber(v) {
			return invalidf("%s on '%s' takes a number, got %T", op, path, v)
		}
		ph, err := c.attrs.Value(v)
		if err != nil {
			return err
		}
		sign := " + "
		if op == OpDecr {
			sign = " - "
		}
		p := c.attrs.Path(path)
		c.set(p + " = " + p + sign + ph)
		return nil

	case OpPull, OpRemove:
		for _, item := range listOrSingleton(v) {
			if i, ok := listIndex(item); ok && path != "" {
				c.remove(attrpath.Index(path, i))
				continue
			}
			key, ok := item.(string)
			if !ok || key == "" {
				return invalidf("%s on '%s' takes list indexes or attribute names, got %v", op, path, item)
			}
			c.remove(attrpath.Join(path, key))
		}
		return nil

	case OpDelete:
		for _, item := range listOrSingleton(v) {
			key, ok := item.(string)
			if !ok || key == "" {
				return invalidf("%s on '%s' takes attribute names, got %v", op, path, item)
			}
			c.remove(attrpath.Join(path, key))
		}
		return nil

	case OpAdd:
		if path == "" {
			return invalidf("%s needs an attribute path", op)
		}
		ph, err := c.attrs.Value(v)
		if err != nil {
			return err
		}
		c.plan.AddClauses = append(c.plan.AddClauses, c.attrs.Path(path)+" "+ph)
		return nil

	default:
		return &UnsupportedOperatorError{Operator: op, Supported: updateOperators}
	}
}

func (c *updateCompiler) assign(path string, v any) error {
	ph, err := c.attrs.Value(v)
	if err != nil {
		return err
	}
	c.set(c.attrs.Path(path) + " = " + ph)
	return nil
}

func (c *updateCompiler) set(clause string) {
	c.plan.SetClauses = append(c.plan.SetClauses, clause)
}

func (c *updateCompiler) remove(path string) {
	c.plan.RemoveClauses = append(c.plan.RemoveClauses, c.attrs.Path(path))
}
