package expr

import "strings"

// Builder compiles the expressions of one DynamoDB request into a shared
// substitution namespace. A Builder is not safe for concurrent use; create
// one per request.
type Builder struct {
	attrs *Attributes
}

// NewBuilder returns a Builder with an empty namespace.
func NewBuilder() *Builder {
	return &Builder{attrs: NewAttributes()}
}

// Attributes returns the namespace populated by the Builder.
func (b *Builder) Attributes() *Attributes { return b.attrs }

// Update compiles an operator DSL document. An empty document is rejected
// since DynamoDB requires at least one clause.
func (b *Builder) Update(doc map[string]any) (*UpdatePlan, error) {
	c := &updateCompiler{attrs: b.attrs, plan: &UpdatePlan{}}
	if err := c.walk(doc, ""); err != nil {
		return nil, err
	}
	if c.plan.Empty() {
		return nil, invalidf("update document has no clauses")
	}
	return c.plan, nil
}

// Condition compiles a boolean DSL document into a ConditionExpression.
func (b *Builder) Condition(doc map[string]any) (string, error) {
	c, err := ParseCondition(doc)
	if err != nil {
		return "", err
	}
	return RenderCondition(c, b.attrs)
}

// Projection compiles a select DSL document into a ProjectionExpression.
func (b *Builder) Projection(sel map[string]any) (string, error) {
	paths, err := ProjectionPaths(sel)
	if err != nil {
		return "", err
	}
	for i, p := range paths {
		paths[i] = b.attrs.Path(p)
	}
	return strings.Join(paths, ","), nil
}

// RawProjection escapes a comma-separated projection string.
func (b *Builder) RawProjection(raw string) string {
	return NormalizeProjection(b.attrs, raw)
}
