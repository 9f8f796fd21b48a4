package schema

// Field defines one node of a schema tree.
type Field struct {
	Kind Kind

	// PartitionKey marks the field addressing documents in the table. It
	// must be a top-level String or Number field and implies Required.
	PartitionKey bool

	Required Value[bool]
	Default  Value[any]
	Enum     Value[[]any]

	// Min and Max bound Number fields.
	Min Value[float64]
	Max Value[float64]

	// MinLength and MaxLength bound String fields, counted in runes.
	MinLength Value[int]
	MaxLength Value[int]

	// String transforms, applied in declaration order.
	Trim       Value[bool]
	Lowercase  Value[bool]
	Uppercase  Value[bool]
	Capitalize Value[bool]

	// Set replaces a present value with a derived one before validation.
	Set func(self Document) (any, error)

	// Fields declares the children of an Object field. An Object field
	// without Fields is free-form.
	Fields map[string]*Field

	// AllowUndeclared keeps children of an Object field that are absent
	// from Fields.
	AllowUndeclared bool
}

func (f *Field) clone() *Field {
	c := *f
	if f.Default.IsSet() && !f.Default.IsComputed() {
		c.Default = Literal(copyValue(f.Default.literal))
	}
	if f.Fields != nil {
		c.Fields = make(map[string]*Field, len(f.Fields))
		for name, child := range f.Fields {
			if child == nil {
				c.Fields[name] = nil
				continue
			}
			c.Fields[name] = child.clone()
		}
	}
	return &c
}

func (f *Field) isObjectWithFields() bool {
	return f.Kind == KindObject && f.Fields != nil
}
