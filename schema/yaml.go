package schema

import (
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Definition is the serialisable form of a schema.
//
//	fields:
//	  id: {type: String, partitionKey: true, generate: uuid}
//	  age: {type: Number, min: 18, max: 95}
//	  last: Number
type Definition struct {
	Fields map[string]FieldDefinition `yaml:"fields"`
}

// FieldDefinition is the serialisable form of a Field. A bare scalar such as
// "Number" is shorthand for a definition with only a type.
type FieldDefinition struct {
	Type            string                     `yaml:"type"`
	PartitionKey    bool                       `yaml:"partitionKey"`
	Required        bool                       `yaml:"required"`
	Default         any                        `yaml:"default"`
	Generate        string                     `yaml:"generate"`
	Enum            []any                      `yaml:"enum"`
	Min             *float64                   `yaml:"min"`
	Max             *float64                   `yaml:"max"`
	MinLength       *int                       `yaml:"minLength"`
	MaxLength       *int                       `yaml:"maxLength"`
	Trim            bool                       `yaml:"trim"`
	Lowercase       bool                       `yaml:"lowercase"`
	Uppercase       bool                       `yaml:"uppercase"`
	Capitalize      bool                       `yaml:"capitalize"`
	AllowUndeclared bool                       `yaml:"allowUndeclared"`
	Fields          map[string]FieldDefinition `yaml:"fields"`
}

// UnmarshalYAML accepts both the mapping form and the bare type shorthand.
func (d *FieldDefinition) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		d.Type = node.Value
		return nil
	}
	type plain FieldDefinition
	return node.Decode((*plain)(d))
}

// ParseYAML decodes a YAML schema document and builds the Schema.
func ParseYAML(data []byte, opts ...Option) (*Schema, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("dynamodel: parse schema: %w", err)
	}
	return def.Build(opts...)
}

// Build converts the definition into a Schema.
func (d Definition) Build(opts ...Option) (*Schema, error) {
	fields, err := buildFields(d.Fields, "")
	if err != nil {
		return nil, err
	}
	return New(fields, opts...)
}

func buildFields(defs map[string]FieldDefinition, prefix string) (map[string]*Field, error) {
	fields := make(map[string]*Field, len(defs))
	for name, def := range defs {
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		f, err := def.field(path)
		if err != nil {
			return nil, err
		}
		fields[name] = f
	}
	return fields, nil
}

func (d FieldDefinition) field(path string) (*Field, error) {
	kind, err := ParseKind(d.Type)
	if err != nil {
		return nil, &DefinitionError{Field: path, Reason: fmt.Sprintf("unknown type %q", d.Type)}
	}

	f := &Field{
		Kind:            kind,
		PartitionKey:    d.PartitionKey,
		AllowUndeclared: d.AllowUndeclared,
	}
	if d.Required {
		f.Required = Literal(true)
	}
	if d.Enum != nil {
		f.Enum = Literal(d.Enum)
	}
	if d.Min != nil {
		f.Min = Literal(*d.Min)
	}
	if d.Max != nil {
		f.Max = Literal(*d.Max)
	}
	if d.MinLength != nil {
		f.MinLength = Literal(*d.MinLength)
	}
	if d.MaxLength != nil {
		f.MaxLength = Literal(*d.MaxLength)
	}
	f.Trim = Literal(d.Trim)
	f.Lowercase = Literal(d.Lowercase)
	f.Uppercase = Literal(d.Uppercase)
	f.Capitalize = Literal(d.Capitalize)

	switch {
	case d.Generate != "" && d.Default != nil:
		return nil, &DefinitionError{Field: path, Reason: "default and generate are mutually exclusive"}
	case d.Generate != "":
		gen, err := generator(d.Generate)
		if err != nil {
			return nil, &DefinitionError{Field: path, Reason: err.Error()}
		}
		f.Default = Computed(gen)
	case d.Default != nil:
		f.Default = Literal(d.Default)
	}

	if d.Fields != nil {
		children, err := buildFields(d.Fields, path)
		if err != nil {
			return nil, err
		}
		f.Fields = children
	}
	return f, nil
}

func generator(name string) (func(Document) (any, error), error) {
	switch name {
	case "uuid":
		return func(Document) (any, error) { return uuid.NewString(), nil }, nil
	default:
		return nil, fmt.Errorf("unknown generator %q", name)
	}
}
