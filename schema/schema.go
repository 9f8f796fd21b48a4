package schema

import (
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/dynamodel/internal/attrpath"
)

// VirtualFunc computes a virtual field from a document.
type VirtualFunc func(self Document) (any, error)

// Schema is an immutable, validated field tree with its partition key and
// virtual fields.
type Schema struct {
	fields       map[string]*Field
	partitionKey string

	getters map[string]VirtualFunc
	setters map[string]VirtualFunc

	attributeDefinitions []types.AttributeDefinition
	keySchema            []types.KeySchemaElement
}

// Option configures a Schema under construction.
type Option func(*Schema) error

// WithVirtualGetter registers a read-only field computed when documents are
// fetched.
func WithVirtualGetter(name string, fn VirtualFunc) Option {
	return func(s *Schema) error {
		if err := s.checkVirtual(name, fn); err != nil {
			return err
		}
		s.getters[name] = fn
		return nil
	}
}

// WithVirtualSetter registers a field computed when documents are created
// and persisted with them.
func WithVirtualSetter(name string, fn VirtualFunc) Option {
	return func(s *Schema) error {
		if err := s.checkVirtual(name, fn); err != nil {
			return err
		}
		s.setters[name] = fn
		return nil
	}
}

// New validates fields and builds a Schema. The field tree is copied, so
// later changes to fields do not affect the Schema.
func New(fields map[string]*Field, opts ...Option) (*Schema, error) {
	s := &Schema{
		fields:  make(map[string]*Field, len(fields)),
		getters: make(map[string]VirtualFunc),
		setters: make(map[string]VirtualFunc),
	}

	for _, name := range sortedKeys(fields) {
		if fields[name] == nil {
			return nil, &DefinitionError{Field: name, Reason: "field definition is nil"}
		}
		s.fields[name] = fields[name].clone()
	}

	if err := s.parse(s.fields, ""); err != nil {
		return nil, err
	}
	if s.partitionKey == "" {
		return nil, &DefinitionError{Reason: "a partition key is required on one field"}
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// parse validates one level of the tree and recurses into object fields.
func (s *Schema) parse(fields map[string]*Field, prefix string) error {
	for _, name := range sortedKeys(fields) {
		f := fields[name]
		path := attrpath.Join(prefix, name)

		if name == "" {
			return &DefinitionError{Field: prefix, Reason: "field name is empty"}
		}
		if f == nil {
			return &DefinitionError{Field: path, Reason: "field definition is nil"}
		}
		if !f.Kind.declarable() {
			return &DefinitionError{Field: path, Reason: fmt.Sprintf("unknown type %s", f.Kind)}
		}
		if f.Fields != nil && f.Kind != KindObject {
			return &DefinitionError{Field: path, Reason: "only Object fields may declare child fields"}
		}

		if f.PartitionKey {
			if err := s.setPartitionKey(f, path, prefix == ""); err != nil {
				return err
			}
		}

		if f.Kind == KindObject && f.Fields != nil {
			if err := s.parse(f.Fields, path); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Schema) setPartitionKey(f *Field, path string, topLevel bool) error {
	if s.partitionKey != "" {
		return &DefinitionError{Field: path, Reason: fmt.Sprintf("partition key is already set on field %q", s.partitionKey)}
	}
	if !topLevel {
		return &DefinitionError{Field: path, Reason: "partition key must be a top-level field"}
	}
	attrType, ok := f.Kind.ScalarAttributeType()
	if !ok {
		return &DefinitionError{Field: path, Reason: fmt.Sprintf("partition key must be a String or Number field, got %s", f.Kind)}
	}

	f.Required = Literal(true)
	s.partitionKey = path
	s.attributeDefinitions = append(s.attributeDefinitions, types.AttributeDefinition{
		AttributeName: aws.String(path),
		AttributeType: attrType,
	})
	s.keySchema = append(s.keySchema, types.KeySchemaElement{
		AttributeName: aws.String(path),
		KeyType:       types.KeyTypeHash,
	})
	return nil
}

func (s *Schema) checkVirtual(name string, fn VirtualFunc) error {
	if fn == nil {
		return &DefinitionError{Field: name, Reason: "virtual field function is nil"}
	}
	if name == "" {
		return &DefinitionError{Reason: "virtual field name is empty"}
	}
	if _, ok := s.fields[name]; ok {
		return &DefinitionError{Field: name, Reason: "a declared field can't be virtual, choose another name"}
	}
	return nil
}

// PartitionKey returns the name of the partition key field.
func (s *Schema) PartitionKey() string { return s.partitionKey }

// PartitionKeyKind returns the kind of the partition key field.
func (s *Schema) PartitionKeyKind() Kind { return s.fields[s.partitionKey].Kind }

// Field returns the top-level field definition called name. The returned
// Field must not be modified.
func (s *Schema) Field(name string) (*Field, bool) {
	f, ok := s.fields[name]
	return f, ok
}

// FieldNames returns the sorted top-level field names.
func (s *Schema) FieldNames() []string { return sortedKeys(s.fields) }

// AttributeDefinitions returns the key attribute definitions used to create
// the table.
func (s *Schema) AttributeDefinitions() []types.AttributeDefinition {
	return append([]types.AttributeDefinition(nil), s.attributeDefinitions...)
}

// KeySchema returns the table key schema.
func (s *Schema) KeySchema() []types.KeySchemaElement {
	return append([]types.KeySchemaElement(nil), s.keySchema...)
}

// VirtualGetters returns the sorted names of the registered virtual getters.
func (s *Schema) VirtualGetters() []string { return sortedKeys(s.getters) }

// VirtualSetters returns the sorted names of the registered virtual setters.
func (s *Schema) VirtualSetters() []string { return sortedKeys(s.setters) }

// ApplyVirtualGetters computes the named virtual getters against doc and
// stores the results in doc. With no names every getter is applied; names
// that are not getters are ignored.
func (s *Schema) ApplyVirtualGetters(doc Document, names ...string) error {
	if len(names) == 0 {
		names = s.VirtualGetters()
	}
	for _, name := range names {
		fn, ok := s.getters[name]
		if !ok {
			continue
		}
		v, err := fn(doc)
		if err != nil {
			return fmt.Errorf("virtual getter %q: %w", name, err)
		}
		doc[name] = v
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
