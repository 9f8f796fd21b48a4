// Package schema describes document shapes and prepares raw documents for
// storage in DynamoDB.
//
// A [Schema] is built once from a tree of [Field] definitions and is
// immutable afterwards, so a single value can be shared by every operation on
// a model. Exactly one top-level field must be marked as the partition key.
//
// # Literal and computed attributes
//
// Most field attributes are a [Value], which is either a literal or a
// producer function evaluated against the candidate document:
//
//	schema.Field{
//	    Kind:     schema.KindString,
//	    Enum:     schema.Literal([]any{"F", "M"}),
//	    Required: schema.Computed(func(self schema.Document) (bool, error) {
//	        return self["isNew"] == true, nil
//	    }),
//	}
//
// Producers always receive the original top-level document handed to
// [Schema.Prepare], never a nested sub-document or a partially transformed
// copy.
//
// # Preparation pipeline
//
// [Schema.Prepare] runs, in order: default filling, string transforms
// (trim, lowercase, uppercase, capitalize), custom setters, virtual setters,
// the required check, the type check, the enum check, length and range
// checks, and finally removal of undeclared fields.
//
// # Errors
//
//   - [ErrSchemaDefinition] - the schema itself is wrong ([DefinitionError])
//   - [ErrValidation] - a document violates the schema ([ValidationError], [TypeError])
package schema
