package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrSchemaDefinition is returned for schemas that are authored incorrectly.
	ErrSchemaDefinition = errors.New("dynamodel: invalid schema definition")

	// ErrValidation is returned when a document does not satisfy its schema.
	ErrValidation = errors.New("dynamodel: document validation failed")
)

// DefinitionError describes a schema authoring mistake.
type DefinitionError struct {
	// Field is the dotted path of the offending field, if any.
	Field  string
	Reason string
}

func (e *DefinitionError) Error() string {
	if e.Field == "" {
		return "dynamodel: schema: " + e.Reason
	}
	return fmt.Sprintf("dynamodel: schema field %q: %s", e.Field, e.Reason)
}

func (e *DefinitionError) Unwrap() error { return ErrSchemaDefinition }

// Rule names the constraint a ValidationError reports.
type Rule string

// Validation rules.
const (
	RuleRequired  Rule = "required"
	RuleEnum      Rule = "enum"
	RuleMin       Rule = "min"
	RuleMax       Rule = "max"
	RuleMinLength Rule = "minLength"
	RuleMaxLength Rule = "maxLength"
)

// ValidationError reports a document that violates a field constraint.
type ValidationError struct {
	// Path is the dotted path of the failing field. Empty for RuleRequired,
	// which lists every failing path in Missing.
	Path   string
	Rule   Rule
	Reason string

	// Allowed holds the permitted values for RuleEnum.
	Allowed []any

	// Missing holds every absent required path for RuleRequired.
	Missing []string
}

func (e *ValidationError) Error() string { return "dynamodel: " + e.Reason }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// TypeError reports a value whose inferred kind differs from the declared one.
type TypeError struct {
	Path     string
	Expected Kind
	Actual   Kind
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("dynamodel: invalid type for %q: expected %s, received %s", e.Path, e.Expected, e.Actual)
}

func (e *TypeError) Unwrap() error { return ErrValidation }
