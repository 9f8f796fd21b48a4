package expr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedOperator is returned for unknown $-operators.
	ErrUnsupportedOperator = errors.New("dynamodel: unsupported operator")

	// ErrInvalidExpression is returned when an operator receives an operand
	// of the wrong shape.
	ErrInvalidExpression = errors.New("dynamodel: invalid expression")
)

// UnsupportedOperatorError names an unknown operator and the operators that
// are accepted in its position.
type UnsupportedOperatorError struct {
	Operator  string
	Supported []string
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("dynamodel: unknown operator '%s', allowed operators: %s", e.Operator, strings.Join(e.Supported, ", "))
}

func (e *UnsupportedOperatorError) Unwrap() error { return ErrUnsupportedOperator }

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidExpression, fmt.Sprintf(format, args...))
}
