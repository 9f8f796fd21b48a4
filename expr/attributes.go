package expr

import (
	"fmt"
	"maps"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/dynamodel/internal/attrpath"
)

// ValuePrefix prefixes every expression attribute value placeholder.
const ValuePrefix = ":val"

// Attributes accumulates the ExpressionAttributeNames and
// ExpressionAttributeValues of one request. Value placeholders are numbered
// from a counter that only increases, so they never collide.
type Attributes struct {
	names  map[string]string
	values map[string]types.AttributeValue
	next   int
}

// NewAttributes returns an empty substitution namespace.
func NewAttributes() *Attributes {
	return &Attributes{
		names:  make(map[string]string),
		values: make(map[string]types.AttributeValue),
	}
}

// Path escapes the reserved segments of path and records the substitutions.
func (a *Attributes) Path(path string) string {
	return attrpath.EscapeInto(a.names, path)
}

// Value binds v to a fresh placeholder and returns the placeholder.
func (a *Attributes) Value(v any) (string, error) {
	av, err := attributevalue.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("dynamodel: marshal expression value: %w", err)
	}
	placeholder := ValuePrefix + strconv.Itoa(a.next)
	a.next++
	a.values[placeholder] = av
	return placeholder, nil
}

// Names returns a copy of the name substitutions, or nil when there are
// none. DynamoDB rejects empty substitution maps.
func (a *Attributes) Names() map[string]string {
	if len(a.names) == 0 {
		return nil
	}
	return maps.Clone(a.names)
}

// Values returns a copy of the value substitutions, or nil when there are
// none.
func (a *Attributes) Values() map[string]types.AttributeValue {
	if len(a.values) == 0 {
		return nil
	}
	return maps.Clone(a.values)
}
