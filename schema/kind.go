package schema

import (
	"encoding/json"
	"reflect"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Kind is the storage type of a field.
type Kind int

// Field kinds. KindNull only describes document values; it cannot be declared.
const (
	KindInvalid Kind = iota
	KindString
	KindNumber
	KindBoolean
	KindObject
	KindList
	KindStringSet
	KindNumberSet
	KindNull
)

var kindTokens = map[string]Kind{
	"S": KindString, "String": KindString, "string": KindString,
	"N": KindNumber, "Number": KindNumber, "number": KindNumber,
	"BOOL": KindBoolean, "Boolean": KindBoolean, "boolean": KindBoolean,
	"M": KindObject, "Object": KindObject, "object": KindObject,
	"L": KindList, "List": KindList, "list": KindList, "Array": KindList, "array": KindList,
	"SS": KindStringSet, "StringSet": KindStringSet,
	"NS": KindNumberSet, "NumberSet": KindNumberSet,
}

// ParseKind maps a type token such as "String" or "N" to its Kind.
func ParseKind(token string) (Kind, error) {
	k, ok := kindTokens[token]
	if !ok {
		return KindInvalid, &DefinitionError{Reason: "unknown type " + token}
	}
	return k, nil
}

// String returns the DynamoDB type descriptor for the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "S"
	case KindNumber:
		return "N"
	case KindBoolean:
		return "BOOL"
	case KindObject:
		return "M"
	case KindList:
		return "L"
	case KindStringSet:
		return "SS"
	case KindNumberSet:
		return "NS"
	case KindNull:
		return "NULL"
	default:
		return "invalid"
	}
}

func (k Kind) declarable() bool {
	return k >= KindString && k <= KindNumberSet
}

// ScalarAttributeType returns the key attribute type for kinds usable as
// table keys.
func (k Kind) ScalarAttributeType() (types.ScalarAttributeType, bool) {
	switch k {
	case KindString:
		return types.ScalarAttributeTypeS, true
	case KindNumber:
		return types.ScalarAttributeTypeN, true
	default:
		return "", false
	}
}

// KindOf infers the storage kind of a document value.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case string:
		return KindString
	case bool:
		return KindBoolean
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return KindNumber
	case map[string]any:
		return KindObject
	case StringSet:
		return KindStringSet
	case NumberSet:
		return KindNumberSet
	case []any, []string, []float64, []int, []bool, []map[string]any:
		return KindList
	}

	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Slice, reflect.Array:
		return KindList
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return KindObject
		}
	}
	return KindInvalid
}

// toFloat converts numeric document values to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
