package schema

import (
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// StringSet is a document value stored as a DynamoDB string set.
type StringSet []string

// MarshalDynamoDBAttributeValue encodes the set as SS. Empty sets are
// stored as NULL since DynamoDB rejects empty sets.
func (s StringSet) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	if len(s) == 0 {
		return &types.AttributeValueMemberNULL{Value: true}, nil
	}
	return &types.AttributeValueMemberSS{Value: append([]string(nil), s...)}, nil
}

// UnmarshalDynamoDBAttributeValue decodes an SS attribute.
func (s *StringSet) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	switch v := av.(type) {
	case *types.AttributeValueMemberSS:
		*s = append(StringSet(nil), v.Value...)
	case *types.AttributeValueMemberNULL:
		*s = nil
	default:
		return fmt.Errorf("dynamodel: cannot decode %T into StringSet", av)
	}
	return nil
}

// NumberSet is a document value stored as a DynamoDB number set.
type NumberSet []float64

// MarshalDynamoDBAttributeValue encodes the set as NS. Empty sets are
// stored as NULL.
func (s NumberSet) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	if len(s) == 0 {
		return &types.AttributeValueMemberNULL{Value: true}, nil
	}
	values := make([]string, len(s))
	for i, n := range s {
		values[i] = strconv.FormatFloat(n, 'f', -1, 64)
	}
	return &types.AttributeValueMemberNS{Value: values}, nil
}

// UnmarshalDynamoDBAttributeValue decodes an NS attribute.
func (s *NumberSet) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	switch v := av.(type) {
	case *types.AttributeValueMemberNS:
		out := make(NumberSet, len(v.Value))
		for i, raw := range v.Value {
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return fmt.Errorf("dynamodel: decode number set: %w", err)
			}
			out[i] = n
		}
		*s = out
	case *types.AttributeValueMemberNULL:
		*s = nil
	default:
		return fmt.Errorf("dynamodel: cannot decode %T into NumberSet", av)
	}
	return nil
}
