package store

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/dynamodel/schema"
)

// DecodeItem converts a DynamoDB item into a Document. String and number
// sets decode to schema.StringSet and schema.NumberSet; numbers decode to
// float64.
func DecodeItem(item map[string]types.AttributeValue) (schema.Document, error) {
	var doc map[string]any
	if err := attributevalue.UnmarshalMap(item, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	if doc == nil {
		doc = make(schema.Document)
	}
	for k, v := range doc {
		doc[k] = normalize(v)
	}
	return doc, nil
}

func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			x[k] = normalize(e)
		}
		return x
	case []any:
		for i, e := range x {
			x[i] = normalize(e)
		}
		return x
	case []string:
		return schema.StringSet(x)
	case []float64:
		return schema.NumberSet(x)
	default:
		return v
	}
}

// removePath deletes the attribute at a dotted path from doc.
func removePath(doc map[string]any, path string) {
	head, rest, nested := strings.Cut(path, ".")
	if !nested {
		delete(doc, head)
		return
	}
	if child, ok := doc[head].(map[string]any); ok {
		removePath(child, rest)
	}
}
