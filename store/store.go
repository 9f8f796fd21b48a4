package store

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsmiddleware "github.com/aws/aws-sdk-go-v2/aws/middleware"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"go.uber.org/zap"

	"github.com/jacentio/dynamodel/expr"
	"github.com/jacentio/dynamodel/schema"
)

// Model binds a Schema to the DynamoDB table of the same name.
type Model struct {
	name    string
	schema  *schema.Schema
	client  API
	config  Config
	tables  *TableCache
	logger  *zap.Logger
	metrics *Metrics
}

// Option configures a Model.
type Option func(*Model)

// WithConfig overrides DefaultConfig.
func WithConfig(cfg Config) Option {
	return func(m *Model) { m.config = cfg }
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(l *zap.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// WithTableCache shares a table-name cache between models. Without it each
// Model gets its own.
func WithTableCache(c *TableCache) Option {
	return func(m *Model) { m.tables = c }
}

// WithMetrics records operation metrics.
func WithMetrics(mt *Metrics) Option {
	return func(m *Model) { m.metrics = mt }
}

// NewModel creates a Model for the table name described by s.
func NewModel(client API, name string, s *schema.Schema, opts ...Option) (*Model, error) {
	if client == nil {
		return nil, errors.New("dynamodel: model client is nil")
	}
	if name == "" {
		return nil, errors.New("dynamodel: model name is empty")
	}
	if s == nil {
		return nil, fmt.Errorf("dynamodel: model %q has no schema", name)
	}

	m := &Model{
		name:   name,
		schema: s,
		client: client,
		config: DefaultConfig(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.config.validate()
	if m.tables == nil {
		m.tables = NewTableCache()
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	return m, nil
}

// Name returns the table name.
func (m *Model) Name() string { return m.name }

// Schema returns the model's schema.
func (m *Model) Schema() *schema.Schema { return m.schema }

// CreateOptions configures Create.
type CreateOptions struct {
	// ReturnCreated returns the prepared document.
	ReturnCreated bool

	// SkipVirtualSetters leaves virtual setters out of the stored document.
	SkipVirtualSetters bool

	// IfNotExists fails with ErrAlreadyExists instead of replacing an item
	// with the same partition key.
	IfNotExists bool
}

// Create validates doc through the schema and stores it. The prepared
// document is returned when opts.ReturnCreated is set, nil otherwise.
func (m *Model) Create(ctx context.Context, doc schema.Document, opts CreateOptions) (_ schema.Document, err error) {
	defer func(start time.Time) { m.metrics.observe(m.name, "create", start, err) }(time.Now())

	prepared, err := m.schema.Prepare(doc, !opts.SkipVirtualSetters)
	if err != nil {
		return nil, err
	}

	item, err := attributevalue.MarshalMap(prepared)
	if err != nil {
		return nil, fmt.Errorf("marshal item: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(m.name),
		Item:      item,
	}
	if opts.IfNotExists {
		b := expr.NewBuilder()
		cond, err := b.Condition(map[string]any{m.schema.PartitionKey(): map[string]any{"$exists": false}})
		if err != nil {
			return nil, err
		}
		input.ConditionExpression = aws.String(cond)
		input.ExpressionAttributeNames = b.Attributes().Names()
	}

	if _, err = m.client.PutItem(ctx, input); err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("put item: %w", err)
	}

	if opts.ReturnCreated {
		return prepared, nil
	}
	return nil, nil
}

// Selection shapes the document returned by Get.
type Selection struct {
	// Select is a select DSL document. It takes precedence over Projection.
	Select map[string]any

	// Projection is a raw comma-separated projection such as "id, data.rank".
	Projection string

	// Exclude lists dotted paths removed from the returned document.
	Exclude []string
}

// Get fetches the document stored under pk. Virtual getters are applied:
// all of them, or with a Select only those it names. It returns ErrNotFound
// when no item exists.
func (m *Model) Get(ctx context.Context, pk any, sel Selection) (_ schema.Document, err error) {
	defer func(start time.Time) { m.metrics.observe(m.name, "get", start, err) }(time.Now())

	key, err := m.key(pk)
	if err != nil {
		return nil, err
	}

	b := expr.NewBuilder()
	input := &dynamodb.GetItemInput{
		TableName:      aws.String(m.name),
		Key:            key,
		ConsistentRead: aws.Bool(m.config.ConsistentRead),
	}

	var projection string
	switch {
	case len(sel.Select) > 0:
		if projection, err = b.Projection(sel.Select); err != nil {
			return nil, err
		}
	case sel.Projection != "":
		projection = b.RawProjection(sel.Projection)
	}
	if projection != "" {
		input.ProjectionExpression = aws.String(projection)
		input.ExpressionAttributeNames = b.Attributes().Names()
	}

	out, err := m.client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}

	doc, err := DecodeItem(out.Item)
	if err != nil {
		return nil, err
	}

	if len(sel.Select) > 0 {
		if err = m.schema.ApplyVirtualGetters(doc, expr.SelectedNames(sel.Select)...); err != nil {
			return nil, err
		}
		doc = expr.ApplyAlias(doc, sel.Select)
	} else if len(m.schema.VirtualGetters()) > 0 {
		if err = m.schema.ApplyVirtualGetters(doc); err != nil {
			return nil, err
		}
	}

	for _, path := range sel.Exclude {
		removePath(doc, path)
	}
	return doc, nil
}

// Update applies an operator DSL document to the item stored under pk and
// returns the item as it is after the update. A non-nil cond is a boolean
// DSL document that must hold for the update to apply; otherwise
// ErrConditionFailed is returned.
func (m *Model) Update(ctx context.Context, pk any, update, cond map[string]any) (_ schema.Document, err error) {
	defer func(start time.Time) { m.metrics.observe(m.name, "update", start, err) }(time.Now())

	key, err := m.key(pk)
	if err != nil {
		return nil, err
	}

	b := expr.NewBuilder()
	plan, err := b.Update(update)
	if err != nil {
		return nil, err
	}

	input := &dynamodb.UpdateItemInput{
		TableName:        aws.String(m.name),
		Key:              key,
		UpdateExpression: aws.String(plan.Expression()),
		ReturnValues:     types.ReturnValueAllNew,
	}
	if cond != nil {
		c, err := b.Condition(cond)
		if err != nil {
			return nil, err
		}
		input.ConditionExpression = aws.String(c)
	}
	input.ExpressionAttributeNames = b.Attributes().Names()
	input.ExpressionAttributeValues = b.Attributes().Values()

	m.logger.Debug("update item",
		zap.String("table", m.name),
		zap.String("update", aws.ToString(input.UpdateExpression)),
		zap.String("condition", aws.ToString(input.ConditionExpression)),
	)

	out, err := m.client.UpdateItem(ctx, input)
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return nil, ErrConditionFailed
		}
		return nil, fmt.Errorf("update item: %w", err)
	}
	return DecodeItem(out.Attributes)
}

// Delete removes the item stored under pk. It reports whether DynamoDB
// acknowledged the delete with HTTP 200; deleting a missing item succeeds.
func (m *Model) Delete(ctx context.Context, pk any) (_ bool, err error) {
	defer func(start time.Time) { m.metrics.observe(m.name, "delete", start, err) }(time.Now())

	key, err := m.key(pk)
	if err != nil {
		return false, err
	}

	out, err := m.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(m.name),
		Key:       key,
	})
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}

	if resp, ok := awsmiddleware.GetRawResponse(out.ResultMetadata).(*smithyhttp.Response); ok && resp != nil {
		return resp.StatusCode == http.StatusOK, nil
	}
	return true, nil
}

// key builds the primary key for pk after checking its kind.
func (m *Model) key(pk any) (map[string]types.AttributeValue, error) {
	want := m.schema.PartitionKeyKind()
	if got := schema.KindOf(pk); got != want {
		return nil, fmt.Errorf("%w: %s expects %s, received %s", ErrInvalidKey, m.schema.PartitionKey(), want, got)
	}
	av, err := attributevalue.Marshal(pk)
	if err != nil {
		return nil, fmt.Errorf("marshal key: %w", err)
	}
	return map[string]types.AttributeValue{m.schema.PartitionKey(): av}, nil
}
