package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// TableCache remembers the table names known to exist. It is filled from
// ListTables the first time a Model bootstraps its table and is shared by
// every Model given the same cache. Safe for concurrent use.
type TableCache struct {
	mu     sync.RWMutex
	loaded bool
	names  map[string]struct{}
}

// NewTableCache returns an empty, unloaded cache.
func NewTableCache() *TableCache {
	return &TableCache{names: make(map[string]struct{})}
}

// Has reports whether name is known to exist.
func (c *TableCache) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.names[name]
	return ok
}

// Add records name as existing.
func (c *TableCache) Add(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names[name] = struct{}{}
}

// Names returns the known table names in sorted order.
func (c *TableCache) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.names))
	for n := range c.names {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Invalidate forgets every name; the next bootstrap lists tables again.
func (c *TableCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	c.names = make(map[string]struct{})
}

// load lists the account's tables once. Later calls are no-ops until
// Invalidate.
func (c *TableCache) load(ctx context.Context, client API) error {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if loaded {
		return nil
	}

	var names []string
	paginator := dynamodb.NewListTablesPaginator(client, &dynamodb.ListTablesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return err
		}
		names = append(names, page.TableNames...)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range names {
		c.names[n] = struct{}{}
	}
	c.loaded = true
	return nil
}

// EnsureTable makes sure the model's table exists. Known tables are
// described; missing tables are created from the schema's key definitions
// when Config.CreateIfMissing is set. A ListTables failure is logged and the
// table is described directly instead.
func (m *Model) EnsureTable(ctx context.Context) (*types.TableDescription, error) {
	if err := m.tables.load(ctx, m.client); err != nil {
		m.logger.Warn("failed to list tables", zap.String("model", m.name), zap.Error(err))
	} else if !m.tables.Has(m.name) {
		return m.createTable(ctx)
	}

	desc, err := m.describeTable(ctx)
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return m.createTable(ctx)
		}
		return nil, err
	}
	return desc, nil
}

func (m *Model) describeTable(ctx context.Context) (*types.TableDescription, error) {
	out, err := m.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(m.name),
	})
	if err != nil {
		return nil, fmt.Errorf("describe table %s: %w", m.name, err)
	}

	m.tables.Add(m.name)
	m.logger.Debug("table described",
		zap.String("table", m.name),
		zap.String("status", string(out.Table.TableStatus)),
	)
	return out.Table, nil
}

func (m *Model) createTable(ctx context.Context) (*types.TableDescription, error) {
	if !m.config.CreateIfMissing {
		return nil, fmt.Errorf("table %s: %w", m.name, ErrNotFound)
	}

	input := &dynamodb.CreateTableInput{
		TableName:            aws.String(m.name),
		AttributeDefinitions: m.schema.AttributeDefinitions(),
		KeySchema:            m.schema.KeySchema(),
		BillingMode:          m.config.BillingMode,
	}
	if m.config.BillingMode == types.BillingModeProvisioned {
		input.ProvisionedThroughput = &types.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(m.config.ReadCapacityUnits),
			WriteCapacityUnits: aws.Int64(m.config.WriteCapacityUnits),
		}
	}

	out, err := m.client.CreateTable(ctx, input)
	if err != nil {
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			return m.describeTable(ctx)
		}
		return nil, fmt.Errorf("create table %s: %w", m.name, err)
	}

	m.tables.Add(m.name)
	m.logger.Info("table created",
		zap.String("table", m.name),
		zap.String("billingMode", string(m.config.BillingMode)),
	)
	return out.TableDescription, nil
}
