// Package stream decodes DynamoDB Streams records into schema documents and
// hands them to a callback. Handler.Handle and Handler.HandleBatch are
// designed to be used as AWS Lambda handlers.
package stream

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/jacentio/dynamodel/schema"
	"github.com/jacentio/dynamodel/store"
)

// Stream event names.
const (
	EventInsert = "INSERT"
	EventModify = "MODIFY"
	EventRemove = "REMOVE"
)

// Change is a decoded stream record. Old is nil for inserts and New is nil
// for removes, as are both when the stream view type omits them.
type Change struct {
	EventID        string
	EventName      string
	SequenceNumber string
	Keys           schema.Document
	Old            schema.Document
	New            schema.Document
}

// Func processes one decoded change.
type Func func(ctx context.Context, c Change) error

// Handler converts stream records for one model.
type Handler struct {
	schema *schema.Schema
	fn     Func
	events map[string]bool
	logger *zap.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger used for record failures.
func WithLogger(l *zap.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithEvents restricts the handler to the named event types. Records of other
// types are skipped.
func WithEvents(names ...string) Option {
	return func(h *Handler) {
		h.events = make(map[string]bool, len(names))
		for _, n := range names {
			h.events[n] = true
		}
	}
}

// NewHandler creates a handler that decodes images through s and calls fn for
// every change. A nil schema skips virtual getters.
func NewHandler(s *schema.Schema, fn Func, opts ...Option) (*Handler, error) {
	if fn == nil {
		return nil, errors.New("dynamodel: stream handler func is required")
	}
	h := &Handler{
		schema: s,
		fn:     fn,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// ForModel creates a handler that decodes images through m's schema.
func ForModel(m *store.Model, fn Func, opts ...Option) (*Handler, error) {
	return NewHandler(m.Schema(), fn, opts...)
}

// Handle processes the records in order and stops at the first failure, so
// the whole batch is retried.
func (h *Handler) Handle(ctx context.Context, event events.DynamoDBEvent) error {
	for _, record := range event.Records {
		if err := h.processRecord(ctx, record); err != nil {
			h.logger.Error("failed to process record",
				zap.String("eventID", record.EventID),
				zap.String("eventName", record.EventName),
				zap.Error(err),
			)
			return err
		}
	}
	return nil
}

// HandleBatch processes the records in order and reports the first failed
// record as a batch item failure. Records after it are not processed; Lambda
// retries from the reported sequence number.
func (h *Handler) HandleBatch(ctx context.Context, event events.DynamoDBEvent) (events.DynamoDBEventResponse, error) {
	var resp events.DynamoDBEventResponse
	for _, record := range event.Records {
		if err := h.processRecord(ctx, record); err != nil {
			h.logger.Error("failed to process record",
				zap.String("eventID", record.EventID),
				zap.String("sequenceNumber", record.Change.SequenceNumber),
				zap.Error(err),
			)
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.DynamoDBBatchItemFailure{
				ItemIdentifier: record.Change.SequenceNumber,
			})
			break
		}
	}
	return resp, nil
}

func (h *Handler) processRecord(ctx context.Context, record events.DynamoDBEventRecord) error {
	if h.events != nil && !h.events[record.EventName] {
		return nil
	}

	change, err := h.Decode(record)
	if err != nil {
		return err
	}
	return h.fn(ctx, change)
}

// Decode converts a stream record into a Change. Virtual getters are applied
// to the old and new images, not to the keys.
func (h *Handler) Decode(record events.DynamoDBEventRecord) (Change, error) {
	change := Change{
		EventID:        record.EventID,
		EventName:      record.EventName,
		SequenceNumber: record.Change.SequenceNumber,
	}

	var err error
	if change.Keys, err = h.decodeImage(record.Change.Keys, false); err != nil {
		return Change{}, fmt.Errorf("keys: %w", err)
	}
	if change.Old, err = h.decodeImage(record.Change.OldImage, true); err != nil {
		return Change{}, fmt.Errorf("old image: %w", err)
	}
	if change.New, err = h.decodeImage(record.Change.NewImage, true); err != nil {
		return Change{}, fmt.Errorf("new image: %w", err)
	}
	return change, nil
}

func (h *Handler) decodeImage(image map[string]events.DynamoDBAttributeValue, getters bool) (schema.Document, error) {
	if len(image) == 0 {
		return nil, nil
	}
	item, err := ConvertImage(image)
	if err != nil {
		return nil, err
	}
	doc, err := store.DecodeItem(item)
	if err != nil {
		return nil, err
	}
	if getters && h.schema != nil {
		if err := h.schema.ApplyVirtualGetters(doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}
