package store

import "errors"

var (
	// ErrNotFound is returned when no item exists for the partition key.
	ErrNotFound = errors.New("dynamodel: item not found")

	// ErrAlreadyExists is returned by Create with IfNotExists when an item with
	// the same partition key is already stored.
	ErrAlreadyExists = errors.New("dynamodel: item already exists")

	// ErrConditionFailed is returned when an update condition does not hold.
	ErrConditionFailed = errors.New("dynamodel: condition check failed")

	// ErrModelExists is returned when a model name is registered twice.
	ErrModelExists = errors.New("dynamodel: model is already declared")

	// ErrInvalidKey is returned when a partition key value does not match the
	// kind of the schema's partition key field.
	ErrInvalidKey = errors.New("dynamodel: invalid partition key")
)
