// Package store binds dynamodel schemas to DynamoDB tables.
//
// A [Model] validates documents through its [schema.Schema] before writing
// them and compiles the operator, boolean and select DSLs of package expr
// into DynamoDB requests:
//
//	users, err := store.NewModel(client, "users", s, store.WithLogger(logger))
//	created, err := users.Create(ctx, doc, store.CreateOptions{ReturnCreated: true})
//	user, err := users.Get(ctx, "abc", store.Selection{Select: map[string]any{"id": "uuid"}})
//	updated, err := users.Update(ctx, "abc",
//	    map[string]any{"points": map[string]any{"$incr": 10}},
//	    map[string]any{"points": map[string]any{"$lt": 100}})
//	ok, err := users.Delete(ctx, "abc")
//
// # Tables
//
// [Model.EnsureTable] creates the table from the schema's key definitions
// when it does not exist. Known table names are kept in a [TableCache]
// that callers may share between models with [WithTableCache].
//
// # Errors
//
//   - [ErrNotFound] - no item for the partition key
//   - [ErrAlreadyExists] - Create with IfNotExists found an item
//   - [ErrConditionFailed] - an update condition did not hold
//   - [ErrModelExists] - registry already holds the model name
//   - [ErrInvalidKey] - partition key value of the wrong kind
//
// Validation errors from package schema and expression errors from package
// expr are returned unchanged. DynamoDB service errors are wrapped with the
// failing operation.
package store
