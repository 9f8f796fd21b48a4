// Package expr compiles the document DSLs used by dynamodel into DynamoDB
// expression strings.
//
// Three languages are supported:
//
//   - the operator DSL ($set, $push, $incr, ...) compiled to an
//     UpdateExpression by [Builder.Update];
//   - the boolean DSL ($and, $or, $gt, ...) parsed into a [Condition] tree by
//     [ParseCondition] and rendered to a ConditionExpression;
//   - the select DSL ({"name:alias": true}) flattened into a
//     ProjectionExpression by [ProjectionPaths], with [ApplyAlias] reshaping
//     the fetched document.
//
// A [Builder] owns one [Attributes] namespace so that the update,
// condition and projection compiled for a single request share
// ExpressionAttributeNames and ExpressionAttributeValues without placeholder
// collisions. Map keys are visited in sorted order, so output is
// deterministic.
package expr
