package expr_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jacentio/dynamodel/expr"
)

func TestParseCondition_Or(t *testing.T) {
	got, err := expr.ParseCondition(map[string]any{
		"$or": []any{
			map[string]any{"firstname": "x"},
			map[string]any{"age": map[string]any{"$gt": 10}},
		},
	})
	if err != nil {
		t.Fatalf("ParseCondition: %v", err)
	}

	want := expr.Or{Conditions: []expr.Condition{
		expr.Comparison{Path: "firstname", Comparator: expr.Equals, Value: "x"},
		expr.Comparison{Path: "age", Comparator: expr.GreaterThan, Value: 10},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("condition mismatch (-want +got):\n%s", diff)
	}

	s, err := expr.RenderCondition(got, expr.NewAttributes())
	if err != nil {
		t.Fatalf("RenderCondition: %v", err)
	}
	if s != "(firstname = :val0) OR (age > :val1)" {
		t.Errorf("unexpected expression %q", s)
	}
}

func TestParseCondition_ImplicitAnd(t *testing.T) {
	got, err := expr.ParseCondition(map[string]any{
		"email": "a@b.io",
		"age":   map[string]any{"$gte": 18, "$lt": 65},
	})
	if err != nil {
		t.Fatalf("ParseCondition: %v", err)
	}

	want := expr.And{Conditions: []expr.Condition{
		expr.And{Conditions: []expr.Condition{
			expr.Comparison{Path: "age", Comparator: expr.GreaterThanOrEqual, Value: 18},
			expr.Comparison{Path: "age", Comparator: expr.LessThan, Value: 65},
		}},
		expr.Comparison{Path: "email", Comparator: expr.Equals, Value: "a@b.io"},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("condition mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_Condition(t *testing.T) {
	tests := []struct {
		name  string
		doc   map[string]any
		want  string
		names map[string]string
	}{
		{
			name: "implicit and on one path",
			doc:  map[string]any{"age": map[string]any{"$gte": 18, "$lt": 65}},
			want: "(age >= :val0) AND (age < :val1)",
		},
		{
			name: "not exists",
			doc:  map[string]any{"$not": map[string]any{"email": map[string]any{"$exists": true}}},
			want: "NOT (attribute_exists(email))",
		},
		{
			name: "exists false",
			doc:  map[string]any{"email": map[string]any{"$exists": false}},
			want: "attribute_not_exists(email)",
		},
		{
			name: "between",
			doc:  map[string]any{"age": map[string]any{"$between": []int{18, 65}}},
			want: "age BETWEEN :val0 AND :val1",
		},
		{
			name:  "in with reserved path",
			doc:   map[string]any{"status": map[string]any{"$in": []any{"active", "paused"}}},
			want:  "#Safestatus IN (:val0, :val1)",
			names: map[string]string{"#Safestatus": "status"},
		},
		{
			name: "starts with",
			doc:  map[string]any{"email": map[string]any{"$startsWith": "admin"}},
			want: "begins_with(email, :val0)",
		},
		{
			name: "includes",
			doc:  map[string]any{"tags": map[string]any{"$includes": "go"}},
			want: "contains(tags, :val0)",
		},
		{
			name: "type",
			doc:  map[string]any{"tags": map[string]any{"$type": "L"}},
			want: "attribute_type(tags, :val0)",
		},
		{
			name: "nested path",
			doc:  map[string]any{"profile": map[string]any{"address": map[string]any{"city": "Lyon"}}},
			want: "profile.address.city = :val0",
		},
		{
			name: "list index path",
			doc:  map[string]any{"games": map[string]any{"[0]": map[string]any{"$neq": "x"}}},
			want: "games[0] <> :val0",
		},
		{
			name: "and inside path",
			doc: map[string]any{"age": map[string]any{"$and": []any{
				map[string]any{"$gt": 1},
				map[string]any{"$lte": 5},
			}}},
			want: "(age > :val0) AND (age <= :val1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := expr.NewBuilder()
			got, err := b.Condition(tt.doc)
			if err != nil {
				t.Fatalf("Condition: %v", err)
			}
			if got != tt.want {
				t.Errorf("Condition() = %q, want %q", got, tt.want)
			}
			if diff := cmp.Diff(tt.names, b.Attributes().Names()); diff != "" {
				t.Errorf("names mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseCondition_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  map[string]any
		want error
	}{
		{name: "unknown operator", doc: map[string]any{"a": map[string]any{"$size": 1}}, want: expr.ErrUnsupportedOperator},
		{name: "comparison without path", doc: map[string]any{"$gt": 1}, want: expr.ErrInvalidExpression},
		{name: "between one bound", doc: map[string]any{"a": map[string]any{"$between": []any{1}}}, want: expr.ErrInvalidExpression},
		{name: "exists non-boolean", doc: map[string]any{"a": map[string]any{"$exists": "yes"}}, want: expr.ErrInvalidExpression},
		{name: "empty document", doc: map[string]any{}, want: expr.ErrInvalidExpression},
		{name: "empty and", doc: map[string]any{"$and": []any{}}, want: expr.ErrInvalidExpression},
		{name: "or with scalar", doc: map[string]any{"$or": []any{"x"}}, want: expr.ErrInvalidExpression},
		{name: "not with scalar", doc: map[string]any{"$not": 1}, want: expr.ErrInvalidExpression},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := expr.ParseCondition(tt.doc)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestBuilder_SharedNamespace(t *testing.T) {
	b := expr.NewBuilder()
	plan, err := b.Update(map[string]any{"points": map[string]any{"$incr": 1}})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	cond, err := b.Condition(map[string]any{"points": map[string]any{"$lt": 100}})
	if err != nil {
		t.Fatalf("Condition: %v", err)
	}

	if plan.Expression() != "SET points = points + :val0" {
		t.Errorf("unexpected update %q", plan.Expression())
	}
	if cond != "points < :val1" {
		t.Errorf("unexpected condition %q", cond)
	}
	if len(b.Attributes().Values()) != 2 {
		t.Errorf("expected 2 values, got %d", len(b.Attributes().Values()))
	}
}
