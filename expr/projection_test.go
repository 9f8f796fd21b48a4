package expr_test

import (
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jacentio/dynamodel/expr"
)

func TestProjectionPaths(t *testing.T) {
	got, err := expr.ProjectionPaths(map[string]any{
		"id":            "uuid",
		"data":          map[string]any{"rank": true},
		"skip":          false,
		"name:fullname": true,
	})
	if err != nil {
		t.Fatalf("ProjectionPaths: %v", err)
	}
	if diff := cmp.Diff([]string{"data.rank", "id", "name"}, got); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}

	if _, err := expr.ProjectionPaths(map[string]any{"id": 1}); !errors.Is(err, expr.ErrInvalidExpression) {
		t.Errorf("expected ErrInvalidExpression, got %v", err)
	}
}

func TestBuilder_Projection(t *testing.T) {
	b := expr.NewBuilder()
	got, err := b.Projection(map[string]any{"id": "uuid", "data": map[string]any{"rank": true}})
	if err != nil {
		t.Fatalf("Projection: %v", err)
	}
	if got != "#Safedata.#Saferank,id" {
		t.Errorf("Projection() = %q", got)
	}
	if diff := cmp.Diff(map[string]string{"#Safedata": "data", "#Saferank": "rank"}, b.Attributes().Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_RawProjection(t *testing.T) {
	b := expr.NewBuilder()
	got := b.RawProjection(" id, data.rank ,\torder,,")
	if got != "id,#Safedata.#Saferank,#Safeorder" {
		t.Errorf("RawProjection() = %q", got)
	}
	if b.RawProjection("  ") != "" {
		t.Error("expected empty projection for blank input")
	}
}

func TestApplyAlias(t *testing.T) {
	tests := []struct {
		name string
		doc  map[string]any
		sel  map[string]any
		want map[string]any
	}{
		{
			name: "rename and nested selection",
			doc:  map[string]any{"id": "abc", "data": map[string]any{"rank": 2, "extra": 9}},
			sel:  map[string]any{"id": "uuid", "data": map[string]any{"rank": true}},
			want: map[string]any{"uuid": "abc", "data": map[string]any{"rank": 2}},
		},
		{
			name: "compound key on object",
			doc:  map[string]any{"profile": map[string]any{"bio": "x"}},
			sel:  map[string]any{"profile:p": map[string]any{"bio": "about"}},
			want: map[string]any{"p": map[string]any{"about": "x"}},
		},
		{
			name: "compound key on leaf",
			doc:  map[string]any{"name": "Serena"},
			sel:  map[string]any{"name:fullname": true},
			want: map[string]any{"fullname": "Serena"},
		},
		{
			name: "missing fields skipped",
			doc:  map[string]any{"id": "abc"},
			sel:  map[string]any{"id": true, "data": map[string]any{"rank": true}, "email": "mail"},
			want: map[string]any{"id": "abc"},
		},
		{
			name: "falsy values kept",
			doc:  map[string]any{"count": 0, "active": false},
			sel:  map[string]any{"count": "n", "active": true},
			want: map[string]any{"n": 0, "active": false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := expr.ApplyAlias(tt.doc, tt.sel)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("document mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyAlias_InputNotModified(t *testing.T) {
	doc := map[string]any{"id": "abc", "data": map[string]any{"rank": 2}}
	expr.ApplyAlias(doc, map[string]any{"id": "uuid", "data:d": map[string]any{"rank": "r"}})

	want := map[string]any{"id": "abc", "data": map[string]any{"rank": 2}}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("input modified (-want +got):\n%s", diff)
	}
}

// The leaves requested by a projection are exactly the leaves reshaped by
// ApplyAlias.
func TestProjectionAliasRoundTrip(t *testing.T) {
	sel := map[string]any{
		"id":        "uuid",
		"data:info": map[string]any{"rank": true, "score": "points"},
		"email":     true,
	}
	stored := map[string]any{
		"id":    "abc",
		"data":  map[string]any{"rank": 1, "score": 2},
		"email": "a@b.io",
	}

	paths, err := expr.ProjectionPaths(sel)
	if err != nil {
		t.Fatalf("ProjectionPaths: %v", err)
	}
	out := expr.ApplyAlias(stored, sel)

	if got := countLeaves(out); got != len(paths) {
		t.Errorf("projection requested %d leaves (%s), alias returned %d", len(paths), strings.Join(paths, ","), got)
	}
	want := []string{"data.rank", "data.score", "email", "id"}
	sort.Strings(paths)
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
}

func countLeaves(doc map[string]any) int {
	n := 0
	for _, v := range doc {
		if child, ok := v.(map[string]any); ok {
			n += countLeaves(child)
			continue
		}
		n++
	}
	return n
}

func TestSelectedNames(t *testing.T) {
	got := expr.SelectedNames(map[string]any{"id": true, "fullname:name": true, "skip": false, "data": map[string]any{"rank": true}})
	if diff := cmp.Diff([]string{"data", "fullname", "id"}, got); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}
