package attrpath

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		want  string
		names map[string]string
	}{
		{"plain", "firstname", "firstname", map[string]string{}},
		{"reserved", "order", "#Safeorder", map[string]string{"#Safeorder": "order"}},
		{"reserved mixed case", "Data", "#SafeData", map[string]string{"#SafeData": "Data"}},
		{"nested", "data.rank", "#Safedata.#Saferank", map[string]string{"#Safedata": "data", "#Saferank": "rank"}},
		{"index", "games[2].status", "games[2].#Safestatus", map[string]string{"#Safestatus": "status"}},
		{"index on reserved", "items[0]", "#Safeitems[0]", map[string]string{"#Safeitems": "items"}},
		{"no reserved segments", "profile.nickname", "profile.nickname", map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, names := Escape(tt.path)
			if got != tt.want {
				t.Errorf("Escape(%q) = %q, want %q", tt.path, got, tt.want)
			}
			if diff := cmp.Diff(tt.names, names); diff != "" {
				t.Errorf("names mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEscape_Idempotent(t *testing.T) {
	paths := []string{"order", "data.last[0]", "a.b[2].c", "comment.size", "#Safeorder"}
	for _, p := range paths {
		once, _ := Escape(p)
		twice, names := Escape(once)
		if once != twice {
			t.Errorf("Escape not idempotent for %q: %q then %q", p, once, twice)
		}
		if len(names) != 0 {
			t.Errorf("re-escaping %q produced substitutions %v", once, names)
		}
	}
}

func TestEscapeInto_SharesMap(t *testing.T) {
	names := map[string]string{"#existing": "x"}
	EscapeInto(names, "order")
	EscapeInto(names, "size")

	want := map[string]string{"#existing": "x", "#Safeorder": "order", "#Safesize": "size"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestIsReserved(t *testing.T) {
	for _, w := range []string{"ORDER", "order", "Status", "ttl", "name"} {
		if !IsReserved(w) {
			t.Errorf("expected %q to be reserved", w)
		}
	}
	for _, w := range []string{"firstname", "rank2", "", "#Safeorder"} {
		if IsReserved(w) {
			t.Errorf("expected %q not to be reserved", w)
		}
	}
}

func TestJoin(t *testing.T) {
	tests := []struct {
		base, key, want string
	}{
		{"", "a", "a"},
		{"a", "b", "a.b"},
		{"a", "[0]", "a[0]"},
		{"a.b", "c", "a.b.c"},
	}
	for _, tt := range tests {
		if got := Join(tt.base, tt.key); got != tt.want {
			t.Errorf("Join(%q, %q) = %q, want %q", tt.base, tt.key, got, tt.want)
		}
	}
	if got := Index("last", 3); got != "last[3]" {
		t.Errorf("Index = %q, want last[3]", got)
	}
}
