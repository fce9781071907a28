package idgen

import (
	"strings"
	"testing"
)

func TestUUIDv7_Format(t *testing.T) {
	gen := UUIDv7()
	id := gen()
	// UUID format: 8-4-4-4-12
	parts := strings.Split(id, "-")
	if len(parts) != 5 {
		t.Fatalf("UUIDv7: expected 5 parts, got %d in %q", len(parts), id)
	}
	if len(id) != 36 {
		t.Fatalf("UUIDv7: expected length 36, got %d", len(id))
	}
	if id[14] != '7' {
		t.Fatalf("UUIDv7: version nibble %q in %q", id[14], id)
	}
}

func TestUUIDv7_Uniqueness(t *testing.T) {
	gen := UUIDv7()
	seen := make(map[string]struct{}, 100)
	for i := 0; i < 100; i++ {
		id := gen()
		if _, ok := seen[id]; ok {
			t.Fatalf("UUIDv7: duplicate at iteration %d", i)
		}
		seen[id] = struct{}{}
	}
}

func TestPrefixed(t *testing.T) {
	gen := Prefixed("snap_", UUIDv7())
	id := gen()
	if !strings.HasPrefix(id, "snap_") {
		t.Fatalf("Prefixed: expected prefix 'snap_', got %q", id)
	}
	if len(id) != 5+36 {
		t.Fatalf("Prefixed: expected length 41, got %d", len(id))
	}
}

func TestFixed(t *testing.T) {
	gen := Fixed("abc")
	if gen() != "abc" || gen() != "abc" {
		t.Fatal("Fixed: expected constant output")
	}
}

func TestParse(t *testing.T) {
	id := New()
	got, err := Parse(strings.ToUpper(id))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got != id {
		t.Fatalf("Parse: got %q, want %q", got, id)
	}
	if _, err := Parse("not-a-uuid"); err == nil {
		t.Fatal("Parse: expected error for invalid input")
	}
}
