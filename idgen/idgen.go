// CLAUDE:SUMMARY Pluggable ID generation (UUIDv7 default, prefixed and fixed variants) for snapshot identifiers.
// Package idgen provides pluggable ID generation for locscope.
//
// Components that stamp their output (accessibility snapshots, request ids)
// accept a Generator, so tests can swap in a deterministic one.
package idgen

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator produces unique string identifiers.
type Generator func() string

// UUIDv7 returns a Generator that produces RFC 9562 UUID v7 strings.
// Time-sortable and globally unique.
func UUIDv7() Generator {
	return func() string {
		return uuid.Must(uuid.NewV7()).String()
	}
}

// Prefixed wraps a Generator and prepends a fixed prefix to every ID.
// Used for type-scoped identifiers ("snap_", "req_").
func Prefixed(prefix string, gen Generator) Generator {
	return func() string {
		return prefix + gen()
	}
}

// Fixed returns a Generator that always yields id. Tests only.
func Fixed(id string) Generator {
	return func() string { return id }
}

// Default is UUIDv7.
var Default Generator = UUIDv7()

// New produces an ID using the Default generator.
func New() string {
	return Default()
}

// Parse validates a UUID string and returns it in canonical form.
func Parse(s string) (string, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid UUID: %w", err)
	}
	return u.String(), nil
}
