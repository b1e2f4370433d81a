// Package id generates the prefixed identifiers used across the server,
// e.g. "post-7hW3nQx0RZtYv4K9TmBfJ".
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// alphabet excludes "-" so the prefix separator stays unambiguous when an
// ID is split on the first hyphen.
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ_abcdefghijklmnopqrstuvwxyz"

// size is the random portion length. 21 characters over a 64-symbol
// alphabet gives 126 bits, on par with a UUID at nearly half the width.
const size = 21

// Generate creates a prefixed unique ID.
// Returns an error only when the system cannot supply secure randomness.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.Generate(alphabet, size)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics on failure. For initialization
// paths and tests where a missing entropy source should crash the program.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}
