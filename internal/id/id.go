// Package id generates short correlation identifiers for outbound requests
// and notifications.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Length is the size of the random part of every identifier.
const Length = 12

// Prefixes used across the client.
const (
	PrefixRequest = "req"
	PrefixToast   = "toast"
)

// Generate creates a prefixed identifier: "req-V1StGXR8_Z5j".
// The random part uses NanoID's URL-safe alphabet.
//
// Returns an error if the system has insufficient entropy.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New(Length)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if generation fails.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// Request returns a new request correlation id, falling back to a fixed
// marker when entropy is unavailable so requests are never blocked on it.
func Request() string {
	id, err := Generate(PrefixRequest)
	if err != nil {
		return PrefixRequest + "-unknown"
	}
	return id
}
