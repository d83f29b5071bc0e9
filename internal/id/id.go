// Package id generates the identifiers stored inside tenant documents.
package id

import (
	"fmt"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// BookPrefix prefixes every generated book identifier.
const BookPrefix = "book"

// Generate creates a prefixed unique ID using NanoID.
// Format: prefix-nanoid (e.g., "book-V1StGXR8_Z5jdHi6B-myT").
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	nid, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + nid, nil
}

// NewBookID returns a fresh book identifier.
func NewBookID() (string, error) {
	return Generate(BookPrefix)
}

// NewUserID returns a random UUID for a tenant's user record.
func NewUserID() string {
	return uuid.NewString()
}
