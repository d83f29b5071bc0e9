package store

import (
	"context"
	"errors"
)

// ErrNoDocument is returned by a Backend when a tenant has never been written.
var ErrNoDocument = errors.New("no document")

// Backend persists opaque document bytes keyed by normalized tenant id.
// Implementations must make Write atomic: a concurrent or crashed Write never
// leaves a partially written document behind.
type Backend interface {
	// Name identifies the backend in logs.
	Name() string
	// Read returns the stored bytes, or ErrNoDocument.
	Read(ctx context.Context, tenant string) ([]byte, error)
	// Write replaces the stored bytes.
	Write(ctx context.Context, tenant string, data []byte) error
	// Delete removes the document. Deleting a missing document is not an error.
	Delete(ctx context.Context, tenant string) error
	// Tenants lists the tenants that have a stored document.
	Tenants(ctx context.Context) ([]string, error)
	// Ping checks the backend is usable.
	Ping(ctx context.Context) error
	// Close releases the backend.
	Close() error
}
