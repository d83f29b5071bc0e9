// Package store persists one JSON document per tenant and serializes
// read-modify-write cycles on it.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/listenupapp/readinglog-server/internal/domain"
	domainerrors "github.com/listenupapp/readinglog-server/internal/errors"
	"github.com/listenupapp/readinglog-server/internal/metrics"
	"github.com/listenupapp/readinglog-server/internal/tenant"
)

// Store loads and saves tenant documents through a Backend.
// Documents are never cached: every operation reads the backend fresh and
// owns its copy until it returns.
type Store struct {
	backend Backend
	logger  *slog.Logger
	metrics *metrics.Metrics
	locks   *tenantLocks
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithMetrics records load/save/reset outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a Store over backend.
func New(backend Backend, logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		backend: backend,
		logger:  logger,
		locks:   newTenantLocks(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend returns the underlying backend.
func (s *Store) Backend() Backend {
	return s.backend
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// Ping checks the backend.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.backend.Ping(ctx); err != nil {
		return domainerrors.Storage(err, "storage backend unavailable")
	}
	return nil
}

// Now returns the store's clock reading, in UTC and truncated to milliseconds
// so it survives a JSON round-trip unchanged.
func (s *Store) Now() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// Load returns the tenant's document, or a fresh empty one if the tenant has
// never been written. The returned copy has lastAccess refreshed in memory
// only.
func (s *Store) Load(ctx context.Context, tenantID string) (*domain.TenantDocument, error) {
	id := tenant.Normalize(tenantID)
	unlock := s.locks.lock(id)
	defer unlock()

	return s.load(ctx, id)
}

// Save persists doc, stamping lastAccess and incrementing totalOperations.
// It returns the stamped document; doc itself is not modified.
func (s *Store) Save(ctx context.Context, tenantID string, doc *domain.TenantDocument) (*domain.TenantDocument, error) {
	id := tenant.Normalize(tenantID)
	unlock := s.locks.lock(id)
	defer unlock()

	return s.save(ctx, id, doc.Clone())
}

// Update runs fn on the tenant's document under the tenant lock and saves the
// result when fn returns nil. When fn fails nothing is written and its error
// is returned unchanged.
func (s *Store) Update(ctx context.Context, tenantID string, fn func(doc *domain.TenantDocument) error) (*domain.TenantDocument, error) {
	id := tenant.Normalize(tenantID)
	unlock := s.locks.lock(id)
	defer unlock()

	doc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(doc); err != nil {
		return nil, err
	}
	return s.save(ctx, id, doc)
}

// View runs fn on the tenant's document under the tenant lock without saving.
func (s *Store) View(ctx context.Context, tenantID string, fn func(doc *domain.TenantDocument) error) error {
	id := tenant.Normalize(tenantID)
	unlock := s.locks.lock(id)
	defer unlock()

	doc, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	return fn(doc)
}

// Reset clears the tenant's books and operation counter, keeping the user
// record and creation time. The reset is persisted without incrementing the
// counter, so the stored totalOperations is exactly zero afterwards.
func (s *Store) Reset(ctx context.Context, tenantID string) (domain.ResetResult, error) {
	id := tenant.Normalize(tenantID)
	unlock := s.locks.lock(id)
	defer unlock()

	start := time.Now()
	result, err := s.reset(ctx, id)
	s.metrics.ObserveStore(metrics.OpReset, start, err)
	if err != nil {
		return domain.ResetResult{}, err
	}

	s.logger.Info("tenant document reset",
		"tenant", id,
		"deleted_books", result.DeletedBooks,
		"previous_operations", result.PreviousOperations,
	)
	return result, nil
}

// Purge deletes the stored document. The next Load yields an empty document.
func (s *Store) Purge(ctx context.Context, tenantID string) error {
	id := tenant.Normalize(tenantID)
	unlock := s.locks.lock(id)
	defer unlock()

	if err := s.backend.Delete(ctx, id); err != nil {
		return domainerrors.Storage(err, "failed to delete document")
	}
	s.logger.Warn("tenant document purged", "tenant", id)
	return nil
}

// Tenants lists the tenants with a stored document.
func (s *Store) Tenants(ctx context.Context) ([]string, error) {
	ids, err := s.backend.Tenants(ctx)
	if err != nil {
		return nil, domainerrors.Storage(err, "failed to list documents")
	}
	return ids, nil
}

func (s *Store) reset(ctx context.Context, id string) (domain.ResetResult, error) {
	doc, err := s.read(ctx, id)
	if err != nil {
		return domain.ResetResult{}, err
	}
	result := doc.Reset(s.Now())
	if err := s.write(ctx, id, doc); err != nil {
		return domain.ResetResult{}, err
	}
	return result, nil
}

func (s *Store) load(ctx context.Context, id string) (doc *domain.TenantDocument, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveStore(metrics.OpLoad, start, err) }()

	doc, err = s.read(ctx, id)
	if err != nil {
		return nil, err
	}
	doc.Metadata.LastAccess = s.Now()
	return doc, nil
}

func (s *Store) save(ctx context.Context, id string, doc *domain.TenantDocument) (_ *domain.TenantDocument, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveStore(metrics.OpSave, start, err) }()

	doc.Metadata.LastAccess = s.Now()
	doc.Metadata.TotalOperations++

	if err = s.write(ctx, id, doc); err != nil {
		return nil, err
	}
	s.logger.Debug("tenant document saved",
		"tenant", id,
		"books", len(doc.Books),
		"total_operations", doc.Metadata.TotalOperations,
	)
	return doc, nil
}

// read fetches and decodes a document; a missing document becomes an empty one.
func (s *Store) read(ctx context.Context, id string) (*domain.TenantDocument, error) {
	data, err := s.backend.Read(ctx, id)
	if errors.Is(err, ErrNoDocument) {
		return domain.NewTenantDocument(s.Now()), nil
	}
	if err != nil {
		s.logger.Error("failed to read tenant document", "tenant", id, "backend", s.backend.Name(), "error", err)
		return nil, domainerrors.Storage(err, "failed to read document")
	}

	doc, err := Decode(data)
	if err != nil {
		s.logger.Error("corrupt tenant document", "tenant", id, "backend", s.backend.Name(), "error", err)
		return nil, domainerrors.Storage(err, "failed to decode document")
	}
	return doc, nil
}

func (s *Store) write(ctx context.Context, id string, doc *domain.TenantDocument) error {
	data, err := Encode(doc)
	if err != nil {
		return domainerrors.Storage(err, "failed to encode document")
	}
	if err := s.backend.Write(ctx, id, data); err != nil {
		s.logger.Error("failed to write tenant document", "tenant", id, "backend", s.backend.Name(), "error", err)
		return domainerrors.Storage(err, "failed to write document")
	}
	s.metrics.SetTenantBooks(id, len(doc.Books))
	return nil
}

// Encode renders a document in the on-disk format: two-space indented JSON
// with a trailing newline.
func Encode(doc *domain.TenantDocument) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a stored document.
func Decode(data []byte) (*domain.TenantDocument, error) {
	var doc domain.TenantDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	if doc.Books == nil {
		doc.Books = []domain.Book{}
	}
	return &doc, nil
}
