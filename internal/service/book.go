package service

import (
	"context"
	"log/slog"

	"github.com/listenupapp/readinglog-server/internal/domain"
	"github.com/listenupapp/readinglog-server/internal/library"
	"github.com/listenupapp/readinglog-server/internal/metrics"
	"github.com/listenupapp/readinglog-server/internal/store"
	"github.com/listenupapp/readinglog-server/internal/tenant"
)

// BookService orchestrates book operations for one tenant at a time.
type BookService struct {
	store    *store.Store
	registry *tenant.Registry
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewBookService creates a new book service. m may be nil.
func NewBookService(store *store.Store, registry *tenant.Registry, m *metrics.Metrics, logger *slog.Logger) *BookService {
	return &BookService{
		store:    store,
		registry: registry,
		metrics:  m,
		logger:   logger,
	}
}

// ListParams are the query-string controls of a listing.
type ListParams struct {
	Filter library.Filter
	Sort   library.Sort
	Page   library.Page
}

// ListBooks runs the query engine over the tenant's collection.
// Nothing is persisted.
func (s *BookService) ListBooks(ctx context.Context, tenantToken string, params ListParams) (*library.QueryResult, error) {
	tenantID, err := resolveTenant(s.registry, tenantToken)
	if err != nil {
		return nil, err
	}

	doc, err := s.store.Load(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	s.metrics.SetTenantBooks(tenantID, len(doc.Books))

	result := library.Query(doc.Books, params.Filter, params.Sort, params.Page)
	return &result, nil
}

// GetBook returns a single book by id.
func (s *BookService) GetBook(ctx context.Context, tenantToken, bookID string) (*domain.Book, error) {
	tenantID, err := resolveTenant(s.registry, tenantToken)
	if err != nil {
		return nil, err
	}

	doc, err := s.store.Load(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	book, err := library.FindBook(doc, bookID)
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// CreateBook validates and appends a new book, then persists the document.
func (s *BookService) CreateBook(ctx context.Context, tenantToken string, in domain.NewBook) (*domain.Book, error) {
	tenantID, err := resolveTenant(s.registry, tenantToken)
	if err != nil {
		return nil, err
	}

	var created domain.Book
	doc, err := s.store.Update(ctx, tenantID, func(doc *domain.TenantDocument) error {
		created, err = library.CreateBook(doc, in, s.store.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	s.metrics.SetTenantBooks(tenantID, len(doc.Books))

	s.logger.Info("book created",
		"tenant", tenantID,
		"book_id", created.ID,
		"title", created.Title,
	)
	return &created, nil
}

// UpdateBook applies an allow-listed patch to one book.
// A missing book or an invalid patch leaves the document untouched.
func (s *BookService) UpdateBook(ctx context.Context, tenantToken, bookID string, patch domain.BookPatch) (*domain.Book, error) {
	tenantID, err := resolveTenant(s.registry, tenantToken)
	if err != nil {
		return nil, err
	}

	var updated domain.Book
	_, err = s.store.Update(ctx, tenantID, func(doc *domain.TenantDocument) error {
		updated, err = library.UpdateBook(doc, bookID, patch, s.store.Now())
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("book updated",
		"tenant", tenantID,
		"book_id", bookID,
		"fields", patch.Fields(),
	)
	return &updated, nil
}

// DeleteBook removes one book and returns its reference.
func (s *BookService) DeleteBook(ctx context.Context, tenantToken, bookID string) (*domain.BookRef, error) {
	tenantID, err := resolveTenant(s.registry, tenantToken)
	if err != nil {
		return nil, err
	}

	var ref domain.BookRef
	doc, err := s.store.Update(ctx, tenantID, func(doc *domain.TenantDocument) error {
		ref, err = library.DeleteBook(doc, bookID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.metrics.SetTenantBooks(tenantID, len(doc.Books))

	s.logger.Info("book deleted", "tenant", tenantID, "book_id", bookID)
	return &ref, nil
}
