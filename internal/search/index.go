package search

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/listenupapp/readinglog-server/internal/domain"
)

// BookIndex is an in-memory Bleve index over one tenant's books.
//
// Thread safety: All public methods are safe for concurrent use.
type BookIndex struct {
	index  bleve.Index
	books  map[string]domain.Book
	logger *slog.Logger
	mu     sync.RWMutex
}

// Options configures a BookIndex.
type Options struct {
	Logger *slog.Logger // Logger for operations (uses stderr if nil)
}

// NewBookIndex builds an index over books in a single batch.
func NewBookIndex(books []domain.Book, opts Options) (*BookIndex, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	bi := &BookIndex{
		index:  index,
		books:  make(map[string]domain.Book, len(books)),
		logger: logger,
	}

	batch := index.NewBatch()
	for i := range books {
		b := &books[i]
		if err := batch.Index(b.ID, BookToSearchDocument(b, i)); err != nil {
			_ = index.Close()
			return nil, fmt.Errorf("index book %s: %w", b.ID, err)
		}
		bi.books[b.ID] = *b
	}
	if err := index.Batch(batch); err != nil {
		_ = index.Close()
		return nil, fmt.Errorf("execute batch: %w", err)
	}

	logger.Debug("built book index", "books", len(books))
	return bi, nil
}

// DocumentCount returns the number of indexed books.
func (s *BookIndex) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Close closes the index and releases resources.
func (s *BookIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}
