package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/listenupapp/readinglog-server/internal/domain"
)

// Search limits.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params configures a search.
type Params struct {
	Query  string // User's search query
	Status string // Optional exact status filter
	Limit  int
}

// Result is the ranked list of matching books.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"tookMs"`
	Hits   []Hit  `json:"hits"`
}

// Hit is one matching book with its relevance score.
type Hit struct {
	Score      float64           `json:"score"`
	Book       domain.Book       `json:"book"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// Search executes a query against the index. Results are ordered by score,
// ties by insertion order.
func (s *BookIndex) Search(ctx context.Context, params Params) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := params.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	req := bleve.NewSearchRequestOptions(buildSearchQuery(params), limit, 0, false)
	req.SortBy([]string{"-_score", "position"})
	req.Highlight = bleve.NewHighlight()
	req.Highlight.AddField("title")
	req.Highlight.AddField("author")

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &Result{
		Query:  params.Query,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(res.Hits)),
	}
	for _, hit := range res.Hits {
		book, ok := s.books[hit.ID]
		if !ok {
			continue
		}
		h := Hit{Score: hit.Score, Book: book}
		if len(hit.Fragments) > 0 {
			h.Highlights = make(map[string]string, len(hit.Fragments))
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					h.Highlights[field] = fragments[0]
				}
			}
		}
		result.Hits = append(result.Hits, h)
	}

	return result, nil
}

// buildSearchQuery constructs the Bleve query from params.
func buildSearchQuery(params Params) query.Query {
	var queries []query.Query

	if q := strings.TrimSpace(params.Query); q != "" {
		titleMatch := bleve.NewMatchQuery(q)
		titleMatch.SetField("title")
		titleMatch.SetBoost(3.0)

		authorMatch := bleve.NewMatchQuery(q)
		authorMatch.SetField("author")
		authorMatch.SetBoost(2.0)

		genreMatch := bleve.NewMatchQuery(q)
		genreMatch.SetField("genre")
		genreMatch.SetBoost(1.0)

		notesMatch := bleve.NewMatchQuery(q)
		notesMatch.SetField("notes")
		notesMatch.SetBoost(0.5)

		// Add fuzzy matching for typo tolerance on title
		fuzzy := bleve.NewFuzzyQuery(strings.ToLower(q))
		fuzzy.SetFuzziness(1)
		fuzzy.SetField("title")
		fuzzy.SetBoost(0.8)

		textQueries := []query.Query{titleMatch, authorMatch, genreMatch, notesMatch, fuzzy}

		// Prefix query for autocomplete (minimum 2 chars)
		if len(q) >= 2 && !strings.ContainsRune(q, ' ') {
			prefix := bleve.NewPrefixQuery(strings.ToLower(q))
			prefix.SetField("title")
			prefix.SetBoost(0.5)
			textQueries = append(textQueries, prefix)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if status := strings.TrimSpace(params.Status); status != "" {
		tq := bleve.NewTermQuery(status)
		tq.SetField("status")
		queries = append(queries, tq)
	}

	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}

// SearchBooks builds a throwaway index over books and runs one query.
func SearchBooks(ctx context.Context, books []domain.Book, params Params, opts Options) (*Result, error) {
	index, err := NewBookIndex(books, opts)
	if err != nil {
		return nil, err
	}
	defer index.Close()

	return index.Search(ctx, params)
}
