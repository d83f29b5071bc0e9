// Package library implements the query, mutation and aggregation engines
// that operate on a tenant's in-memory book collection.
package library

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/listenupapp/readinglog-server/internal/domain"
)

// Pagination defaults.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Sort directions.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// SortableFields lists the book attributes a query may sort by.
var SortableFields = []string{
	"title", "author", "genre", "year", "pages", "rating",
	"status", "notes", "createdAt", "updatedAt",
}

// Filter narrows the collection. Empty fields are ignored; the rest combine with AND.
type Filter struct {
	Genre  string `json:"genre,omitempty"`
	Status string `json:"status,omitempty"`
	Author string `json:"author,omitempty"`
	// Year matches loosely: the trimmed value must parse as the book's year.
	Year string `json:"year,omitempty"`
	// Rating keeps books rated at least this value.
	Rating *int `json:"rating,omitempty"`
}

// Sort orders the filtered collection.
type Sort struct {
	Field string `json:"sortBy,omitempty"`
	Order string `json:"sortOrder"`
}

// Page selects a window of the sorted collection.
type Page struct {
	Number int
	Size   int
}

// normalize applies defaults.
func (p Page) normalize() Page {
	if p.Number < 1 {
		p.Number = DefaultPage
	}
	if p.Size < 1 {
		p.Size = DefaultLimit
	}
	return p
}

// bounds returns the [start, end) window of the page over total items.
// Page numbers and sizes near the int limit clamp to total instead of
// overflowing.
func (p Page) bounds(total int) (start, end int) {
	if p.Number-1 > total/p.Size {
		return total, total
	}
	start = min((p.Number-1)*p.Size, total)
	end = start + min(p.Size, total-start)
	return start, end
}

// Pagination describes where a page sits in the full result.
type Pagination struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalBooks   int  `json:"totalBooks"`
	BooksPerPage int  `json:"booksPerPage"`
	HasNextPage  bool `json:"hasNextPage"`
	HasPrevPage  bool `json:"hasPrevPage"`
}

// QueryResult is one page of matching books plus the applied criteria.
type QueryResult struct {
	Books      []domain.Book `json:"books"`
	Pagination Pagination    `json:"pagination"`
	Filters    Filter        `json:"filters"`
	Sort       Sort          `json:"sort"`
}

// Query filters, sorts and paginates books. The input slice is not modified
// and the returned books share no memory with it.
func Query(books []domain.Book, f Filter, s Sort, p Page) QueryResult {
	p = p.normalize()
	if s.Order != SortDesc {
		s.Order = SortAsc
	}

	matched := Filtered(books, f)
	SortBooks(matched, s)

	total := len(matched)
	totalPages := total / p.Size
	if total%p.Size != 0 {
		totalPages++
	}

	start, end := p.bounds(total)

	page := make([]domain.Book, 0, end-start)
	page = append(page, matched[start:end]...)

	return QueryResult{
		Books: page,
		Pagination: Pagination{
			CurrentPage:  p.Number,
			TotalPages:   totalPages,
			TotalBooks:   total,
			BooksPerPage: p.Size,
			HasNextPage:  p.Number < totalPages,
			HasPrevPage:  p.Number > 1,
		},
		Filters: f,
		Sort:    s,
	}
}

// Filtered returns copies of the books matching every set criterion, in
// insertion order.
func Filtered(books []domain.Book, f Filter) []domain.Book {
	fold := cases.Fold()
	genre := fold.String(strings.TrimSpace(f.Genre))
	author := fold.String(strings.TrimSpace(f.Author))
	status := strings.TrimSpace(f.Status)

	year, yearSet, yearValid := parseLooseInt(f.Year)

	out := make([]domain.Book, 0, len(books))
	for i := range books {
		b := &books[i]

		if genre != "" && (b.Genre == nil || !strings.Contains(fold.String(*b.Genre), genre)) {
			continue
		}
		if status != "" && string(b.Status) != status {
			continue
		}
		if author != "" && !strings.Contains(fold.String(b.Author), author) {
			continue
		}
		if yearSet && (!yearValid || b.Year == nil || *b.Year != year) {
			continue
		}
		if f.Rating != nil && (b.Rating == nil || *b.Rating < *f.Rating) {
			continue
		}
		out = append(out, copyBook(*b))
	}
	return out
}

// parseLooseInt reports whether s is set and, if so, whether it is an integer.
func parseLooseInt(s string) (value int, set, valid bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, true, false
	}
	return v, true, true
}

// SortBooks orders books in place. Unknown fields leave the order unchanged.
// Ties keep their relative order in both directions; nulls sort first when
// ascending.
func SortBooks(books []domain.Book, s Sort) {
	compare := comparator(s.Field)
	if compare == nil {
		return
	}
	if s.Order == SortDesc {
		slices.SortStableFunc(books, func(a, b domain.Book) int { return compare(b, a) })
		return
	}
	slices.SortStableFunc(books, compare)
}

func comparator(field string) func(a, b domain.Book) int {
	fold := cases.Fold()
	folded := func(v string) string { return fold.String(v) }

	switch field {
	case "title":
		return func(a, b domain.Book) int { return strings.Compare(folded(a.Title), folded(b.Title)) }
	case "author":
		return func(a, b domain.Book) int { return strings.Compare(folded(a.Author), folded(b.Author)) }
	case "genre":
		return func(a, b domain.Book) int {
			return compareNullable(a.Genre, b.Genre, func(x, y string) int {
				return strings.Compare(folded(x), folded(y))
			})
		}
	case "year":
		return func(a, b domain.Book) int { return compareNullable(a.Year, b.Year, cmp.Compare[int]) }
	case "pages":
		return func(a, b domain.Book) int { return compareNullable(a.Pages, b.Pages, cmp.Compare[int]) }
	case "rating":
		return func(a, b domain.Book) int { return compareNullable(a.Rating, b.Rating, cmp.Compare[int]) }
	case "status":
		return func(a, b domain.Book) int { return strings.Compare(string(a.Status), string(b.Status)) }
	case "notes":
		return func(a, b domain.Book) int { return strings.Compare(folded(a.Notes), folded(b.Notes)) }
	case "createdAt":
		return func(a, b domain.Book) int { return compareTime(a.CreatedAt, b.CreatedAt) }
	case "updatedAt":
		return func(a, b domain.Book) int { return compareTime(a.UpdatedAt, b.UpdatedAt) }
	default:
		return nil
	}
}

// compareNullable orders nil before any value.
func compareNullable[T any](a, b *T, compare func(x, y T) int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return compare(*a, *b)
	}
}

func compareTime(a, b time.Time) int {
	return a.Compare(b)
}

func copyBook(b domain.Book) domain.Book {
	b.Genre = clonePtr(b.Genre)
	b.Year = clonePtr(b.Year)
	b.Pages = clonePtr(b.Pages)
	b.Rating = clonePtr(b.Rating)
	return b
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
