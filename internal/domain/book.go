// Package domain contains the records stored in a tenant document and the
// value types exchanged between the document store and the library engines.
package domain

import (
	"strings"
	"time"
)

// BookStatus is the reading state of a book.
type BookStatus string

// Valid book statuses.
const (
	StatusToRead    BookStatus = "to-read"
	StatusReading   BookStatus = "reading"
	StatusRead      BookStatus = "read"
	StatusAbandoned BookStatus = "abandoned"
)

// DefaultStatus is assigned to books created without a status.
const DefaultStatus = StatusToRead

// AllStatuses lists every valid status in display order.
var AllStatuses = []BookStatus{StatusToRead, StatusReading, StatusRead, StatusAbandoned}

// IsValid returns true if s is one of the four known statuses.
func (s BookStatus) IsValid() bool {
	switch s {
	case StatusToRead, StatusReading, StatusRead, StatusAbandoned:
		return true
	default:
		return false
	}
}

// Book is a single record in a tenant's collection.
// Nullable attributes are pointers so they round-trip as JSON null.
type Book struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Author    string     `json:"author"`
	Genre     *string    `json:"genre"`
	Year      *int       `json:"year"`
	Pages     *int       `json:"pages"`
	Rating    *int       `json:"rating"`
	Status    BookStatus `json:"status"`
	Notes     string     `json:"notes"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// BookRef identifies a book in delete responses.
type BookRef struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// Ref returns the identity triple of the book.
func (b *Book) Ref() BookRef {
	return BookRef{ID: b.ID, Title: b.Title, Author: b.Author}
}

// GenreName returns the genre or an empty string when the book has none.
func (b *Book) GenreName() string {
	if b.Genre == nil {
		return ""
	}
	return *b.Genre
}

// HasGenre reports whether the book carries a non-blank genre.
func (b *Book) HasGenre() bool {
	return b.Genre != nil && strings.TrimSpace(*b.Genre) != ""
}

// NormalizeGenre copies g, mapping a blank genre to none.
func NormalizeGenre(g *string) *string {
	if g == nil || strings.TrimSpace(*g) == "" {
		return nil
	}
	return clonePtr(g)
}

// clone returns a deep copy so callers never share pointer fields.
func (b Book) clone() Book {
	b.Genre = clonePtr(b.Genre)
	b.Year = clonePtr(b.Year)
	b.Pages = clonePtr(b.Pages)
	b.Rating = clonePtr(b.Rating)
	return b
}

// NewBook carries the attributes accepted when a book is created.
type NewBook struct {
	Title  string  `json:"title" validate:"notblank"`
	Author string  `json:"author" validate:"notblank"`
	Genre  *string `json:"genre"`
	Year   *int    `json:"year"`
	Pages  *int    `json:"pages"`
	Rating *int    `json:"rating"`
	Status string  `json:"status" validate:"omitempty,bookstatus"`
	Notes  string  `json:"notes"`
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
