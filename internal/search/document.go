// Package search provides full-text search over one tenant's books using Bleve.
// Indexes are built in memory from a loaded document and discarded after the
// query; nothing is persisted and no index spans tenants.
package search

import (
	"github.com/listenupapp/readinglog-server/internal/domain"
)

// BookDocument is the indexed projection of a book.
type BookDocument struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Genre  string `json:"genre,omitempty"`
	Notes  string `json:"notes,omitempty"`
	Status string `json:"status"`
	Year   int    `json:"year,omitempty"`
	// Position is the book's insertion index, used to break score ties.
	Position int `json:"position"`
}

// BookToSearchDocument converts a book to its indexed form.
func BookToSearchDocument(b *domain.Book, position int) *BookDocument {
	doc := &BookDocument{
		ID:       b.ID,
		Title:    b.Title,
		Author:   b.Author,
		Genre:    b.GenreName(),
		Notes:    b.Notes,
		Status:   string(b.Status),
		Position: position,
	}
	if b.Year != nil {
		doc.Year = *b.Year
	}
	return doc
}
