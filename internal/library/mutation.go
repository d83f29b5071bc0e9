package library

import (
	"slices"
	"strings"
	"time"

	"github.com/listenupapp/readinglog-server/internal/domain"
	domainerrors "github.com/listenupapp/readinglog-server/internal/errors"
	"github.com/listenupapp/readinglog-server/internal/id"
	"github.com/listenupapp/readinglog-server/internal/validation"
)

var validate = validation.New()

// newBookID is swapped in tests.
var newBookID = id.NewBookID

// CreateBook validates in, appends a new book to doc and returns a copy of it.
func CreateBook(doc *domain.TenantDocument, in domain.NewBook, now time.Time) (domain.Book, error) {
	if err := validate.Validate(in); err != nil {
		return domain.Book{}, err
	}

	status := domain.BookStatus(in.Status)
	if status == "" {
		status = domain.DefaultStatus
	}

	bookID, err := uniqueBookID(doc)
	if err != nil {
		return domain.Book{}, err
	}

	b := domain.Book{
		ID:        bookID,
		Title:     strings.TrimSpace(in.Title),
		Author:    strings.TrimSpace(in.Author),
		Genre:     domain.NormalizeGenre(in.Genre),
		Year:      clonePtr(in.Year),
		Pages:     clonePtr(in.Pages),
		Rating:    clonePtr(in.Rating),
		Status:    status,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	doc.Books = append(doc.Books, b)
	return copyBook(b), nil
}

// uniqueBookID draws ids until one is unused in doc.
func uniqueBookID(doc *domain.TenantDocument) (string, error) {
	const attempts = 8
	for range attempts {
		candidate, err := newBookID()
		if err != nil {
			return "", domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to generate book id")
		}
		if !doc.HasBookID(candidate) {
			return candidate, nil
		}
	}
	return "", domainerrors.Internal("could not allocate a unique book id")
}

// FindBook returns a copy of the book with the given id.
func FindBook(doc *domain.TenantDocument, bookID string) (domain.Book, error) {
	i := doc.IndexOf(bookID)
	if i < 0 {
		return domain.Book{}, bookNotFound(bookID)
	}
	return copyBook(doc.Books[i]), nil
}

// UpdateBook applies an allow-listed patch. Nothing is changed when the book
// is missing or the patch is invalid.
func UpdateBook(doc *domain.TenantDocument, bookID string, patch domain.BookPatch, now time.Time) (domain.Book, error) {
	i := doc.IndexOf(bookID)
	if i < 0 {
		return domain.Book{}, bookNotFound(bookID)
	}
	if err := patch.Validate(); err != nil {
		return domain.Book{}, err
	}

	patch.Apply(&doc.Books[i], now)
	return copyBook(doc.Books[i]), nil
}

// DeleteBook removes exactly one book, keeping the order of the rest.
func DeleteBook(doc *domain.TenantDocument, bookID string) (domain.BookRef, error) {
	i := doc.IndexOf(bookID)
	if i < 0 {
		return domain.BookRef{}, bookNotFound(bookID)
	}

	ref := doc.Books[i].Ref()
	doc.Books = slices.Delete(doc.Books, i, i+1)
	return ref, nil
}

func bookNotFound(bookID string) error {
	return domainerrors.NotFoundf("book %s not found", bookID)
}
