package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/readinglog-server/internal/domain"
	domainerrors "github.com/listenupapp/readinglog-server/internal/errors"
	"github.com/listenupapp/readinglog-server/internal/library"
	"github.com/listenupapp/readinglog-server/internal/search"
	"github.com/listenupapp/readinglog-server/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/{tenant}/books",
		Summary:     "List books",
		Description: "Filters, sorts and paginates the tenant's collection",
		Tags:        []string{"Books"},
		Security:    bearerSecurity,
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createBook",
		Method:        http.MethodPost,
		Path:          "/api/v1/{tenant}/books",
		Summary:       "Create book",
		Description:   "Adds a book to the end of the collection",
		Tags:          []string{"Books"},
		Security:      bearerSecurity,
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/{tenant}/books/search",
		Summary:     "Search books",
		Description: "Full-text search over title, author, genre and notes",
		Tags:        []string{"Books"},
		Security:    bearerSecurity,
	}, s.handleSearchBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/{tenant}/books/{id}",
		Summary:     "Get book",
		Tags:        []string{"Books"},
		Security:    bearerSecurity,
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPut,
		Path:        "/api/v1/{tenant}/books/{id}",
		Summary:     "Update book",
		Description: "Applies the allowed attributes present in the body. Unknown keys are ignored.",
		Tags:        []string{"Books"},
		Security:    bearerSecurity,
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBook",
		Method:      http.MethodDelete,
		Path:        "/api/v1/{tenant}/books/{id}",
		Summary:     "Delete book",
		Tags:        []string{"Books"},
		Security:    bearerSecurity,
	}, s.handleDeleteBook)
}

// ListBooksInput contains parameters for listing books.
// Numeric query values are taken as strings so malformed values fall back
// to defaults instead of failing the request.
type ListBooksInput struct {
	TenantInput
	AuthInput
	Genre     string `query:"genre" doc:"Case-insensitive genre match"`
	Status    string `query:"status" doc:"Exact status match"`
	Author    string `query:"author" doc:"Case-insensitive author substring"`
	Year      string `query:"year" doc:"Publication year"`
	Rating    string `query:"rating" doc:"Minimum rating"`
	SortBy    string `query:"sortBy" doc:"Sort field"`
	SortOrder string `query:"sortOrder" doc:"asc or desc"`
	Page      string `query:"page" doc:"Page number, from 1"`
	Limit     string `query:"limit" doc:"Page size"`
}

// ListBooksOutput wraps one page of books.
type ListBooksOutput struct {
	Body library.QueryResult
}

// CreateBookInput wraps the create request for Huma.
type CreateBookInput struct {
	TenantInput
	AuthInput
	RawBody []byte
}

// SearchBooksInput contains parameters for searching books.
type SearchBooksInput struct {
	TenantInput
	AuthInput
	Query  string `query:"q" doc:"Search query"`
	Status string `query:"status" doc:"Exact status filter"`
	Limit  string `query:"limit" doc:"Maximum hits"`
}

// SearchBooksOutput wraps search results.
type SearchBooksOutput struct {
	Body search.Result
}

// BookIDInput addresses a single book.
type BookIDInput struct {
	TenantInput
	AuthInput
	ID string `path:"id" doc:"Book ID"`
}

// UpdateBookInput wraps the update request for Huma.
type UpdateBookInput struct {
	TenantInput
	AuthInput
	ID      string `path:"id" doc:"Book ID"`
	RawBody []byte
}

// BookOutput wraps a single book.
type BookOutput struct {
	Body domain.Book
}

// DeleteBookResponse confirms a deletion.
type DeleteBookResponse struct {
	Message string         `json:"message"`
	Book    domain.BookRef `json:"book"`
}

// DeleteBookOutput wraps the delete response.
type DeleteBookOutput struct {
	Body DeleteBookResponse
}

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*ListBooksOutput, error) {
	if _, err := s.authorizeTenant(ctx, input.Authorization, input.Tenant); err != nil {
		return nil, s.fail(ctx, err)
	}

	filter := library.Filter{
		Genre:  input.Genre,
		Status: input.Status,
		Author: input.Author,
		Year:   input.Year,
	}
	if r := strings.TrimSpace(input.Rating); r != "" {
		rating, err := strconv.Atoi(r)
		if err != nil {
			return nil, s.fail(ctx, domainerrors.ValidationWithDetails("invalid rating filter",
				map[string]string{"rating": "must be an integer"}))
		}
		filter.Rating = &rating
	}

	result, err := s.services.Book.ListBooks(ctx, input.Tenant, service.ListParams{
		Filter: filter,
		Sort:   library.Sort{Field: input.SortBy, Order: input.SortOrder},
		Page:   library.Page{Number: parseLooseInt(input.Page), Size: parseLooseInt(input.Limit)},
	})
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	return &ListBooksOutput{Body: *result}, nil
}

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookOutput, error) {
	if _, err := s.authorizeTenant(ctx, input.Authorization, input.Tenant); err != nil {
		return nil, s.fail(ctx, err)
	}

	var in domain.NewBook
	if err := decodeBody(input.RawBody, &in); err != nil {
		return nil, s.fail(ctx, err)
	}

	book, err := s.services.Book.CreateBook(ctx, input.Tenant, in)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	return &BookOutput{Body: *book}, nil
}

func (s *Server) handleSearchBooks(ctx context.Context, input *SearchBooksInput) (*SearchBooksOutput, error) {
	if _, err := s.authorizeTenant(ctx, input.Authorization, input.Tenant); err != nil {
		return nil, s.fail(ctx, err)
	}

	result, err := s.services.Book.SearchBooks(ctx, input.Tenant, search.Params{
		Query:  input.Query,
		Status: input.Status,
		Limit:  parseLooseInt(input.Limit),
	})
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	return &SearchBooksOutput{Body: *result}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *BookIDInput) (*BookOutput, error) {
	if _, err := s.authorizeTenant(ctx, input.Authorization, input.Tenant); err != nil {
		return nil, s.fail(ctx, err)
	}

	book, err := s.services.Book.GetBook(ctx, input.Tenant, input.ID)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	return &BookOutput{Body: *book}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	if _, err := s.authorizeTenant(ctx, input.Authorization, input.Tenant); err != nil {
		return nil, s.fail(ctx, err)
	}

	patch, err := domain.DecodeBookPatch(input.RawBody)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	book, err := s.services.Book.UpdateBook(ctx, input.Tenant, input.ID, patch)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	return &BookOutput{Body: *book}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *BookIDInput) (*DeleteBookOutput, error) {
	if _, err := s.authorizeTenant(ctx, input.Authorization, input.Tenant); err != nil {
		return nil, s.fail(ctx, err)
	}

	ref, err := s.services.Book.DeleteBook(ctx, input.Tenant, input.ID)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	return &DeleteBookOutput{Body: DeleteBookResponse{
		Message: "Book deleted successfully",
		Book:    *ref,
	}}, nil
}
