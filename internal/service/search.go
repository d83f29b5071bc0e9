package service

import (
	"context"
	"log/slog"

	"github.com/listenupapp/readinglog-server/internal/search"
)

// SearchBooks runs a full-text query over the tenant's collection.
// The index lives only for the duration of the call.
func (s *BookService) SearchBooks(ctx context.Context, tenantToken string, params search.Params) (*search.Result, error) {
	tenantID, err := resolveTenant(s.registry, tenantToken)
	if err != nil {
		return nil, err
	}

	doc, err := s.store.Load(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	result, err := search.SearchBooks(ctx, doc.Books, params, search.Options{Logger: s.logger})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("search completed",
		slog.String("tenant", tenantID),
		slog.String("query", params.Query),
		slog.Uint64("total", result.Total),
	)
	return result, nil
}
