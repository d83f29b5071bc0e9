package service

import (
	"context"
	"log/slog"

	"github.com/listenupapp/readinglog-server/internal/domain"
	"github.com/listenupapp/readinglog-server/internal/library"
	"github.com/listenupapp/readinglog-server/internal/store"
	"github.com/listenupapp/readinglog-server/internal/tenant"
)

// StatsService computes collection statistics.
type StatsService struct {
	store    *store.Store
	registry *tenant.Registry
	logger   *slog.Logger
}

// NewStatsService creates a new stats service.
func NewStatsService(store *store.Store, registry *tenant.Registry, logger *slog.Logger) *StatsService {
	return &StatsService{store: store, registry: registry, logger: logger}
}

// GetStats aggregates the tenant's collection. It is a pure read.
func (s *StatsService) GetStats(ctx context.Context, tenantToken string) (*domain.Stats, error) {
	tenantID, err := resolveTenant(s.registry, tenantToken)
	if err != nil {
		return nil, err
	}

	doc, err := s.store.Load(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	stats := library.ComputeStats(doc.Books, s.store.Now())
	return &stats, nil
}
