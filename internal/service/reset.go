package service

import (
	"context"
	"log/slog"

	"github.com/listenupapp/readinglog-server/internal/domain"
	"github.com/listenupapp/readinglog-server/internal/metrics"
	"github.com/listenupapp/readinglog-server/internal/store"
	"github.com/listenupapp/readinglog-server/internal/tenant"
)

// ResetService clears a tenant's collection.
type ResetService struct {
	store    *store.Store
	registry *tenant.Registry
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewResetService creates a new reset service. m may be nil.
func NewResetService(store *store.Store, registry *tenant.Registry, m *metrics.Metrics, logger *slog.Logger) *ResetService {
	return &ResetService{store: store, registry: registry, metrics: m, logger: logger}
}

// Reset deletes every book and zeroes the operation counter, keeping the
// user record.
func (s *ResetService) Reset(ctx context.Context, tenantToken string) (*domain.ResetResult, error) {
	tenantID, err := resolveTenant(s.registry, tenantToken)
	if err != nil {
		return nil, err
	}

	result, err := s.store.Reset(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	s.metrics.SetTenantBooks(tenantID, 0)
	return &result, nil
}
