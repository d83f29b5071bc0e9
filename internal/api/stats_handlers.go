package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/readinglog-server/internal/domain"
)

func (s *Server) registerStatsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/{tenant}/stats",
		Summary:     "Reading statistics",
		Description: "Aggregates overview, reading metrics, preferences and timeline",
		Tags:        []string{"Stats"},
		Security:    bearerSecurity,
	}, s.handleGetStats)

	huma.Register(s.api, huma.Operation{
		OperationID: "resetTenant",
		Method:      http.MethodPost,
		Path:        "/api/v1/{tenant}/reset",
		Summary:     "Reset collection",
		Description: "Deletes every book and zeroes the operation counter. The user is kept.",
		Tags:        []string{"Stats"},
		Security:    bearerSecurity,
	}, s.handleReset)
}

// TenantAuthInput identifies a tenant and the caller.
type TenantAuthInput struct {
	TenantInput
	AuthInput
}

// StatsOutput wraps the stats response.
type StatsOutput struct {
	Body domain.Stats
}

// ResetResponse reports what a reset removed.
type ResetResponse struct {
	Message string `json:"message"`
	domain.ResetResult
}

// ResetOutput wraps the reset response.
type ResetOutput struct {
	Body ResetResponse
}

func (s *Server) handleGetStats(ctx context.Context, input *TenantAuthInput) (*StatsOutput, error) {
	if _, err := s.authorizeTenant(ctx, input.Authorization, input.Tenant); err != nil {
		return nil, s.fail(ctx, err)
	}

	stats, err := s.services.Stats.GetStats(ctx, input.Tenant)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	return &StatsOutput{Body: *stats}, nil
}

func (s *Server) handleReset(ctx context.Context, input *TenantAuthInput) (*ResetOutput, error) {
	if _, err := s.authorizeTenant(ctx, input.Authorization, input.Tenant); err != nil {
		return nil, s.fail(ctx, err)
	}

	result, err := s.services.Reset.Reset(ctx, input.Tenant)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	return &ResetOutput{Body: ResetResponse{
		Message:     "Library reset successfully",
		ResetResult: *result,
	}}, nil
}
