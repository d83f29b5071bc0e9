package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerTenantRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTenants",
		Method:      http.MethodGet,
		Path:        "/api/v1/tenants",
		Summary:     "List tenants",
		Description: "Returns the public profile of every registered tenant",
		Tags:        []string{"Tenants"},
	}, s.handleListTenants)
}

// TenantResponse is a tenant's public profile.
type TenantResponse struct {
	ID   string `json:"id" doc:"Tenant identifier"`
	Name string `json:"name" doc:"Display name"`
}

// ListTenantsOutput wraps the tenant list for Huma.
type ListTenantsOutput struct {
	Body []TenantResponse
}

func (s *Server) handleListTenants(_ context.Context, _ *struct{}) (*ListTenantsOutput, error) {
	profiles := s.registry.List()
	out := make([]TenantResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, TenantResponse{ID: p.ID, Name: p.Name})
	}
	return &ListTenantsOutput{Body: out}, nil
}
