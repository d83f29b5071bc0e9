package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/readinglog-server/internal/domain"
	"github.com/listenupapp/readinglog-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          "/api/v1/{tenant}/auth/register",
		Summary:       "Register user",
		Description:   "Creates the tenant's user. Each tenant has at most one user.",
		Tags:          []string{"Authentication"},
		DefaultStatus: http.StatusCreated,
		Middlewares:   huma.Middlewares{s.rateLimitAuth},
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/{tenant}/auth/login",
		Summary:     "User login",
		Description: "Verifies credentials and returns an access token bound to the tenant",
		Tags:        []string{"Authentication"},
		Middlewares: huma.Middlewares{s.rateLimitAuth},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/{tenant}/auth/me",
		Summary:     "Current user",
		Description: "Returns the authenticated user without the credential hash",
		Tags:        []string{"Authentication"},
		Security:    bearerSecurity,
	}, s.handleMe)
}

// RegisterInput wraps the register request for Huma. The body is decoded
// by hand so unknown keys are ignored.
type RegisterInput struct {
	TenantInput
	RawBody []byte
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	TenantInput
	RawBody []byte
}

// UserOutput wraps a public user record.
type UserOutput struct {
	Body domain.PublicUser
}

// LoginOutput wraps the login response.
type LoginOutput struct {
	Body service.LoginResponse
}

func (s *Server) handleRegister(ctx context.Context, input *RegisterInput) (*UserOutput, error) {
	var req service.RegisterRequest
	if err := decodeBody(input.RawBody, &req); err != nil {
		return nil, s.fail(ctx, err)
	}

	user, err := s.services.Auth.Register(ctx, input.Tenant, req)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	return &UserOutput{Body: *user}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	var req service.LoginRequest
	if err := decodeBody(input.RawBody, &req); err != nil {
		return nil, s.fail(ctx, err)
	}

	resp, err := s.services.Auth.Login(ctx, input.Tenant, req)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	return &LoginOutput{Body: *resp}, nil
}

func (s *Server) handleMe(ctx context.Context, input *TenantAuthInput) (*UserOutput, error) {
	claims, err := s.authorizeTenant(ctx, input.Authorization, input.Tenant)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	user, err := s.services.Auth.Me(ctx, input.Tenant, claims.UserID)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	return &UserOutput{Body: *user}, nil
}
