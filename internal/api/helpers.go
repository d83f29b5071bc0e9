package api

import (
	"context"
	"encoding/json"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/listenupapp/readinglog-server/internal/auth"
	domainerrors "github.com/listenupapp/readinglog-server/internal/errors"
	"github.com/listenupapp/readinglog-server/internal/tenant"
)

const minute = time.Minute

var bearerSecurity = []map[string][]string{{"bearer": {}}}

// AuthInput carries the bearer token header for protected operations.
type AuthInput struct {
	Authorization string `header:"Authorization" doc:"Bearer access token"`
}

// TenantInput carries the tenant path segment.
type TenantInput struct {
	Tenant string `path:"tenant" doc:"Tenant identifier"`
}

// authorizeTenant resolves the tenant and checks the bearer token belongs to
// it. Unknown tenants are 404 before the token is looked at; a token issued
// for another tenant is 403. The token must also name the tenant's current,
// active user.
func (s *Server) authorizeTenant(ctx context.Context, authHeader, tenantToken string) (*auth.AccessClaims, error) {
	profile, err := s.registry.Lookup(tenantToken)
	if err != nil {
		return nil, err
	}

	if authHeader == "" {
		return nil, domainerrors.Unauthorized("missing authorization header")
	}
	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return nil, domainerrors.Unauthorized("invalid authorization header format")
	}

	claims, err := s.services.Auth.VerifyToken(strings.TrimSpace(token))
	if err != nil {
		return nil, err
	}
	if tenant.Normalize(claims.Tenant) != profile.ID {
		return nil, domainerrors.Forbidden("token was not issued for this tenant")
	}
	if _, err := s.services.Auth.ResolveUser(ctx, profile.ID, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// decodeBody unmarshals a JSON request body. Unknown keys are ignored.
func decodeBody(raw []byte, dst any) error {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return domainerrors.Validation("request body is required")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return domainerrors.Validationf("invalid JSON body: %v", err)
	}
	return nil
}

// parseLooseInt parses a query integer, returning 0 for anything unparsable.
func parseLooseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// clientIP strips the port from a remote address.
func clientIP(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}
