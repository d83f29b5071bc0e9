package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/listenupapp/readinglog-server/internal/auth"
	"github.com/listenupapp/readinglog-server/internal/domain"
	domainerrors "github.com/listenupapp/readinglog-server/internal/errors"
	"github.com/listenupapp/readinglog-server/internal/id"
	"github.com/listenupapp/readinglog-server/internal/store"
	"github.com/listenupapp/readinglog-server/internal/tenant"
	"github.com/listenupapp/readinglog-server/internal/validation"
)

// AuthService handles registration, login and the current-user lookup.
type AuthService struct {
	store        *store.Store
	registry     *tenant.Registry
	tokenService *auth.TokenService
	validator    *validation.Validator
	logger       *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store *store.Store,
	registry *tenant.Registry,
	tokenService *auth.TokenService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:        store,
		registry:     registry,
		tokenService: tokenService,
		validator:    validation.New(),
		logger:       logger,
	}
}

// RegisterRequest contains the data needed to create a tenant's user.
type RegisterRequest struct {
	Name     string `json:"name" validate:"notblank,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the access token and the public user record.
type LoginResponse struct {
	AccessToken string            `json:"accessToken"`
	TokenType   string            `json:"tokenType"`
	ExpiresAt   time.Time         `json:"expiresAt"`
	User        domain.PublicUser `json:"user"`
}

// Register creates the tenant's single user record.
// A second registration for the same tenant fails with CONFLICT.
func (s *AuthService) Register(ctx context.Context, tenantToken string, req RegisterRequest) (*domain.PublicUser, error) {
	tenantID, err := resolveTenant(s.registry, tenantToken)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	// Hashing is slow, keep it outside the tenant lock.
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var user domain.User
	_, err = s.store.Update(ctx, tenantID, func(doc *domain.TenantDocument) error {
		if doc.User != nil {
			return domainerrors.Conflict("user already registered for this tenant")
		}
		user = domain.User{
			ID:           id.NewUserID(),
			Name:         strings.TrimSpace(req.Name),
			Email:        normalizeEmail(req.Email),
			PasswordHash: passwordHash,
			TenantID:     tenantID,
			CreatedAt:    s.store.Now(),
			Active:       true,
		}
		doc.User = &user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "tenant", tenantID, "user_id", user.ID)
	public := user.Public()
	return &public, nil
}

// Login verifies credentials and issues an access token bound to the tenant.
func (s *AuthService) Login(ctx context.Context, tenantToken string, req LoginRequest) (*LoginResponse, error) {
	tenantID, err := resolveTenant(s.registry, tenantToken)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	doc, err := s.store.Load(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	user := doc.User
	if user == nil || user.Email != normalizeEmail(req.Email) || !auth.VerifyPassword(user.PasswordHash, req.Password) {
		s.logger.Warn("login failed", "tenant", tenantID)
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}
	if !user.Active {
		return nil, domainerrors.Forbidden("account is inactive")
	}

	token, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	s.logger.Info("user logged in", "tenant", tenantID, "user_id", user.ID)
	return &LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   s.store.Now().Add(s.tokenService.AccessTokenDuration()),
		User:        user.Public(),
	}, nil
}

// Me returns the tenant's user record without the credential hash.
// The user id from the token must still match the stored record.
func (s *AuthService) Me(ctx context.Context, tenantToken, userID string) (*domain.PublicUser, error) {
	tenantID, err := resolveTenant(s.registry, tenantToken)
	if err != nil {
		return nil, err
	}

	doc, err := s.store.Load(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if doc.User == nil || doc.User.ID != userID {
		return nil, domainerrors.NotFound("user not found")
	}

	public := doc.User.Public()
	return &public, nil
}

// ResolveUser maps verified token claims to the tenant's current user record.
// A token whose user was purged, replaced by a later registration or
// deactivated no longer authenticates.
func (s *AuthService) ResolveUser(ctx context.Context, tenantToken string, claims *auth.AccessClaims) (*domain.User, error) {
	tenantID, err := resolveTenant(s.registry, tenantToken)
	if err != nil {
		return nil, err
	}

	doc, err := s.store.Load(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	user := doc.User
	if user == nil || user.ID != claims.UserID {
		s.logger.Warn("token user does not match tenant user", "tenant", tenantID, "user_id", claims.UserID)
		return nil, domainerrors.Unauthorized("token is no longer valid")
	}
	if !user.Active {
		return nil, domainerrors.Unauthorized("account is inactive")
	}
	return user, nil
}

// VerifyToken checks an access token for the API middleware.
func (s *AuthService) VerifyToken(token string) (*auth.AccessClaims, error) {
	return s.tokenService.VerifyAccessToken(token)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
