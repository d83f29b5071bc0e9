package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/readinglog-server/internal/auth"
	"github.com/listenupapp/readinglog-server/internal/metrics"
	"github.com/listenupapp/readinglog-server/internal/service"
	"github.com/listenupapp/readinglog-server/internal/store"
	"github.com/listenupapp/readinglog-server/internal/tenant"
)

// testEnvelope mirrors the response envelope with a typed payload.
type testEnvelope[T any] struct {
	V       int  `json:"v"`
	Success bool `json:"success"`
	Data    T    `json:"data"`
	Error   *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

// testServer wraps the API server for handler tests.
type testServer struct {
	*Server
	api     humatest.TestAPI
	store   *store.Store
	tokens  *auth.TokenService
	metrics *metrics.Metrics
}

// setupTestServer creates a server over a file backend in a temp dir.
func setupTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	backend, err := store.NewFileBackend(t.TempDir())
	require.NoError(t, err)

	m := metrics.New()
	st := store.New(backend, logger, store.WithMetrics(m))
	t.Cleanup(func() { _ = st.Close() })

	key, err := auth.LoadOrGenerateKey(t.TempDir())
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(key, time.Hour)
	require.NoError(t, err)

	registry := tenant.NewDefaultRegistry()

	services := &Services{
		Auth:  service.NewAuthService(st, registry, tokens, logger),
		Book:  service.NewBookService(st, registry, m, logger),
		Stats: service.NewStatsService(st, registry, logger),
		Reset: service.NewResetService(st, registry, m, logger),
	}

	s := NewServer(services, registry, st, m, opts, logger)
	t.Cleanup(s.Close)

	return &testServer{
		Server:  s,
		api:     humatest.Wrap(t, s.API()),
		store:   st,
		tokens:  tokens,
		metrics: m,
	}
}

// decode unmarshals an enveloped response body.
func decode[T any](t *testing.T, body []byte) testEnvelope[T] {
	t.Helper()

	var env testEnvelope[T]
	require.NoError(t, json.Unmarshal(body, &env), "body: %s", body)
	require.Equal(t, 1, env.V)
	return env
}

// login registers the tenant's user and returns a bearer header.
func (ts *testServer) login(t *testing.T, tenantID string) string {
	t.Helper()

	email := tenantID + "@example.com"
	resp := ts.api.Post("/api/v1/"+tenantID+"/auth/register", map[string]any{
		"name":     "Reader",
		"email":    email,
		"password": "correct horse",
	})
	require.Equal(t, http.StatusCreated, resp.Code, "register failed: %s", resp.Body.String())

	resp = ts.api.Post("/api/v1/"+tenantID+"/auth/login", map[string]any{
		"email":    email,
		"password": "correct horse",
	})
	require.Equal(t, http.StatusOK, resp.Code, "login failed: %s", resp.Body.String())

	env := decode[service.LoginResponse](t, resp.Body.Bytes())
	require.NotEmpty(t, env.Data.AccessToken)
	return "Authorization: Bearer " + env.Data.AccessToken
}
