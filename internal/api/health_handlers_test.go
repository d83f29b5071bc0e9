package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decode[HealthResponse](t, resp.Body.Bytes())
	assert.True(t, env.Success)
	assert.Equal(t, "healthy", env.Data.Status)
	assert.Equal(t, "healthy", env.Data.Components["storage"].Status)
	assert.Equal(t, "file", env.Data.Components["storage"].Message)
}

func TestListTenants(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/v1/tenants")
	require.Equal(t, http.StatusOK, resp.Code)

	env := decode[[]TenantResponse](t, resp.Body.Bytes())
	require.Len(t, env.Data, 4)
	assert.Equal(t, TenantResponse{ID: "alice", Name: "Alice"}, env.Data[0])
}

func TestMetricsEndpoint(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ts.api.Get("/health")

	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "readinglog_http_requests_total")
}

func TestUnknownRoute(t *testing.T) {
	ts := setupTestServer(t, Options{})

	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := decode[any](t, rec.Body.Bytes())
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestRecoverer(t *testing.T) {
	ts := setupTestServer(t, Options{})

	h := recoverer(ts.logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decode[any](t, rec.Body.Bytes())
	require.NotNil(t, env.Error)
	assert.Equal(t, "INTERNAL", env.Error.Code)
}
