package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/listenupapp/readinglog-server/internal/errors"
)

func TestNew(t *testing.T) {
	m := New()

	require.NotNil(t, m)
	require.NotNil(t, m.StoreOps)
	require.NotNil(t, m.StoreDuration)
	require.NotNil(t, m.TenantBooks)
	require.NotNil(t, m.RequestCount)
	require.NotNil(t, m.RequestDuration)
	require.NotNil(t, m.Registry())
}

func TestNew_Independent(t *testing.T) {
	// Each instance owns its registry, so building two never panics.
	assert.NotPanics(t, func() {
		_ = New()
		_ = New()
	})
}

func TestObserveStore(t *testing.T) {
	m := New()

	m.ObserveStore(OpSave, time.Now(), nil)
	m.ObserveStore(OpSave, time.Now(), nil)
	m.ObserveStore(OpLoad, time.Now(), domainerrors.Storage(errors.New("disk"), "read failed"))

	assert.InDelta(t, 2, testutil.ToFloat64(m.StoreOps.WithLabelValues(OpSave, "ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.StoreOps.WithLabelValues(OpLoad, "storage_error")), 0)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveStore(OpReset, time.Now(), nil)
		m.SetTenantBooks("alice", 3)
	})
}

func TestSetTenantBooks(t *testing.T) {
	m := New()

	m.SetTenantBooks("alice", 3)
	m.SetTenantBooks("alice", 5)

	assert.InDelta(t, 5, testutil.ToFloat64(m.TenantBooks.WithLabelValues("alice")), 0)
}

func TestResult(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{domainerrors.NotFound("x"), "not_found"},
		{domainerrors.Validation("x"), "invalid"},
		{domainerrors.Storage(errors.New("x"), "x"), "storage_error"},
		{errors.New("boom"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Result(tt.err))
		})
	}
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/v1/{tenant}/books/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/alice/books/book-1", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	count := m.RequestCount.WithLabelValues(http.MethodGet, "/api/v1/{tenant}/books/{id}", "404")
	assert.InDelta(t, 1, testutil.ToFloat64(count), 0)
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveStore(OpLoad, time.Now(), nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "readinglog_store_operations_total")
}
