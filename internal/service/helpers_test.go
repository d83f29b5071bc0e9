package service

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/listenupapp/readinglog-server/internal/auth"
	"github.com/listenupapp/readinglog-server/internal/metrics"
	"github.com/listenupapp/readinglog-server/internal/store"
	"github.com/listenupapp/readinglog-server/internal/tenant"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	store  *store.Store
	clock  *testClock
	books  *BookService
	stats  *StatsService
	reset  *ResetService
	auth   *AuthService
	tokens *auth.TokenService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	backend, err := store.NewFileBackend(t.TempDir())
	require.NoError(t, err)

	clock := &testClock{now: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)}
	m := metrics.New()
	st := store.New(backend, logger, store.WithClock(clock.Now), store.WithMetrics(m))
	t.Cleanup(func() { _ = st.Close() })

	tokens, err := auth.NewTokenService(make([]byte, 32), time.Hour)
	require.NoError(t, err)

	registry := tenant.NewDefaultRegistry()

	return &testEnv{
		store:  st,
		clock:  clock,
		books:  NewBookService(st, registry, m, logger),
		stats:  NewStatsService(st, registry, logger),
		reset:  NewResetService(st, registry, m, logger),
		auth:   NewAuthService(st, registry, tokens, logger),
		tokens: tokens,
	}
}
