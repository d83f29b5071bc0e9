package di

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/readinglog-server/internal/config"
	"github.com/listenupapp/readinglog-server/internal/di/providers"
	"github.com/listenupapp/readinglog-server/internal/logger"
)

func testContainer(t *testing.T, backend string) *do.RootScope {
	t.Helper()

	injector := NewContainer()
	do.OverrideValue(injector, &config.Config{
		App:     config.AppConfig{Environment: "development"},
		Logger:  config.LoggerConfig{Level: "error"},
		Storage: config.StorageConfig{DataPath: t.TempDir(), Backend: backend},
		Server:  config.ServerConfig{Port: "0", CORSOrigins: []string{"*"}},
		Auth:    config.AuthConfig{AccessTokenDuration: time.Hour, RateLimit: 20},
	})
	do.OverrideValue(injector, &logger.Logger{Logger: logger.Discard()})

	t.Cleanup(func() { _ = injector.Shutdown() })
	return injector
}

func TestContainer_ServesHealthOnEachBackend(t *testing.T) {
	for _, backend := range []string{config.BackendFile, config.BackendBadger, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			injector := testContainer(t, backend)

			handler, err := do.Invoke[*providers.APIServerHandle](injector)
			require.NoError(t, err)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), backend)
		})
	}
}

func TestContainer_UnknownBackend(t *testing.T) {
	injector := testContainer(t, "tape")

	_, err := do.Invoke[*providers.StoreHandle](injector)
	assert.Error(t, err)
}

func TestContainer_GeneratesAuthKey(t *testing.T) {
	injector := testContainer(t, config.BackendFile)

	key, err := do.Invoke[providers.AuthKey](injector)
	require.NoError(t, err)
	assert.Len(t, key, 32)

	cfg := do.MustInvoke[*config.Config](injector)
	assert.Equal(t, []byte(key), cfg.Auth.AccessTokenKey)
}
