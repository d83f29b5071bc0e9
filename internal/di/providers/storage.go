package providers

import (
	"fmt"
	"os"

	"github.com/samber/do/v2"

	"github.com/listenupapp/readinglog-server/internal/config"
	"github.com/listenupapp/readinglog-server/internal/logger"
	"github.com/listenupapp/readinglog-server/internal/metrics"
	"github.com/listenupapp/readinglog-server/internal/store"
	"github.com/listenupapp/readinglog-server/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the tenant document store over the configured backend.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	m := do.MustInvoke[*metrics.Metrics](i)

	backend, err := OpenBackend(cfg, log)
	if err != nil {
		return nil, err
	}

	st := store.New(backend, log.Logger, store.WithMetrics(m))
	log.WithField("backend", backend.Name()).Info("Document store initialized", "data_path", cfg.Storage.DataPath)

	return &StoreHandle{Store: st}, nil
}

// OpenBackend opens the storage backend named in the config.
func OpenBackend(cfg *config.Config, log *logger.Logger) (store.Backend, error) {
	switch cfg.Storage.Backend {
	case config.BackendFile, "":
		return store.NewFileBackend(cfg.Storage.DataPath)
	case config.BackendBadger:
		return store.NewBadgerBackend(cfg.BadgerPath(), log.Logger)
	case config.BackendSQLite:
		if err := os.MkdirAll(cfg.Storage.DataPath, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
		return sqlite.Open(cfg.SQLitePath(), log.Logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
