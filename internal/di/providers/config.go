// Package providers contains dependency injection providers for the reading log server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/readinglog-server/internal/config"
	"github.com/listenupapp/readinglog-server/internal/logger"
	"github.com/listenupapp/readinglog-server/internal/metrics"
	"github.com/listenupapp/readinglog-server/internal/tenant"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting reading log server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Storage.DataPath,
		"storage_backend", cfg.Storage.Backend,
	)

	return log, nil
}

// ProvideMetrics provides the Prometheus collectors.
func ProvideMetrics(i do.Injector) (*metrics.Metrics, error) {
	return metrics.New(), nil
}

// ProvideRegistry provides the tenant registry, from file when configured.
func ProvideRegistry(i do.Injector) (*tenant.Registry, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Tenants.File == "" {
		registry := tenant.NewDefaultRegistry()
		log.Info("Using built-in tenant registry", "tenants", registry.IDs())
		return registry, nil
	}

	registry, err := tenant.LoadFile(cfg.Tenants.File)
	if err != nil {
		return nil, err
	}
	log.Info("Tenant registry loaded", "file", cfg.Tenants.File, "tenants", registry.IDs())
	for _, p := range registry.List() {
		log.WithTenant(p.ID).Debug("Tenant profile", "name", p.Name)
	}
	return registry, nil
}
