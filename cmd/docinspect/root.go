package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/listenupapp/readinglog-server/internal/config"
	"github.com/listenupapp/readinglog-server/internal/di/providers"
	"github.com/listenupapp/readinglog-server/internal/logger"
	"github.com/listenupapp/readinglog-server/internal/store"
	"github.com/listenupapp/readinglog-server/internal/tenant"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	dataPath    string
	backend     string
	tenantsFile string
	verbose     bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "docinspect",
		Short: "Inspect and maintain reading log tenant documents",
		Long: `docinspect operates directly on the storage backend the server uses.
Configuration follows the server: flags, then environment, then .env.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.dataPath, "data-path", "", "Base path for tenant documents")
	root.PersistentFlags().StringVar(&opts.backend, "storage-backend", "", "Storage backend (file, badger, sqlite)")
	root.PersistentFlags().StringVar(&opts.tenantsFile, "tenants-file", "", "YAML file listing tenant profiles")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(
		newShowCmd(opts),
		newStatsCmd(opts),
		newResetCmd(opts),
		newPurgeCmd(opts),
		newTenantsCmd(opts),
	)
	return root
}

// env is an opened store plus the tenant registry.
type env struct {
	store    *store.Store
	registry *tenant.Registry
}

func (e *env) Close() error {
	return e.store.Close()
}

// open resolves configuration and opens the backend.
func (o *options) open(stderr io.Writer) (*env, error) {
	var args []string
	if o.dataPath != "" {
		args = append(args, "--data-path", o.dataPath)
	}
	if o.backend != "" {
		args = append(args, "--storage-backend", o.backend)
	}
	if o.tenantsFile != "" {
		args = append(args, "--tenants-file", o.tenantsFile)
	}

	cfg, err := config.Load(args)
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	log := logger.New(logger.Config{Writer: stderr, Level: level, Environment: cfg.App.Environment})

	registry := tenant.NewDefaultRegistry()
	if cfg.Tenants.File != "" {
		if registry, err = tenant.LoadFile(cfg.Tenants.File); err != nil {
			return nil, err
		}
	}

	backend, err := providers.OpenBackend(cfg, log)
	if err != nil {
		return nil, err
	}
	log.Debug("backend opened", "backend", backend.Name(), "data_path", cfg.Storage.DataPath)

	return &env{store: store.New(backend, log.Logger), registry: registry}, nil
}

// resolve maps a tenant argument to its canonical id.
func (e *env) resolve(token string) (string, error) {
	profile, err := e.registry.Lookup(token)
	if err != nil {
		return "", err
	}
	return profile.ID, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
