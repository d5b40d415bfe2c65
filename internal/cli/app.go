package cli

import (
	"context"
	"io"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/herostore/internal/config"
	"github.com/mesh-intelligence/herostore/internal/httpgw"
	"github.com/mesh-intelligence/herostore/internal/logging"
	"github.com/mesh-intelligence/herostore/internal/paths"
	"github.com/mesh-intelligence/herostore/internal/sqlite"
	"github.com/mesh-intelligence/herostore/pkg/store"
	"github.com/mesh-intelligence/herostore/pkg/types"
)

// app is the per-invocation wiring: settings, logger, gateway and store.
type app struct {
	settings config.Settings
	logger   *log.Logger
	gateway  types.Gateway
	store    *store.Store
	out      io.Writer
	close    func() error
}

// loadSettings resolves directories, reads config.yaml and applies the
// global flag overrides.
func loadSettings() (config.Settings, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return config.Settings{}, systemErr("resolve config dir", err)
	}

	v, err := config.Load(configDir)
	if err != nil {
		return config.Settings{}, err
	}
	if flags.backend != "" {
		v.Set(config.KeyBackend, flags.backend)
	}
	if flags.apiURL != "" {
		v.Set(config.KeyAPIURL, flags.apiURL)
	}
	if flags.logLevel != "" {
		v.Set(config.KeyLogLevel, flags.logLevel)
	}

	dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(config.KeyDataDir))
	if err != nil {
		return config.Settings{}, systemErr("resolve data dir", err)
	}
	return config.Decode(v, dataDir)
}

// newApp loads settings and opens the configured gateway. The caller must
// call app.close when done.
func newApp(cmd *cobra.Command) (*app, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}

	logger, err := logging.Setup(cmd.ErrOrStderr(), settings.LogFormat, settings.LogLevel)
	if err != nil {
		return nil, err
	}

	a := &app{
		settings: settings,
		logger:   logger,
		out:      cmd.OutOrStdout(),
		close:    func() error { return nil },
	}

	switch settings.Store.Backend {
	case types.BackendSQLite:
		backend, err := openBackend(cmd.Context(), settings, logger, "")
		if err != nil {
			return nil, err
		}
		a.gateway = backend
		a.close = backend.Detach
	default:
		a.gateway = httpgw.FromConfig(settings.Store)
	}

	opts := []store.Option{
		store.WithRegistry(settings.Store.Registry()),
		store.WithLogger(logger),
	}
	if settings.StrictOrdering {
		opts = append(opts, store.WithStrictOrdering())
	}
	a.store = store.New(a.gateway, opts...)
	return a, nil
}

// openBackend attaches a SQLite backend over the configured data dir and
// imports seedFile when it is non-empty.
func openBackend(ctx context.Context, settings config.Settings, logger log.Interface, seedFile string) (*sqlite.Backend, error) {
	cfg := settings.Store
	cfg.Backend = types.BackendSQLite

	backend := sqlite.NewBackend()
	backend.SetLogger(logger)
	if err := backend.Attach(cfg); err != nil {
		return nil, systemErr("attach backend", err)
	}

	if seedFile != "" {
		inserted, err := backend.SeedFile(ctx, seedFile)
		if err != nil {
			backend.Detach()
			return nil, systemErr("seed", err)
		}
		for collection, n := range inserted {
			logger.WithFields(log.Fields{"collection": collection, "count": n}).Info("seeded")
		}
	}
	return backend, nil
}

// withApp runs fn with a fully wired app and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(a *app) error) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	return fn(a)
}
