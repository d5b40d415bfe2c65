package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/herostore/internal/api"
	"github.com/mesh-intelligence/herostore/internal/logging"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	var (
		listen   string
		seedFile string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the sqlite store as a REST API",
		Long: `Serve exposes the local sqlite store over HTTP so that the http backend
(and any json-server client) can use it. It runs until interrupted.

Example:
  heroes serve --listen :7626 --seed db.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			logger, err := logging.Setup(cmd.ErrOrStderr(), settings.LogFormat, settings.LogLevel)
			if err != nil {
				return err
			}
			if listen == "" {
				listen = settings.Listen
			}
			if seedFile == "" {
				seedFile = settings.SeedFile
			}

			backend, err := openBackend(cmd.Context(), settings, logger, seedFile)
			if err != nil {
				return err
			}
			defer backend.Detach()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := api.NewServer(backend, logger)
			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start(listen) }()

			select {
			case err := <-errCh:
				if err != nil {
					return systemErr("serve", err)
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return systemErr("shutdown", err)
			}
			return <-errCh
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&seedFile, "seed", "", "db.json file to import before serving")
	return cmd
}
