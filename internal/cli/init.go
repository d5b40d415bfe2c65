package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/herostore/internal/config"
	"github.com/mesh-intelligence/herostore/internal/logging"
	"github.com/mesh-intelligence/herostore/internal/paths"
)

func newInitCmd() *cobra.Command {
	var seedFile string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config and create the local data store",
		Long: `Init writes config.yaml into the config directory (an existing file is
kept), creates the sqlite data directory with one JSONL file per collection
and optionally imports a json-server style db.json.

Example:
  heroes init
  heroes init --seed db.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := paths.ResolveConfigDir(flags.configDir)
			if err != nil {
				return systemErr("resolve config dir", err)
			}
			wrote, err := config.WriteDefault(configDir, flags.dataDir)
			if err != nil {
				return systemErr("write config", err)
			}

			settings, err := loadSettings()
			if err != nil {
				return err
			}
			logger, err := logging.Setup(cmd.ErrOrStderr(), settings.LogFormat, settings.LogLevel)
			if err != nil {
				return err
			}

			if seedFile == "" {
				seedFile = settings.SeedFile
			}
			backend, err := openBackend(cmd.Context(), settings, logger, seedFile)
			if err != nil {
				return err
			}
			if err := backend.Detach(); err != nil {
				return systemErr("detach backend", err)
			}

			out := cmd.OutOrStdout()
			if flags.jsonMode {
				return printJSON(out, map[string]any{
					"config_file":    paths.ConfigFile(configDir),
					"config_written": wrote,
					"data_dir":       settings.Store.DataDir,
				})
			}
			if wrote {
				fmt.Fprintf(out, "wrote %s\n", paths.ConfigFile(configDir))
			}
			fmt.Fprintf(out, "heroes initialized in %s\n", settings.Store.DataDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&seedFile, "seed", "", "db.json file to import into the sqlite store")
	return cmd
}
