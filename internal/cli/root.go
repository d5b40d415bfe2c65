// Package cli implements the heroes command-line interface. Every command
// goes through a store.Store, so the CLI is the view of the cache: it issues
// commands and prints the resulting collection.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/herostore/pkg/heroes"
	"github.com/mesh-intelligence/herostore/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	apiURL    string
	logLevel  string
	jsonMode  bool
}

var flags rootFlags

// NewRootCmd creates the top-level "heroes" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	flags = rootFlags{}

	root := &cobra.Command{
		Use:     "heroes",
		Short:   "Manage heroes, villains and boys",
		Long:    "heroes lists and edits entity collections through a write-through cache\nbacked by a REST API or a local SQLite store.",
		Version: heroes.Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&flags.dataDir, "data-dir", "", "data directory for the sqlite backend (default: .herostore-db)")
	pf.StringVar(&flags.backend, "backend", "", "gateway backend: http or sqlite (overrides config)")
	pf.StringVar(&flags.apiURL, "api-url", "", "REST API base URL for the http backend (overrides config)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	pf.BoolVar(&flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newGetCmd())
	root.AddCommand(newSearchCmd())
	root.AddCommand(newCreateCmd())
	root.AddCommand(newUpdateCmd())
	root.AddCommand(newDeleteCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "heroes:", err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// sysError marks failures of the environment rather than of the request.
type sysError struct {
	err error
}

func (e *sysError) Error() string { return e.err.Error() }
func (e *sysError) Unwrap() error { return e.err }

func systemErr(format string, err error) error {
	return &sysError{err: fmt.Errorf(format+": %w", err)}
}

// exitCode maps an error onto the CLI exit codes. Network failures and
// environment errors are system errors; everything else is the user's.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var se *sysError
	if errors.As(err, &se) || errors.Is(err, types.ErrNetwork) {
		return exitSysError
	}
	return exitUserError
}
