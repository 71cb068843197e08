// Package cli implements the quantita command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/quantita/internal/paths"
	"github.com/mesh-intelligence/quantita/internal/screen"
	"github.com/mesh-intelligence/quantita/internal/sqlite"
	"github.com/mesh-intelligence/quantita/pkg/quantita"
	"github.com/mesh-intelligence/quantita/pkg/types"
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
	jsonMode  bool
	logLevel  string
}

// app carries the state shared by the commands of one root command.
type app struct {
	flags     rootFlags
	configDir string
	settings  settings
	logger    *slog.Logger
}

// NewRootCmd creates the top-level "quantita" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	root := &cobra.Command{
		Use:     "quantita",
		Short:   "Track inventory items and their quantities",
		Long:    "Quantita keeps a local inventory of named items with quantities\nin an embedded SQLite database.",
		Version: quantita.Version,
		// Errors are printed once by Execute with the matching exit code.
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newAddCmd(a))
	root.AddCommand(newListCmd(a))
	root.AddCommand(newShowCmd(a))
	root.AddCommand(newUpdateCmd(a))
	root.AddCommand(newDeleteCmd(a))
	root.AddCommand(newExportCmd(a))
	root.AddCommand(newImportCmd(a))
	root.AddCommand(newShellCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// setup resolves directories, loads config.yaml and builds the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	s, err := loadSettings(configDir, a.flags)
	if err != nil {
		return sysError(err)
	}

	a.configDir = configDir
	a.settings = s
	a.logger = newLogger(s.LogLevel, cmd.ErrOrStderr())
	a.logger.Debug("settings loaded",
		slog.String("config_dir", configDir),
		slog.String("data_dir", s.Store.DataDir))
	return nil
}

// attach opens the backend described by the loaded settings. The caller
// must Detach it.
func (a *app) attach() (*sqlite.Backend, error) {
	backend := sqlite.NewBackend(sqlite.WithLogger(a.logger))
	if err := backend.Attach(a.settings.Store); err != nil {
		return nil, sysError(fmt.Errorf("attach backend: %w", err))
	}
	return backend, nil
}

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitError{code: exitSysError, err: err} }

// commandError classifies an error returned by the store or the screen.
func commandError(err error) error {
	switch {
	case errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrInvalidID),
		errors.Is(err, types.ErrInvalidName),
		errors.Is(err, types.ErrInvalidQuantity),
		errors.Is(err, screen.ErrNoSelection):
		return userError(err)
	default:
		return sysError(err)
	}
}

// exitCode returns the exit code carried by err. Errors raised by cobra
// itself, such as bad arguments, are user errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}
