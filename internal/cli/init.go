package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize quantita storage",
		Long:  "Create the configuration file, the data directory and the product database.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Only an explicit --data-dir is recorded; otherwise the
			// platform default keeps applying.
			configPath, written, err := writeConfigIfMissing(a.configDir, a.flags.dataDir)
			if err != nil {
				return sysError(err)
			}

			backend, err := a.attach()
			if err != nil {
				return err
			}
			dbPath := backend.Path()
			if err := backend.Detach(); err != nil {
				return sysError(fmt.Errorf("finalize storage: %w", err))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Quantita initialized successfully")
			if written {
				fmt.Fprintln(out, "  config:  ", configPath, "(created)")
			} else {
				fmt.Fprintln(out, "  config:  ", configPath)
			}
			fmt.Fprintln(out, "  database:", dbPath)
			return nil
		},
	}
}
