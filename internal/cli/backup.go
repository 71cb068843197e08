package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/quantita/internal/sqlite"
	"github.com/mesh-intelligence/quantita/pkg/types"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write all products to a JSONL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(backend *sqlite.Backend, _ types.ProductStore) error {
				n, err := backend.Export(cmd.Context(), args[0])
				if err != nil {
					return sysError(err)
				}
				if a.flags.jsonMode {
					return writeJSON(cmd.OutOrStdout(), map[string]any{"exported": n, "file": args[0]})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d products to %s\n", n, args[0])
				return nil
			})
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Load products from a JSONL file",
		Long: `Import reads one product per line. Products with an id replace the
stored product with that id; products without one are added. Blank and
malformed lines are skipped. An invalid product aborts the whole import.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(backend *sqlite.Backend, _ types.ProductStore) error {
				n, err := backend.Import(cmd.Context(), args[0])
				if err != nil {
					return commandError(err)
				}
				if a.flags.jsonMode {
					return writeJSON(cmd.OutOrStdout(), map[string]any{"imported": n, "file": args[0]})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d products from %s\n", n, args[0])
				return nil
			})
		},
	}
}
