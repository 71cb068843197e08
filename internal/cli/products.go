package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/quantita/internal/screen"
	"github.com/mesh-intelligence/quantita/internal/sqlite"
	"github.com/mesh-intelligence/quantita/pkg/types"
)

// withStore attaches the backend, runs fn and detaches.
func (a *app) withStore(fn func(backend *sqlite.Backend, store types.ProductStore) error) (err error) {
	backend, err := a.attach()
	if err != nil {
		return err
	}
	defer func() {
		if derr := backend.Detach(); derr != nil && err == nil {
			err = sysError(fmt.Errorf("detach backend: %w", derr))
		}
	}()

	store, err := backend.Products()
	if err != nil {
		return sysError(err)
	}
	return fn(backend, store)
}

// notices returns the Alerter for one-shot commands. Only untitled notices
// are printed; validation alerts are reported through the returned error.
func (a *app) notices(cmd *cobra.Command) screen.Alerter {
	if a.flags.jsonMode {
		return silentAlerts
	}
	out := cmd.OutOrStdout()
	return screen.AlertFunc(func(title, message string) {
		if title == "" {
			fmt.Fprintln(out, message)
		}
	})
}

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <quantity>",
		Short: "Add a product",
		Long: `Add creates a product with the given name and quantity.
The quantity must be a number.

Example:
  quantita add Rice 10
  quantita add "Olive oil" 0.75`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(_ *sqlite.Backend, store types.ProductStore) error {
				s := screen.New(store, a.notices(cmd), a.logger)
				s.SetName(args[0])
				s.SetQuantity(args[1])

				id, err := s.Save(cmd.Context())
				if err != nil {
					return commandError(err)
				}
				if !a.flags.jsonMode {
					return nil
				}
				p, err := store.Get(cmd.Context(), id)
				if err != nil {
					return commandError(err)
				}
				return writeJSON(cmd.OutOrStdout(), p)
			})
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list [search]",
		Short: "List products, optionally filtered by name",
		Long: `List prints the products whose name contains the search text,
ordered by name. Without a search text every product is listed.

Example:
  quantita list
  quantita list rice`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var search string
			if len(args) == 1 {
				search = args[0]
			}
			return a.withStore(func(_ *sqlite.Backend, store types.ProductStore) error {
				s := screen.New(store, silentAlerts, a.logger)
				if err := s.SetSearch(cmd.Context(), search); err != nil {
					return commandError(err)
				}
				if a.flags.jsonMode {
					return writeJSON(cmd.OutOrStdout(), s.Products())
				}
				writeRows(cmd.OutOrStdout(), s.Rows(), s.Total())
				return nil
			})
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a product by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withStore(func(_ *sqlite.Backend, store types.ProductStore) error {
				p, err := store.Get(cmd.Context(), id)
				if err != nil {
					return commandError(err)
				}
				if a.flags.jsonMode {
					return writeJSON(cmd.OutOrStdout(), p)
				}
				writeProduct(cmd.OutOrStdout(), p)
				return nil
			})
		},
	}
}

func newUpdateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update <id> <name> <quantity>",
		Short: "Replace the name and quantity of a product",
		Long: `Update overwrites the name and quantity of an existing product.
The quantity must be a number.

Example:
  quantita update 1 Rice 20`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withStore(func(_ *sqlite.Backend, store types.ProductStore) error {
				current, err := store.Get(cmd.Context(), id)
				if err != nil {
					return commandError(err)
				}

				s := screen.New(store, a.notices(cmd), a.logger)
				s.Select(current)
				s.SetName(args[1])
				s.SetQuantity(args[2])
				if err := s.Update(cmd.Context()); err != nil {
					return commandError(err)
				}
				if !a.flags.jsonMode {
					return nil
				}
				p, err := store.Get(cmd.Context(), id)
				if err != nil {
					return commandError(err)
				}
				return writeJSON(cmd.OutOrStdout(), p)
			})
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a product by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withStore(func(_ *sqlite.Backend, store types.ProductStore) error {
				s := screen.New(store, silentAlerts, a.logger)
				if err := s.Delete(cmd.Context(), id); err != nil {
					return commandError(err)
				}
				if a.flags.jsonMode {
					return writeJSON(cmd.OutOrStdout(), map[string]int64{"deleted": id})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted product %d\n", id)
				return nil
			})
		},
	}
}
