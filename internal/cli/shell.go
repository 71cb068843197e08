package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/quantita/internal/screen"
	"github.com/mesh-intelligence/quantita/internal/sqlite"
	"github.com/mesh-intelligence/quantita/pkg/types"
)

const shellHelp = `Commands:
  list                 show the product list
  search [text]        filter the list by name (no text clears the filter)
  name <text>          set the name field
  qty <number>         set the quantity field
  select <id>          select a listed product for editing
  save                 add a product from the form
  update               write the form to the selected product
  submit               save or update, depending on the mode
  delete <id>          delete a product
  reset                clear the form and the selection
  form                 show the form and the mode
  help                 show this help
  quit                 leave the shell
`

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Edit the inventory interactively",
		Long: `Shell reads commands from standard input and keeps a form, a
selection and a search filter between them. Type "help" for the commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(_ *sqlite.Backend, store types.ProductStore) error {
				out := cmd.OutOrStdout()
				sh := &shell{
					screen: screen.New(store, alertWriter(out), a.logger),
					out:    out,
				}
				return sh.run(cmd, cmd.InOrStdin())
			})
		},
	}
}

// shell drives a screen.Screen from text commands.
type shell struct {
	screen *screen.Screen
	out    io.Writer
}

// errQuit ends the command loop.
var errQuit = errors.New("quit")

func (sh *shell) run(cmd *cobra.Command, in io.Reader) error {
	ctx := cmd.Context()
	if err := sh.screen.Load(ctx); err != nil {
		return commandError(err)
	}
	sh.render()

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(sh.out, "%s> ", sh.screen.Mode())
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		verb, arg, _ := strings.Cut(line, " ")
		err := sh.exec(cmd, strings.ToLower(verb), strings.TrimSpace(arg))
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(sh.out, "error:", err)
		}
	}
	fmt.Fprintln(sh.out)
	if err := scanner.Err(); err != nil {
		return sysError(fmt.Errorf("reading input: %w", err))
	}
	return nil
}

func (sh *shell) exec(cmd *cobra.Command, verb, arg string) error {
	ctx := cmd.Context()
	s := sh.screen

	switch verb {
	case "help", "?":
		fmt.Fprint(sh.out, shellHelp)
	case "quit", "exit":
		return errQuit
	case "list":
		if err := s.Load(ctx); err != nil {
			return err
		}
		sh.render()
	case "search":
		if err := s.SetSearch(ctx, arg); err != nil {
			return err
		}
		sh.render()
	case "name":
		s.SetName(arg)
	case "qty", "quantity":
		s.SetQuantity(arg)
	case "select":
		id, err := parseID(arg)
		if err != nil {
			return err
		}
		if err := s.SelectID(id); err != nil {
			return fmt.Errorf("product %d is not listed: %w", id, err)
		}
		sh.render()
	case "save":
		if _, err := s.Save(ctx); err != nil {
			return quiet(err)
		}
		sh.render()
	case "update":
		if err := s.Update(ctx); err != nil {
			return quiet(err)
		}
		sh.render()
	case "submit":
		if err := s.Submit(ctx); err != nil {
			return quiet(err)
		}
		sh.render()
	case "delete":
		id, err := parseID(arg)
		if err != nil {
			return err
		}
		if err := s.Delete(ctx, id); err != nil {
			return err
		}
		sh.render()
	case "reset":
		s.Reset()
	case "form":
		fmt.Fprintf(sh.out, "mode: %s\nname: %s\nquantity: %s\n", s.Mode(), s.Name(), s.Quantity())
	default:
		return fmt.Errorf("unknown command %q (type help)", verb)
	}
	return nil
}

// render prints the current list.
func (sh *shell) render() {
	if search := sh.screen.Search(); search != "" {
		fmt.Fprintf(sh.out, "search: %q\n", search)
	}
	writeRows(sh.out, sh.screen.Rows(), sh.screen.Total())
}

// quiet drops errors the screen has already shown as an alert.
func quiet(err error) error {
	if errors.Is(err, types.ErrInvalidQuantity) ||
		errors.Is(err, types.ErrInvalidName) ||
		errors.Is(err, screen.ErrNoSelection) {
		return nil
	}
	return err
}
