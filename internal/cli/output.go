package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/quantita/internal/screen"
	"github.com/mesh-intelligence/quantita/pkg/types"
)

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("marshal output: %w", err))
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// writeRows prints rows as an aligned table followed by the total.
func writeRows(w io.Writer, rows []screen.Row, total decimal.Decimal) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, " \tID\tNAME\tQUANTITY")
	for _, r := range rows {
		fmt.Fprintln(tw, r.String())
	}
	tw.Flush()

	noun := "products"
	if len(rows) == 1 {
		noun = "product"
	}
	fmt.Fprintf(w, "%d %s, total quantity %s\n", len(rows), noun, total.String())
}

// writeProduct prints a single product.
func writeProduct(w io.Writer, p types.Product) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", p.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", p.Name)
	fmt.Fprintf(tw, "Quantity:\t%s\n", p.Quantity)
	tw.Flush()
}

// parseID parses a product id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, userError(fmt.Errorf("%w: %q", types.ErrInvalidID, arg))
	}
	return id, nil
}

// alertWriter prints screen alerts to w. Alerts with a title are prefixed
// with it.
func alertWriter(w io.Writer) screen.Alerter {
	return screen.AlertFunc(func(title, message string) {
		if title != "" {
			fmt.Fprintf(w, "%s: %s\n", title, message)
			return
		}
		fmt.Fprintln(w, message)
	})
}

// silentAlerts discards screen alerts; used in JSON mode.
var silentAlerts = screen.AlertFunc(func(string, string) {})
