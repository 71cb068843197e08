package screen

import (
	"fmt"

	"github.com/mesh-intelligence/quantita/pkg/types"
)

// Row is one rendered list entry.
type Row struct {
	types.Product
	Selected bool
}

// String renders the row as tab-separated cells: selection marker, id,
// name and quantity.
func (r Row) String() string {
	marker := " "
	if r.Selected {
		marker = "*"
	}
	return fmt.Sprintf("%s\t%d\t%s\t%s", marker, r.ID, r.Name, r.Quantity)
}

// Rows returns the listed products with the selected one flagged.
func (s *Screen) Rows() []Row {
	rows := make([]Row, len(s.products))
	for i, p := range s.products {
		rows[i] = Row{Product: p, Selected: s.hasSelected && p.ID == s.selected}
	}
	return rows
}
