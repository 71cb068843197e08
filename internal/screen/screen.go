// Package screen holds the state behind the inventory screen: the product
// form, the current selection, the search text and the listed products.
//
// A Screen has two modes. With no selection the next save creates a
// product; with a selection active the next save updates it. A successful
// save or an explicit Reset returns to create mode.
package screen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/quantita/pkg/types"
)

// Store is the subset of types.ProductStore the screen calls.
type Store interface {
	Create(ctx context.Context, in types.ProductInput) (int64, error)
	Read(ctx context.Context, search string) ([]types.Product, error)
	Update(ctx context.Context, id int64, in types.ProductInput) error
	Delete(ctx context.Context, id int64) error
}

// Alerter shows a blocking message to the user.
type Alerter interface {
	Alert(title, message string)
}

// AlertFunc adapts a function to the Alerter interface.
type AlertFunc func(title, message string)

// Alert calls f(title, message).
func (f AlertFunc) Alert(title, message string) { f(title, message) }

// Mode tells what the next save does.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Alert texts.
const (
	TitleQuantity      = "Quantity"
	TitleName          = "Name"
	MsgQuantityInvalid = "Quantity must be a number."
	MsgNameInvalid     = "Name is required."
	MsgNoSelection     = "No product selected for update."
	MsgUpdated         = "Product updated."
)

// ErrNoSelection is returned by Update when no product is selected.
var ErrNoSelection = errors.New("no product selected")

// Screen is the presentation state of the inventory screen.
type Screen struct {
	store  Store
	alerts Alerter
	logger *slog.Logger

	name     string
	quantity string
	search   string

	selected    int64
	hasSelected bool

	products []types.Product
}

// New creates a Screen in create mode with an empty list. Call Load to fill
// the list. A nil logger discards log output.
func New(store Store, alerts Alerter, logger *slog.Logger) *Screen {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Screen{
		store:    store,
		alerts:   alerts,
		logger:   logger,
		products: []types.Product{},
	}
}

// Name returns the name form field.
func (s *Screen) Name() string { return s.name }

// Quantity returns the quantity form field.
func (s *Screen) Quantity() string { return s.quantity }

// Search returns the current search text.
func (s *Screen) Search() string { return s.search }

// SetName edits the name form field.
func (s *Screen) SetName(name string) { s.name = name }

// SetQuantity edits the quantity form field.
func (s *Screen) SetQuantity(quantity string) { s.quantity = quantity }

// Selected returns the selected product id, if any.
func (s *Screen) Selected() (int64, bool) { return s.selected, s.hasSelected }

// Mode reports whether the next Submit creates or updates.
func (s *Screen) Mode() Mode {
	if s.hasSelected {
		return ModeEdit
	}
	return ModeCreate
}

// Products returns the listed products.
func (s *Screen) Products() []types.Product { return s.products }

// Load reads the products matching the current search into the list.
// On failure the previous list is kept.
func (s *Screen) Load(ctx context.Context) error {
	products, err := s.store.Read(ctx, s.search)
	if err != nil {
		s.logStoreError("reading products failed", err, slog.String("search", s.search))
		return err
	}
	s.products = products
	return nil
}

// SetSearch changes the search text and reloads the list.
func (s *Screen) SetSearch(ctx context.Context, term string) error {
	s.search = term
	return s.Load(ctx)
}

// Select makes p the selected product and copies its fields into the form.
func (s *Screen) Select(p types.Product) {
	s.selected = p.ID
	s.hasSelected = true
	s.name = p.Name
	s.quantity = p.Quantity
}

// SelectID selects the listed product with the given id.
// Returns types.ErrNotFound if it is not in the current list.
func (s *Screen) SelectID(id int64) error {
	for _, p := range s.products {
		if p.ID == id {
			s.Select(p)
			return nil
		}
	}
	return types.ErrNotFound
}

// Reset clears the form and the selection.
func (s *Screen) Reset() {
	s.name = ""
	s.quantity = ""
	s.selected = 0
	s.hasSelected = false
}

// Save creates a product from the form. Invalid input raises an alert and
// no store call is made. On success the list is reloaded and the form reset.
// Returns the new product id.
func (s *Screen) Save(ctx context.Context) (int64, error) {
	in, err := s.validInput()
	if err != nil {
		return 0, err
	}

	id, err := s.store.Create(ctx, in)
	if err != nil {
		s.logStoreError("creating product failed", err, slog.String("name", in.Name))
		return 0, err
	}
	s.alerts.Alert("", fmt.Sprintf("Product saved with ID %d.", id))

	// The product is stored; a failed reload is logged by Load and leaves
	// the previous list in place.
	s.Reset()
	_ = s.Load(ctx)
	return id, nil
}

// Update writes the form to the selected product. Invalid input or a missing
// selection raises an alert and no store call is made. On success the list
// is reloaded and the form reset.
func (s *Screen) Update(ctx context.Context) error {
	in, err := s.validInput()
	if err != nil {
		return err
	}
	if !s.hasSelected {
		s.alerts.Alert("", MsgNoSelection)
		return ErrNoSelection
	}

	if err := s.store.Update(ctx, s.selected, in); err != nil {
		s.logStoreError("updating product failed", err, slog.Int64("id", s.selected))
		return err
	}
	s.alerts.Alert("", MsgUpdated)

	s.Reset()
	_ = s.Load(ctx)
	return nil
}

// Submit saves in create mode and updates in edit mode.
func (s *Screen) Submit(ctx context.Context) error {
	if s.Mode() == ModeEdit {
		return s.Update(ctx)
	}
	_, err := s.Save(ctx)
	return err
}

// Delete removes the product with the given id and reloads the list.
// Deleting the selected product returns the screen to create mode.
func (s *Screen) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		s.logStoreError("deleting product failed", err, slog.Int64("id", id))
		return err
	}
	if s.hasSelected && s.selected == id {
		s.Reset()
	}
	_ = s.Load(ctx)
	return nil
}

// Total sums the quantities of the listed products. Quantities that do not
// parse are skipped.
func (s *Screen) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.products {
		amount, err := p.Amount()
		if err != nil {
			s.logger.Warn("skipping unparsable quantity",
				slog.Int64("id", p.ID),
				slog.String("quantity", p.Quantity))
			continue
		}
		total = total.Add(amount)
	}
	return total
}

// logStoreError logs a failed store call. Missing products and bad ids are
// reported to the user by the caller, so they are logged at debug only.
func (s *Screen) logStoreError(msg string, err error, attrs ...slog.Attr) {
	level := slog.LevelError
	if errors.Is(err, types.ErrNotFound) || errors.Is(err, types.ErrInvalidID) {
		level = slog.LevelDebug
	}
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// validInput validates the form and raises the matching alert on failure.
func (s *Screen) validInput() (types.ProductInput, error) {
	in := types.ProductInput{Name: s.name, Quantity: s.quantity}
	err := in.Validate()
	switch {
	case err == nil:
		return in.Normalize(), nil
	case errors.Is(err, types.ErrInvalidQuantity):
		s.alerts.Alert(TitleQuantity, MsgQuantityInvalid)
	case errors.Is(err, types.ErrInvalidName):
		s.alerts.Alert(TitleName, MsgNameInvalid)
	}
	return types.ProductInput{}, err
}
