package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// MaxNameLength is the longest product name accepted, in characters.
const MaxNameLength = 200

// MaxQuantityExponent bounds the decimal exponent of a quantity. Sums over
// the list rescale every quantity to a common exponent, so larger exponents
// would build enormous integers.
const MaxQuantityExponent = 1000

// Product is a named item with a quantity.
// Quantity is kept as the text the user entered; it always parses as a
// decimal number once persisted.
type Product struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// Amount parses the stored quantity.
func (p Product) Amount() (decimal.Decimal, error) {
	d, ok := parseQuantity(p.Quantity)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidQuantity, p.Quantity)
	}
	return d, nil
}

// ProductInput carries the user-editable fields of a product.
type ProductInput struct {
	Name     string `json:"name" validate:"required,max=200"`
	Quantity string `json:"quantity" validate:"required,quantity"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails for an empty tag or a nil function.
	_ = v.RegisterValidation("quantity", func(fl validator.FieldLevel) bool {
		return IsQuantity(fl.Field().String())
	})
	return v
}

// IsQuantity reports whether s parses as a decimal number whose exponent
// lies within ±MaxQuantityExponent.
func IsQuantity(s string) bool {
	_, ok := parseQuantity(s)
	return ok
}

func parseQuantity(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, false
	}
	if exp := d.Exponent(); exp > MaxQuantityExponent || exp < -MaxQuantityExponent {
		return decimal.Zero, false
	}
	return d, true
}

// Normalize returns a copy of the input with surrounding whitespace removed.
func (in ProductInput) Normalize() ProductInput {
	return ProductInput{
		Name:     strings.TrimSpace(in.Name),
		Quantity: strings.TrimSpace(in.Quantity),
	}
}

// Validate checks the normalized input. A bad quantity is reported before a
// bad name, so callers that alert on quantity see that error first.
// Returns an error wrapping ErrInvalidQuantity or ErrInvalidName.
func (in ProductInput) Validate() error {
	err := validate.Struct(in.Normalize())
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	var nameErr error
	for _, fe := range fieldErrs {
		switch fe.Field() {
		case "Quantity":
			return fmt.Errorf("%w: %q", ErrInvalidQuantity, in.Quantity)
		case "Name":
			if fe.Tag() == "max" {
				nameErr = fmt.Errorf("%w: longer than %d characters", ErrInvalidName, MaxNameLength)
			} else {
				nameErr = fmt.Errorf("%w: name is required", ErrInvalidName)
			}
		}
	}
	if nameErr != nil {
		return nameErr
	}
	return err
}
