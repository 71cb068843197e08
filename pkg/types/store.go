package types

import (
	"context"
	"errors"
)

// ProductStore provides CRUD access to persisted products. Each call is an
// independent unit of work; failures are returned immediately.
type ProductStore interface {
	// Create inserts a new product and returns the id assigned by the store.
	Create(ctx context.Context, in ProductInput) (int64, error)

	// Read returns the products whose name contains search, ordered by name.
	// An empty search returns every product.
	Read(ctx context.Context, search string) ([]Product, error)

	// Get returns the product with the given id.
	// Returns ErrNotFound if no product exists with that id.
	Get(ctx context.Context, id int64) (Product, error)

	// Update overwrites name and quantity of the product with the given id.
	// Returns ErrNotFound if no product exists with that id.
	Update(ctx context.Context, id int64, in ProductInput) error

	// Delete removes the product with the given id.
	// Returns ErrNotFound if no product exists with that id.
	Delete(ctx context.Context, id int64) error
}

// Inventory is backend-agnostic access to the product database. Callers
// attach to a backend, use the product store, and detach when done.
type Inventory interface {
	// Attach connects the Inventory to the backend described by config.
	// Creates the DataDir if it does not exist. Returns ErrAlreadyAttached
	// if called while already attached.
	Attach(config Config) error

	// Products returns the product store.
	// Returns ErrStoreDetached if the Inventory is not attached.
	Products() (ProductStore, error)

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, store operations return ErrStoreDetached.
	Detach() error
}

// Store operation errors.
var (
	ErrNotFound        = errors.New("product not found")
	ErrInvalidID       = errors.New("invalid product ID")
	ErrInvalidName     = errors.New("invalid name")
	ErrInvalidQuantity = errors.New("quantity must be a number")
)

// Backend lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)
