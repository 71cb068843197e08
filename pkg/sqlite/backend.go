// Package sqlite provides the public API for the SQLite inventory backend.
// This package exposes the factory function for creating SQLite backends
// while keeping implementation details internal.
package sqlite

import (
	"log/slog"

	"github.com/mesh-intelligence/quantita/internal/sqlite"
	"github.com/mesh-intelligence/quantita/pkg/types"
)

// NewBackend creates a new SQLite backend instance. A nil logger discards
// diagnostics. The backend is not attached; call Attach with a Config to
// initialize.
//
// Example:
//
//	inv := sqlite.NewBackend(nil)
//	err := inv.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: "/var/lib/quantita",
//	})
//	defer inv.Detach()
//	store, err := inv.Products()
func NewBackend(logger *slog.Logger) types.Inventory {
	return sqlite.NewBackend(sqlite.WithLogger(logger))
}
