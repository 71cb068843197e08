// Package sqlite implements the SQLite storage backend for quantita.
// The database file lives in the configured data directory and is created,
// along with its schema, on first attach.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/quantita/pkg/types"
)

// DBFileName is the name of the database file inside the data directory.
const DBFileName = "quantita.db"

// Compile-time interface check: Backend must implement Inventory.
var _ types.Inventory = (*Backend)(nil)

// Backend owns the SQLite connection and hands out the product store.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	dbPath   string
	db       *sql.DB
	products *productStore
	logger   *slog.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger used for lifecycle and query diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Backend) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach validates config, creates DataDir if it does not exist, opens the
// database file and creates the schema when absent. Existing rows are kept.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, DBFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dbPath, err)
	}
	// SQLite allows a single writer; one connection keeps writes ordered.
	db.SetMaxOpenConns(1)

	if err := createSchema(context.Background(), db); err != nil {
		db.Close()
		return err
	}

	b.db = db
	b.dbPath = dbPath
	b.config = config
	b.products = &productStore{backend: b}
	b.attached = true

	b.logger.Debug("backend attached",
		slog.String("path", dbPath),
		slog.Bool("case_sensitive_search", config.CaseSensitiveSearch))
	return nil
}

// Products returns the product store.
// Returns ErrStoreDetached if the backend is not attached.
func (b *Backend) Products() (types.ProductStore, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.products, nil
}

// Path returns the database file path, or "" when detached.
func (b *Backend) Path() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dbPath
}

// Detach closes the SQLite connection. After Detach, store operations
// return ErrStoreDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return fmt.Errorf("closing database: %w", err)
		}
		b.db = nil
	}

	b.logger.Debug("backend detached", slog.String("path", b.dbPath))
	b.attached = false
	b.dbPath = ""
	b.products = nil
	return nil
}

// createSchema executes the table and index DDL in order.
func createSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaDDL {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}
