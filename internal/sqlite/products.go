package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/quantita/pkg/types"
)

// Compile-time interface check: productStore must implement ProductStore.
var _ types.ProductStore = (*productStore)(nil)

// productStore implements types.ProductStore over the produtos table.
type productStore struct {
	backend *Backend
}

// likeEscaper escapes LIKE wildcards so a search term matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Create validates in and inserts a new row.
func (s *productStore) Create(ctx context.Context, in types.ProductInput) (int64, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return 0, err
	}

	s.backend.mu.RLock()
	defer s.backend.mu.RUnlock()
	if !s.backend.attached {
		return 0, types.ErrStoreDetached
	}

	res, err := s.backend.db.ExecContext(ctx,
		"INSERT INTO produtos (nome, quantidade) VALUES (?, ?)",
		in.Name, in.Quantity,
	)
	if err != nil {
		return 0, fmt.Errorf("creating product: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading product id: %w", err)
	}
	return id, nil
}

// Read returns products whose name contains search, ordered by name.
func (s *productStore) Read(ctx context.Context, search string) ([]types.Product, error) {
	s.backend.mu.RLock()
	defer s.backend.mu.RUnlock()
	if !s.backend.attached {
		return nil, types.ErrStoreDetached
	}
	return s.read(ctx, search)
}

// read runs the search query. The caller must hold backend.mu.
func (s *productStore) read(ctx context.Context, search string) ([]types.Product, error) {
	query := "SELECT id, nome, quantidade FROM produtos"
	var args []any
	if search != "" {
		if s.backend.config.CaseSensitiveSearch {
			query += " WHERE instr(nome, ?) > 0"
			args = append(args, search)
		} else {
			// LIKE folds ASCII letters only.
			query += ` WHERE nome LIKE ? ESCAPE '\'`
			args = append(args, "%"+likeEscaper.Replace(search)+"%")
		}
	}
	query += " ORDER BY nome COLLATE NOCASE ASC, id ASC"

	rows, err := s.backend.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reading products: %w", err)
	}
	defer rows.Close()

	products := []types.Product{}
	for rows.Next() {
		var p types.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Quantity); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading products: %w", err)
	}
	return products, nil
}

// Get retrieves a single product by id.
func (s *productStore) Get(ctx context.Context, id int64) (types.Product, error) {
	if id <= 0 {
		return types.Product{}, types.ErrInvalidID
	}

	s.backend.mu.RLock()
	defer s.backend.mu.RUnlock()
	if !s.backend.attached {
		return types.Product{}, types.ErrStoreDetached
	}

	var p types.Product
	err := s.backend.db.QueryRowContext(ctx,
		"SELECT id, nome, quantidade FROM produtos WHERE id = ?", id,
	).Scan(&p.ID, &p.Name, &p.Quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Product{}, types.ErrNotFound
	}
	if err != nil {
		return types.Product{}, fmt.Errorf("getting product %d: %w", id, err)
	}
	return p, nil
}

// Update overwrites name and quantity of row id.
func (s *productStore) Update(ctx context.Context, id int64, in types.ProductInput) error {
	if id <= 0 {
		return types.ErrInvalidID
	}
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return err
	}

	s.backend.mu.RLock()
	defer s.backend.mu.RUnlock()
	if !s.backend.attached {
		return types.ErrStoreDetached
	}

	res, err := s.backend.db.ExecContext(ctx,
		"UPDATE produtos SET nome = ?, quantidade = ? WHERE id = ?",
		in.Name, in.Quantity, id,
	)
	if err != nil {
		return fmt.Errorf("updating product %d: %w", id, err)
	}
	return requireAffected(res, id)
}

// Delete removes row id.
func (s *productStore) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return types.ErrInvalidID
	}

	s.backend.mu.RLock()
	defer s.backend.mu.RUnlock()
	if !s.backend.attached {
		return types.ErrStoreDetached
	}

	res, err := s.backend.db.ExecContext(ctx, "DELETE FROM produtos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting product %d: %w", id, err)
	}
	return requireAffected(res, id)
}

// requireAffected maps a statement that touched no rows to ErrNotFound.
func requireAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows for product %d: %w", id, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}
