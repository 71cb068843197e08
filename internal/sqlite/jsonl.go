package sqlite

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/quantita/pkg/types"
)

// readJSONL reads a JSONL file and returns each non-empty, parseable line as
// a json.RawMessage. Malformed lines are skipped.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// writeJSONL atomically writes records to a JSONL file using the temp-file,
// fsync, rename pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			return fail(fmt.Errorf("writing record: %w", err))
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail(fmt.Errorf("writing newline: %w", err))
		}
	}
	if err := w.Flush(); err != nil {
		return fail(fmt.Errorf("flushing buffer: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("syncing temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Export writes every product to path, one JSON object per line, and
// returns the number of products written.
func (b *Backend) Export(ctx context.Context, path string) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return 0, types.ErrStoreDetached
	}

	products, err := b.products.read(ctx, "")
	if err != nil {
		return 0, err
	}

	records := make([]json.RawMessage, 0, len(products))
	for _, p := range products {
		data, err := json.Marshal(p)
		if err != nil {
			return 0, fmt.Errorf("encoding product %d: %w", p.ID, err)
		}
		records = append(records, data)
	}
	if err := writeJSONL(path, records); err != nil {
		return 0, fmt.Errorf("exporting products: %w", err)
	}

	b.logger.Debug("products exported", slog.String("path", path), slog.Int("count", len(records)))
	return len(records), nil
}

// Import reads products from a JSONL file and upserts them by id in a single
// transaction, returning the number of products imported. Records without an
// id are inserted with a fresh one. Lines that are not product objects are
// skipped. A product with an invalid id, name or quantity aborts the import
// and leaves the table unchanged.
func (b *Backend) Import(ctx context.Context, path string) (int, error) {
	records, err := readJSONL(path)
	if err != nil {
		return 0, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return 0, types.ErrStoreDetached
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	imported := 0
	for i, rec := range records {
		var p types.Product
		if err := json.Unmarshal(rec, &p); err != nil {
			b.logger.Debug("skipping record", slog.Int("record", i+1), slog.String("error", err.Error()))
			continue
		}
		if p.ID < 0 {
			return 0, fmt.Errorf("record %d: %w", i+1, types.ErrInvalidID)
		}
		in := types.ProductInput{Name: p.Name, Quantity: p.Quantity}.Normalize()
		if err := in.Validate(); err != nil {
			return 0, fmt.Errorf("record %d: %w", i+1, err)
		}

		if p.ID == 0 {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO produtos (nome, quantidade) VALUES (?, ?)",
				in.Name, in.Quantity)
		} else {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO produtos (id, nome, quantidade) VALUES (?, ?, ?)
ON CONFLICT(id) DO UPDATE SET nome = excluded.nome, quantidade = excluded.quantidade`,
				p.ID, in.Name, in.Quantity)
		}
		if err != nil {
			return 0, fmt.Errorf("importing record %d: %w", i+1, err)
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing import: %w", err)
	}

	b.logger.Debug("products imported", slog.String("path", path), slog.Int("count", imported))
	return imported, nil
}
