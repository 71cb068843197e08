package sqlite

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/quantita/pkg/types"
)

func TestWriteJSONLAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.jsonl")

	records := []json.RawMessage{
		json.RawMessage(`{"id":1}`),
		json.RawMessage(`{"id":2}`),
	}
	require.NoError(t, writeJSONL(path, records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\"id\":1}\n{\"id\":2}\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestReadJSONLSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.jsonl")
	content := strings.Join([]string{
		`{"id":1,"name":"Rice","quantity":"10"}`,
		``,
		`{not json`,
		`{"id":2,"name":"Beans","quantity":"5"}`,
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	records, err := readJSONL(path)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestReadJSONLMissingFile(t *testing.T) {
	_, err := readJSONL(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Error(t, err)
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "backup.jsonl")

	src := setupBackend(t, types.Config{})
	srcStore, err := src.Products()
	require.NoError(t, err)
	mustCreate(t, srcStore, "Rice", "10")
	deleted := mustCreate(t, srcStore, "Beans", "5")
	mustCreate(t, srcStore, "Corn", "2.5")
	require.NoError(t, srcStore.Delete(ctx, deleted))

	n, err := src.Export(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	want, err := srcStore.Read(ctx, "")
	require.NoError(t, err)

	dst := setupBackend(t, types.Config{})
	n, err = dst.Import(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	dstStore, err := dst.Products()
	require.NoError(t, err)
	got, err := dstStore.Read(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, want, got, "ids, names and quantities are preserved")

	next := mustCreate(t, dstStore, "Wheat", "1")
	assert.Equal(t, int64(4), next, "new ids continue after the highest imported id")
}

func TestImportUpsertsById(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t, types.Config{})
	store, err := b.Products()
	require.NoError(t, err)
	id := mustCreate(t, store, "Rice", "10")

	path := filepath.Join(t.TempDir(), "in.jsonl")
	content := `{"id":1,"name":"Rice","quantity":"42"}` + "\n" + `{"name":"Beans","quantity":"5"}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	n, err := b.Import(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "42", got.Quantity)

	all, err := store.Read(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestImportSkipsNonProductLines(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t, types.Config{})

	path := filepath.Join(t.TempDir(), "in.jsonl")
	content := strings.Join([]string{
		`{"id":1,"name":"Rice","quantity":"10"}`,
		`42`,
		`[1]`,
		`"Beans"`,
		`{"name":"Corn","quantity":5}`,
		`{"id":2,"name":"Beans","quantity":"5"}`,
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	n, err := b.Import(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	store, err := b.Products()
	require.NoError(t, err)
	all, err := store.Read(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Beans", "Rice"}, names(all))
}

func TestImportRejectsInvalidRecord(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t, types.Config{})

	path := filepath.Join(t.TempDir(), "in.jsonl")
	content := `{"name":"Rice","quantity":"10"}` + "\n" + `{"name":"Beans","quantity":"many"}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := b.Import(ctx, path)
	assert.ErrorIs(t, err, types.ErrInvalidQuantity)

	store, err := b.Products()
	require.NoError(t, err)
	all, err := store.Read(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all, "a failed import leaves the table unchanged")
}

func TestExportDetached(t *testing.T) {
	b := NewBackend()
	_, err := b.Export(context.Background(), filepath.Join(t.TempDir(), "x.jsonl"))
	assert.ErrorIs(t, err, types.ErrStoreDetached)
}
