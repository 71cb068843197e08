package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/quantita/pkg/sqlite"
	"github.com/mesh-intelligence/quantita/pkg/types"
)

func TestNewBackend(t *testing.T) {
	ctx := context.Background()
	inv := sqlite.NewBackend(nil)

	_, err := inv.Products()
	assert.ErrorIs(t, err, types.ErrStoreDetached)

	require.NoError(t, inv.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { _ = inv.Detach() })

	store, err := inv.Products()
	require.NoError(t, err)

	id, err := store.Create(ctx, types.ProductInput{Name: "Rice", Quantity: "10"})
	require.NoError(t, err)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.Product{ID: id, Name: "Rice", Quantity: "10"}, got)

	require.NoError(t, inv.Detach())
	_, err = store.Read(ctx, "")
	assert.ErrorIs(t, err, types.ErrStoreDetached)
}
