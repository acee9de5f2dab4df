package localstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "trolley.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUpsertAndItems(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Upsert(Item{ProductID: 1, Name: "Mug", UnitPrice: 9.5, Quantity: 2, StockQuantity: 5}))
	require.NoError(t, s.Upsert(Item{ProductID: 2, Name: "Pen", UnitPrice: 1.25, Quantity: 1, StockQuantity: 100}))

	items, err := s.Items()
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Upsert replaces, never duplicates.
	require.NoError(t, s.Upsert(Item{ProductID: 1, Name: "Mug", UnitPrice: 9.5, Quantity: 3, StockQuantity: 5}))
	items, err = s.Items()
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, it := range items {
		if it.ProductID == 1 {
			assert.Equal(t, 3, it.Quantity)
		}
	}
}

func TestUpsertZeroQuantityDeletes(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Upsert(Item{ProductID: 1, Name: "Mug", UnitPrice: 9.5, Quantity: 1, StockQuantity: 5}))
	require.NoError(t, s.Upsert(Item{ProductID: 1, Name: "Mug", UnitPrice: 9.5, Quantity: 0, StockQuantity: 5}))

	items, err := s.Items()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestClear(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Upsert(Item{ProductID: 1, Name: "Mug", UnitPrice: 9.5, Quantity: 1, StockQuantity: 5}))
	require.NoError(t, s.Clear())

	items, err := s.Items()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trolley.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Upsert(Item{ProductID: 9, Name: "Lamp", UnitPrice: 30, Quantity: 1, StockQuantity: 2}))
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	items, err := s2.Items()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Lamp", items[0].Name)
}
