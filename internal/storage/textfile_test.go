package storage

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/stockroom/internal/common"
	"github.com/Veraticus/stockroom/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTextStorage(t *testing.T) *TextStorage {
	t.Helper()
	dir := t.TempDir()
	store, err := NewTextStorage(filepath.Join(dir, DefaultDataFile), filepath.Join(dir, DefaultTransactionsFile))
	require.NoError(t, err)
	return store
}

func sampleInventory() []model.Category {
	groceries := model.NewCategory(model.CategoryGroceries)
	groceries.NewProduct("Milk", decimal.RequireFromString("2.50"), 10, "2025-01-01")
	electronics := model.NewCategory(model.CategoryElectronics)
	electronics.NewProduct("Laptop", decimal.RequireFromString("999.99"), 3, "N/A")
	return []model.Category{groceries, electronics}
}

func TestNewTextStorage_Validation(t *testing.T) {
	_, err := NewTextStorage("", "tx.txt")
	assert.ErrorIs(t, err, ErrEmptyString)

	_, err = NewTextStorage("data.txt", "  ")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestTextStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := createTextStorage(t)

	require.NoError(t, store.SaveInventory(ctx, sampleInventory()))

	loaded, err := store.LoadInventory(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "Laptop", loaded[1].Products[0].Name)
	assert.Equal(t, model.KindElectronics, loaded[1].Products[0].Kind)

	// No temporary file is left behind.
	entries, err := os.ReadDir(filepath.Dir(store.DataPath()))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestTextStorage_LoadMissingFile(t *testing.T) {
	store := createTextStorage(t)

	categories, err := store.LoadInventory(context.Background())
	assert.Nil(t, categories)
	assert.ErrorIs(t, err, common.ErrIO)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestTextStorage_SaveRejectsUnwritableProducts(t *testing.T) {
	store := createTextStorage(t)
	cat := model.NewCategory(model.CategoryGroceries)
	cat.NewProduct("Whole Milk", decimal.RequireFromString("2.50"), 1, "2025-01-01")

	err := store.SaveInventory(context.Background(), []model.Category{cat})
	assert.ErrorIs(t, err, ErrInvalidProduct)

	_, statErr := os.Stat(store.DataPath())
	assert.True(t, os.IsNotExist(statErr), "inventory file must not be created")
}

func TestTextStorage_SaveToMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	store, err := NewTextStorage(filepath.Join(dir, "data.txt"), filepath.Join(dir, "tx.txt"))
	require.NoError(t, err)

	err = store.SaveInventory(context.Background(), sampleInventory())
	assert.ErrorIs(t, err, common.ErrIO)
}

func TestTextStorage_Transactions(t *testing.T) {
	ctx := context.Background()
	store := createTextStorage(t)

	txns, err := store.LoadTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, txns)

	require.NoError(t, store.SaveTransactions(ctx, []model.Transaction{
		model.NewSale("Milk", 3, decimal.RequireFromString("7.50")),
	}))
	require.NoError(t, store.SaveTransactions(ctx, []model.Transaction{
		model.NewSale("Bread", 1, decimal.RequireFromString("1.25")),
	}))

	txns, err = store.LoadTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txns, 1, "log is overwritten on each save")
	assert.Equal(t, "Sold: Bread x1 for 1.25", txns[0].String())
}

func TestTextStorage_CanceledContext(t *testing.T) {
	store := createTextStorage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.LoadInventory(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.SaveInventory(ctx, nil), context.Canceled)
}
