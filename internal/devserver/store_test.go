package devserver

import (
	"context"
	"path/filepath"
	"testing"

	pkgerrors "github.com/interiorhaus/catalog-admin/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(context.Background(), filepath.Join(t.TempDir(), "catalog.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleRecord(name string) ProductRecord {
	return ProductRecord{
		ProductName: name,
		PriceNew:    decimal.RequireFromString("19.99"),
		Brand:       "HomeEssentials",
		Category:    "Home",
		Description: "a lamp",
	}
}

func TestStoreCreateAssignsID(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	created, err := store.Create(context.Background(), sampleRecord("Lamp"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Lamp", created.ProductName)
	assert.True(t, created.PriceNew.Equal(decimal.RequireFromString("19.99")))
}

func TestStoreGetRoundTrip(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	created, err := store.Create(context.Background(), sampleRecord("Lamp"))
	require.NoError(t, err)

	fetched, err := store.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "HomeEssentials", fetched.Brand)
	assert.True(t, fetched.PriceNew.Equal(created.PriceNew))
}

func TestStoreGetMissing(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestStoreListOrdersOldestFirst(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	first, err := store.Create(context.Background(), sampleRecord("First"))
	require.NoError(t, err)
	second, err := store.Create(context.Background(), sampleRecord("Second"))
	require.NoError(t, err)

	records, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, first.ID, records[0].ID)
	assert.Equal(t, second.ID, records[1].ID)
}

func TestStoreUpdateReplacesFields(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	created, err := store.Create(context.Background(), sampleRecord("Lamp"))
	require.NoError(t, err)

	replacement := sampleRecord("Floor Lamp")
	replacement.PriceNew = decimal.RequireFromString("49.90")
	replacement.ImageURL = "/uploads/lamp.png"

	updated, err := store.Update(context.Background(), created.ID, replacement)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Floor Lamp", updated.ProductName)
	assert.Equal(t, "/uploads/lamp.png", updated.ImageURL)
	assert.True(t, updated.PriceNew.Equal(decimal.RequireFromString("49.90")))

	fetched, err := store.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Floor Lamp", fetched.ProductName)
}

func TestStoreUpdateMissing(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	_, err := store.Update(context.Background(), "missing", sampleRecord("Lamp"))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestStoreDelete(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	created, err := store.Create(context.Background(), sampleRecord("Lamp"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), created.ID))

	_, err = store.Get(context.Background(), created.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	err = store.Delete(context.Background(), created.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
