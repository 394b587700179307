package cache

import (
	"testing"

	"github.com/dnsby/storefront/internal/domain"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache() (*FileCartCache, afero.Fs) {
	fs := afero.NewMemMapFs()
	return NewFileCartCache(fs, "/data"), fs
}

func TestPersistAndLoad(t *testing.T) {
	cache, _ := newTestCache()

	lines := []domain.CartLine{
		{ProductID: 7, Title: `Телевизор Samsung 55" QLED`, Price: 199.90, Quantity: 2},
		{ProductID: 9, RemoteID: 42, Title: `Телевизор LG 43"`, Price: 899, Quantity: 1},
	}
	cache.Persist(lines)

	loaded := cache.Load()
	assert.Equal(t, lines, loaded)
}

func TestLoad_MissingFile(t *testing.T) {
	cache, _ := newTestCache()

	loaded := cache.Load()
	assert.NotNil(t, loaded)
	assert.Empty(t, loaded)
}

func TestLoad_CorruptEncoding(t *testing.T) {
	cache, fs := newTestCache()
	require.NoError(t, afero.WriteFile(fs, "/data/dns_by_cart_v1.json", []byte(`{"not":"an array"`), 0o644))

	loaded := cache.Load()
	assert.NotNil(t, loaded)
	assert.Empty(t, loaded)
}

func TestLoad_NonArrayValue(t *testing.T) {
	cache, fs := newTestCache()
	require.NoError(t, afero.WriteFile(fs, "/data/dns_by_cart_v1.json", []byte(`{"id": 1}`), 0o644))

	assert.Empty(t, cache.Load())
}

func TestLoad_NullValue(t *testing.T) {
	cache, fs := newTestCache()
	require.NoError(t, afero.WriteFile(fs, "/data/dns_by_cart_v1.json", []byte(`null`), 0o644))

	loaded := cache.Load()
	assert.NotNil(t, loaded)
	assert.Empty(t, loaded)
}

func TestPersistLoadIdempotent(t *testing.T) {
	cache, fs := newTestCache()

	cache.Persist([]domain.CartLine{{ProductID: 3, Title: "Телевизор TCL 32\"", Price: 499, Quantity: 1}})
	first, err := afero.ReadFile(fs, "/data/dns_by_cart_v1.json")
	require.NoError(t, err)

	cache.Persist(cache.Load())
	second, err := afero.ReadFile(fs, "/data/dns_by_cart_v1.json")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPersist_StorageFailureIsSilent(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	cache := NewFileCartCache(fs, "/data")

	// Must not panic or surface the error.
	cache.Persist([]domain.CartLine{{ProductID: 1, Quantity: 1}})
	assert.Empty(t, cache.Load())
}

func TestClear(t *testing.T) {
	cache, _ := newTestCache()

	cache.Persist([]domain.CartLine{{ProductID: 1, Quantity: 1}})
	require.Len(t, cache.Load(), 1)

	cache.Clear()
	loaded := cache.Load()
	assert.NotNil(t, loaded)
	assert.Empty(t, loaded)
}

func TestPersist_NilIsEmptyList(t *testing.T) {
	cache, fs := newTestCache()

	cache.Persist(nil)
	data, err := afero.ReadFile(fs, "/data/dns_by_cart_v1.json")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}
