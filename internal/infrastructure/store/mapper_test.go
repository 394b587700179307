package store

import (
	"encoding/json"
	"testing"

	"github.com/dnsby/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexNumber(t *testing.T) {
	tests := []struct {
		name string
		json string
		want float64
	}{
		{"plain number", `1299.5`, 1299.5},
		{"integer", `55`, 55},
		{"numeric string", `"199.90"`, 199.90},
		{"string with currency suffix", `"199.90 BYN"`, 199.90},
		{"garbage string", `"n/a"`, 0},
		{"empty string", `""`, 0},
		{"null", `null`, 0},
		{"object", `{"amount": 5}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f flexNumber
			err := json.Unmarshal([]byte(tt.json), &f)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Value)
		})
	}
}

func TestUnwrapRows(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		rows, err := unwrapRows([]byte(`[{"id": 1}, {"id": 2}]`))
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("results wrapper", func(t *testing.T) {
		rows, err := unwrapRows([]byte(`{"count": 2, "results": [{"id": 1}, {"id": 2}]}`))
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("null is empty without error", func(t *testing.T) {
		rows, err := unwrapRows([]byte(`null`))
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("empty body is empty without error", func(t *testing.T) {
		rows, err := unwrapRows(nil)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("object without results", func(t *testing.T) {
		_, err := unwrapRows([]byte(`{"detail": "throttled"}`))
		assert.ErrorIs(t, err, domain.ErrUnexpectedPayload)
	})

	t.Run("scalar payload", func(t *testing.T) {
		_, err := unwrapRows([]byte(`42`))
		assert.ErrorIs(t, err, domain.ErrUnexpectedPayload)
	})

	t.Run("results is not an array", func(t *testing.T) {
		_, err := unwrapRows([]byte(`{"results": "nope"}`))
		assert.ErrorIs(t, err, domain.ErrUnexpectedPayload)
	})
}

func TestMapProduct(t *testing.T) {
	var w wireProduct
	raw := `{"id": 7, "title": "Телевизор Samsung 55\" QLED", "price": "199.90", "image_url": "http://img/7.jpg"}`
	require.NoError(t, json.Unmarshal([]byte(raw), &w))

	p := mapProduct(w)
	assert.Equal(t, 7, p.ID)
	assert.Equal(t, `Телевизор Samsung 55" QLED`, p.Title)
	assert.Equal(t, 199.90, p.Price)
	assert.Equal(t, "199.90", p.RawPrice)
	assert.Equal(t, "http://img/7.jpg", p.ImageURL)
}

func TestMapCartRow(t *testing.T) {
	t.Run("maps remote identity and product fields", func(t *testing.T) {
		var w wireCartRow
		raw := `{"id": 42, "product": {"id": 7, "title": "Телевизор LG 43\"", "price": 899.0, "image_url": "http://img/7.jpg"}, "quantity": 3}`
		require.NoError(t, json.Unmarshal([]byte(raw), &w))

		line := mapCartRow(w)
		assert.Equal(t, 42, line.RemoteID)
		assert.Equal(t, 7, line.ProductID)
		assert.Equal(t, 3, line.Quantity)
		assert.Equal(t, 899.0, line.Price)
		assert.True(t, line.ServerBacked())
	})

	t.Run("quantity below one counts as one", func(t *testing.T) {
		var w wireCartRow
		raw := `{"id": 42, "product": {"id": 7}, "quantity": 0}`
		require.NoError(t, json.Unmarshal([]byte(raw), &w))

		assert.Equal(t, 1, mapCartRow(w).Quantity)
	})

	t.Run("missing quantity counts as one", func(t *testing.T) {
		var w wireCartRow
		raw := `{"id": 42, "product": {"id": 7}}`
		require.NoError(t, json.Unmarshal([]byte(raw), &w))

		assert.Equal(t, 1, mapCartRow(w).Quantity)
	})
}
