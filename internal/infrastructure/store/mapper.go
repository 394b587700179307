package store

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/dnsby/storefront/internal/domain"
)

// flexNumber decodes a field the service emits either as a JSON number or as
// a numeric string (prices come back both ways depending on the serializer).
// Anything else coerces to zero; the raw form is kept for display.
type flexNumber struct {
	Value float64
	Raw   string
}

func (f *flexNumber) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			f.Raw = s
			f.Value = domain.CoerceNumber(s)
			return nil
		}
	}
	var n float64
	if err := json.Unmarshal(trimmed, &n); err == nil {
		f.Raw = string(trimmed)
		f.Value = domain.CoerceNumber(n)
		return nil
	}
	f.Raw = string(trimmed)
	f.Value = 0
	return nil
}

// wireProduct mirrors one /products/ row as consumed.
type wireProduct struct {
	ID       int        `json:"id"`
	Title    string     `json:"title"`
	Price    flexNumber `json:"price"`
	ImageURL string     `json:"image_url"`
}

// wireCartRow mirrors one /cart/ row: {id, product, quantity}.
type wireCartRow struct {
	ID       int         `json:"id"`
	Product  wireProduct `json:"product"`
	Quantity flexNumber  `json:"quantity"`
}

// unwrapRows accepts the two list shapes the service uses: a bare JSON array
// or a paginated {results: [...]} wrapper. A JSON null is treated as an empty
// list without error; any other shape is empty with ErrUnexpectedPayload.
func unwrapRows(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var rows []json.RawMessage
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return nil, domain.ErrUnexpectedPayload
		}
		return rows, nil
	}

	if trimmed[0] == '{' {
		var wrapper struct {
			Results json.RawMessage `json:"results"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, domain.ErrUnexpectedPayload
		}
		inner := bytes.TrimSpace(wrapper.Results)
		if len(inner) == 0 || string(inner) == "null" {
			return nil, domain.ErrUnexpectedPayload
		}
		var rows []json.RawMessage
		if err := json.Unmarshal(inner, &rows); err != nil {
			return nil, domain.ErrUnexpectedPayload
		}
		return rows, nil
	}

	return nil, domain.ErrUnexpectedPayload
}

// mapProduct converts a wire product into the domain snapshot form, coercing
// the price on ingress so the loose typing never crosses this boundary.
func mapProduct(w wireProduct) domain.Product {
	return domain.Product{
		ID:       w.ID,
		Title:    w.Title,
		Price:    w.Price.Value,
		RawPrice: strings.Trim(w.Price.Raw, `"`),
		ImageURL: w.ImageURL,
	}
}

// mapCartRow converts a wire cart row into a server-backed CartLine. The
// remote row id becomes the authoritative RemoteID; a quantity the service
// reports as missing or below one counts as one.
func mapCartRow(w wireCartRow) domain.CartLine {
	qty := int(w.Quantity.Value)
	if qty < 1 {
		qty = 1
	}
	return domain.CartLine{
		ProductID: w.Product.ID,
		RemoteID:  w.ID,
		Title:     w.Product.Title,
		Price:     w.Product.Price.Value,
		ImageURL:  w.Product.ImageURL,
		Quantity:  qty,
	}
}
