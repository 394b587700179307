package domain

// Product is a read-only snapshot of one catalog entry as reported by the
// remote storefront service. The snapshot is replaced wholesale on every
// successful catalog fetch, never merged field by field.
type Product struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	RawPrice string  `json:"raw_price,omitempty"` // price exactly as the service sent it, for display
	ImageURL string  `json:"image_url"`
}
