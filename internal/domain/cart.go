package domain

// CartLine is one entry of the in-memory cart. A line with RemoteID zero is
// local-only: it exists only in the durable local cache and in memory, keyed
// by ProductID. A line with a non-zero RemoteID is server-backed and the
// RemoteID is the authoritative key for deletion.
type CartLine struct {
	ProductID int     `json:"product_id"`
	RemoteID  int     `json:"cart_id,omitempty"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"image_url"`
	Quantity  int     `json:"quantity"`
}

// ServerBacked reports whether the line is acknowledged by the remote service.
func (l CartLine) ServerBacked() bool {
	return l.RemoteID != 0
}

// Subtotal is the line's contribution to the cart total. A quantity below one
// counts as one; a price that cannot be coerced to a finite number counts as
// zero so one malformed catalog entry never corrupts the displayed total.
func (l CartLine) Subtotal() float64 {
	qty := l.Quantity
	if qty < 1 {
		qty = 1
	}
	return CoerceNumber(l.Price) * float64(qty)
}
