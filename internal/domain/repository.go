package domain

import "context"

// CartCache is the durable local cart cache. It is a best-effort cache, not a
// durability guarantee: Persist swallows storage errors and Load degrades to
// an empty sequence on missing or corrupt state, never failing the caller.
type CartCache interface {
	Persist(lines []CartLine)
	Load() []CartLine
	Clear()
}

// StoreGateway is the client-side view of the remote catalog/cart/order/auth
// service. Consumers define this interface; the HTTP adapter implements it.
type StoreGateway interface {
	FetchProducts(ctx context.Context) ([]Product, error)
	FetchCart(ctx context.Context) ([]CartLine, error)
	AddCartItem(ctx context.Context, productID, quantity int) error
	DeleteCartItem(ctx context.Context, remoteID int) error
	CreateOrder(ctx context.Context, order *Order) error
	TriggerCatalogUpdate(ctx context.Context) (string, error)
}

// AuthGateway covers the session endpoints. Cart reconciliation itself is
// identity-agnostic: it syncs whatever cart the service returns for the
// current session.
type AuthGateway interface {
	Me(ctx context.Context) (*User, error)
	Login(ctx context.Context, username, password string) (*User, error)
	Register(ctx context.Context, username, email, password string) (*User, error)
	Logout(ctx context.Context) error
}
