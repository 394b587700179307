package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/dnsby/storefront/internal/domain"
)

// AddStatus reports how an add landed: acknowledged by the service, or kept
// locally because the service was unreachable.
type AddStatus int

const (
	AddedRemote AddStatus = iota
	AddedLocal
)

// CartService is the cart reconciliation engine. It owns the single in-memory
// cart and merges between the durable local cache and the authoritative
// remote service. The mutex serializes all mutations (this runtime is not
// single-threaded, unlike the event loop the design came from), and the fetch
// sequence numbers discard late-arriving stale cart responses.
type CartService struct {
	cache domain.CartCache
	store domain.StoreGateway

	mu         sync.Mutex
	lines      []domain.CartLine
	issuedSeq  uint64
	appliedSeq uint64
}

// NewCartService creates a cart service with dependencies. The cart is empty
// until Bootstrap runs.
func NewCartService(cache domain.CartCache, store domain.StoreGateway) *CartService {
	return &CartService{
		cache: cache,
		store: store,
		lines: []domain.CartLine{},
	}
}

// Bootstrap seeds the in-memory cart from the local cache synchronously, then
// attempts a remote sync in the background. The caller is never blocked on
// network latency to show a cart: until the fetch succeeds, the cached value
// is authoritative.
func (s *CartService) Bootstrap(ctx context.Context) {
	cached := s.cache.Load()

	s.mu.Lock()
	s.lines = cached
	s.mu.Unlock()

	go func() {
		if err := s.SyncRemote(ctx); err != nil {
			log.Printf("[CART] initial sync failed, keeping cached cart: %v", err)
		}
	}()
}

// SyncRemote fetches the server's cart and, on success, replaces the
// in-memory cart and the cache wholesale with the server's line list.
//
// Wholesale means wholesale: local-only lines added while the service was
// unreachable do not survive a successful sync. That matches the observed
// contract — the server is authoritative for whatever it reports — and is a
// documented consistency gap, not an accident.
func (s *CartService) SyncRemote(ctx context.Context) error {
	s.mu.Lock()
	s.issuedSeq++
	seq := s.issuedSeq
	s.mu.Unlock()

	lines, err := s.store.FetchCart(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrUnexpectedPayload) {
			return err
		}
		// The service answered with a shape we don't recognize; treat it as
		// an empty cart rather than failing the sync.
		log.Printf("[CART] unexpected cart payload, replacing with empty cart")
		lines = nil
	}
	if lines == nil {
		lines = []domain.CartLine{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq < s.appliedSeq {
		log.Printf("[CART] discarding stale cart response (seq %d < %d)", seq, s.appliedSeq)
		return nil
	}
	s.appliedSeq = seq
	s.lines = lines
	s.cache.Persist(s.lines)
	return nil
}

// Add attempts a remote add and trusts the service's resulting cart on
// success. On any remote failure it falls back to a local upsert and reports
// AddedLocal; the operation always leaves the cart usable and never fails
// the caller.
func (s *CartService) Add(ctx context.Context, product domain.Product, quantity int) AddStatus {
	if quantity < 1 {
		quantity = 1
	}

	if err := s.store.AddCartItem(ctx, product.ID, quantity); err != nil {
		log.Printf("[CART] remote add failed, adding locally: %v", err)
		s.upsertLocal(product, quantity)
		return AddedLocal
	}

	if err := s.SyncRemote(ctx); err != nil {
		// The add landed; the view just lags until the next successful sync.
		log.Printf("[CART] cart refetch after add failed: %v", err)
	}
	return AddedRemote
}

// upsertLocal increments the local-only line for the product or appends a new
// one, then persists. A prior quantity below one counts as one before the
// delta is applied.
func (s *CartService) upsertLocal(product domain.Product, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, line := range s.lines {
		if !line.ServerBacked() && line.ProductID == product.ID {
			prev := line.Quantity
			if prev < 1 {
				prev = 1
			}
			s.lines[i].Quantity = prev + delta
			s.cache.Persist(s.lines)
			return
		}
	}

	s.lines = append(s.lines, domain.CartLine{
		ProductID: product.ID,
		Title:     product.Title,
		Price:     product.Price,
		ImageURL:  product.ImageURL,
		Quantity:  delta,
	})
	s.cache.Persist(s.lines)
}

// Remove deletes a line from the cart.
//
// A server-backed line is deleted remotely by its remote identity; if the
// delete fails the line stays put and ErrRemoveFailed is returned — removing
// it locally would desynchronize from the authoritative source, a deliberate
// asymmetry from the add path. If the delete succeeds but the follow-up fetch
// fails, the pre-removal cart is kept and ErrCartStale signals that the view
// may lag the server.
//
// A local-only line is removed by product identifier and persisted without
// touching the network.
func (s *CartService) Remove(ctx context.Context, line domain.CartLine) error {
	if line.ServerBacked() {
		if err := s.store.DeleteCartItem(ctx, line.RemoteID); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrRemoveFailed, err)
		}
		if err := s.SyncRemote(ctx); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrCartStale, err)
		}
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.lines[:0]
	for _, l := range s.lines {
		if !l.ServerBacked() && l.ProductID == line.ProductID {
			continue
		}
		kept = append(kept, l)
	}
	s.lines = kept
	s.cache.Persist(s.lines)
	return nil
}

// Lines returns a copy of the current cart in order.
func (s *CartService) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]domain.CartLine, len(s.lines))
	copy(lines, s.lines)
	return lines
}

// Total sums the coerced line subtotals. Pure: no side effects, no network.
func (s *CartService) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for _, line := range s.lines {
		total += line.Subtotal()
	}
	return total
}

// Clear empties the in-memory cart and the local cache.
func (s *CartService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = []domain.CartLine{}
	s.cache.Clear()
}

// Checkout snapshots the cart into the order, validates it, submits it, and
// clears the cart on success.
func (s *CartService) Checkout(ctx context.Context, order *domain.Order) error {
	lines := s.Lines()
	if len(lines) == 0 {
		return fmt.Errorf("%w: cart is empty", domain.ErrInvalidOrder)
	}

	order.Items = make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		id := line.RemoteID
		if id == 0 {
			id = line.ProductID
		}
		order.Items = append(order.Items, domain.OrderItem{
			ID:       id,
			Title:    line.Title,
			Price:    domain.CoerceNumber(line.Price),
			Quantity: line.Quantity,
		})
	}
	order.TotalPrice = s.Total()

	if err := order.Validate(); err != nil {
		return err
	}
	if err := s.store.CreateOrder(ctx, order); err != nil {
		return err
	}

	s.Clear()
	return nil
}
