package usecase

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/dnsby/storefront/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CatalogServiceConfig holds configuration for the catalog service.
type CatalogServiceConfig struct {
	// PollInterval and PollAttempts bound the refetch loop after a catalog
	// update trigger: the service reports success before the re-scrape
	// finishes, so we poll /products/ until the snapshot changes.
	PollInterval time.Duration
	PollAttempts int
}

// CatalogService owns the read-only product snapshot and derives the
// sortable/filterable views from it. Derivation never mutates the snapshot.
type CatalogService struct {
	store    domain.StoreGateway
	collator *collate.Collator

	pollInterval time.Duration
	pollAttempts int

	mu       sync.RWMutex
	products []domain.Product
	facets   domain.Facets
	options  []domain.SortSpec
	selected domain.SortSpec
}

// NewCatalogService creates a catalog service with dependencies. Brand facets
// are collated for Russian, matching the catalog's locale.
func NewCatalogService(store domain.StoreGateway, config CatalogServiceConfig) *CatalogService {
	pollInterval := config.PollInterval
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	pollAttempts := config.PollAttempts
	if pollAttempts <= 0 {
		pollAttempts = 10
	}

	s := &CatalogService{
		store:        store,
		collator:     collate.New(language.Russian),
		pollInterval: pollInterval,
		pollAttempts: pollAttempts,
	}
	s.replaceSnapshot(nil)
	return s
}

// Refresh replaces the product snapshot wholesale from the remote service.
// A transient failure keeps the previous snapshot; a malformed payload
// replaces it with an empty one, mirroring the service contract. Both return
// the error for the caller to surface.
func (s *CatalogService) Refresh(ctx context.Context) error {
	products, err := s.store.FetchProducts(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrUnexpectedPayload) {
			log.Printf("[CATALOG] unexpected products payload, showing empty catalog")
			s.replaceSnapshot(nil)
		}
		return err
	}

	s.replaceSnapshot(products)
	return nil
}

// replaceSnapshot installs a new snapshot and regenerates facets and sort
// options. If the previously selected spec no longer appears in the fresh
// option list, selection resets to price ascending.
func (s *CatalogService) replaceSnapshot(products []domain.Product) {
	facets := s.DeriveFacets(products)
	options := BuildSortOptions(facets)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = products
	s.facets = facets
	s.options = options
	if !specListed(options, s.selected) {
		s.selected = domain.SortSpec{}
	}
}

// DeriveFacets applies the title extractors to every product, collecting
// distinct brands and screen diagonals. Diagonals come back ascending,
// brands in collated order.
func (s *CatalogService) DeriveFacets(products []domain.Product) domain.Facets {
	brandSet := make(map[string]struct{})
	diagSet := make(map[int]struct{})

	for _, p := range products {
		if brand, ok := ExtractBrand(p.Title); ok {
			brandSet[brand] = struct{}{}
		}
		if diag, ok := ExtractScreenSize(p.Title); ok {
			diagSet[diag] = struct{}{}
		}
	}

	facets := domain.Facets{
		Brands:    make([]string, 0, len(brandSet)),
		Diagonals: make([]int, 0, len(diagSet)),
	}
	for brand := range brandSet {
		facets.Brands = append(facets.Brands, brand)
	}
	for diag := range diagSet {
		facets.Diagonals = append(facets.Diagonals, diag)
	}

	sort.Ints(facets.Diagonals)
	s.collator.SortStrings(facets.Brands)
	return facets
}

// BuildSortOptions produces the deterministic option list for a facet set:
// both price directions first, then one option per diagonal, then one per
// brand.
func BuildSortOptions(facets domain.Facets) []domain.SortSpec {
	options := make([]domain.SortSpec, 0, 2+len(facets.Diagonals)+len(facets.Brands))
	options = append(options,
		domain.SortSpec{Kind: domain.SortPriceAsc},
		domain.SortSpec{Kind: domain.SortPriceDesc},
	)
	for _, diag := range facets.Diagonals {
		options = append(options, domain.SortSpec{Kind: domain.SortDiagonal, Diagonal: diag})
	}
	for _, brand := range facets.Brands {
		options = append(options, domain.SortSpec{Kind: domain.SortBrand, Brand: brand})
	}
	return options
}

// ApplySort derives a sorted (and possibly filtered) view of products without
// mutating the input. Price sorts are stable: equal prices keep their
// original relative order. Filters narrow by the extracted facet, then sort
// by price ascending. Anything unrecognized falls back to price ascending
// over the unfiltered list.
func ApplySort(products []domain.Product, spec domain.SortSpec) []domain.Product {
	view := make([]domain.Product, len(products))
	copy(view, products)

	switch spec.Kind {
	case domain.SortPriceDesc:
		sort.SliceStable(view, func(i, j int) bool {
			return domain.CoerceNumber(view[i].Price) > domain.CoerceNumber(view[j].Price)
		})
	case domain.SortDiagonal:
		view = filterProducts(view, func(p domain.Product) bool {
			diag, ok := ExtractScreenSize(p.Title)
			return ok && diag == spec.Diagonal
		})
		sortByPriceAsc(view)
	case domain.SortBrand:
		view = filterProducts(view, func(p domain.Product) bool {
			brand, ok := ExtractBrand(p.Title)
			return ok && brand == spec.Brand
		})
		sortByPriceAsc(view)
	default:
		sortByPriceAsc(view)
	}
	return view
}

func sortByPriceAsc(products []domain.Product) {
	sort.SliceStable(products, func(i, j int) bool {
		return domain.CoerceNumber(products[i].Price) < domain.CoerceNumber(products[j].Price)
	})
}

func filterProducts(products []domain.Product, keep func(domain.Product) bool) []domain.Product {
	filtered := products[:0]
	for _, p := range products {
		if keep(p) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func specListed(options []domain.SortSpec, spec domain.SortSpec) bool {
	for _, opt := range options {
		if opt == spec {
			return true
		}
	}
	return false
}

// Select switches the current view to spec if it is one of the derived
// options, otherwise to price ascending. It returns the effective selection.
func (s *CatalogService) Select(spec domain.SortSpec) domain.SortSpec {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !specListed(s.options, spec) {
		spec = domain.SortSpec{}
	}
	s.selected = spec
	return spec
}

// Selected returns the currently selected sort spec.
func (s *CatalogService) Selected() domain.SortSpec {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// View returns the products under the current selection.
func (s *CatalogService) View() []domain.Product {
	s.mu.RLock()
	products := s.products
	selected := s.selected
	s.mu.RUnlock()

	return ApplySort(products, selected)
}

// Products returns a copy of the raw snapshot in fetch order.
func (s *CatalogService) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, len(s.products))
	copy(products, s.products)
	return products
}

// ProductByID looks a product up in the current snapshot.
func (s *CatalogService) ProductByID(id int) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// Facets returns the facets derived from the current snapshot.
func (s *CatalogService) Facets() domain.Facets {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.facets
}

// SortOptions returns the current option list.
func (s *CatalogService) SortOptions() []domain.SortSpec {
	s.mu.RLock()
	defer s.mu.RUnlock()

	options := make([]domain.SortSpec, len(s.options))
	copy(options, s.options)
	return options
}

// TriggerUpdate asks the service to re-scrape its catalog, then polls for the
// new snapshot in the background. The poll is fire-and-forget: the trigger
// response carries no data, only eventual consistency.
func (s *CatalogService) TriggerUpdate(ctx context.Context) (string, error) {
	message, err := s.store.TriggerCatalogUpdate(ctx)
	if err != nil {
		return "", err
	}

	go s.awaitRefresh(context.Background())
	return message, nil
}

// awaitRefresh refetches the catalog at the configured interval until the
// snapshot changes or attempts run out.
func (s *CatalogService) awaitRefresh(ctx context.Context) {
	before := s.Products()

	for attempt := 1; attempt <= s.pollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.pollInterval):
		}

		if err := s.Refresh(ctx); err != nil {
			log.Printf("[CATALOG] refresh poll %d failed: %v", attempt, err)
			continue
		}
		if !snapshotsEqual(before, s.Products()) {
			log.Printf("[CATALOG] catalog updated after %d poll(s)", attempt)
			return
		}
	}
	log.Printf("[CATALOG] catalog unchanged after %d polls", s.pollAttempts)
}

func snapshotsEqual(a, b []domain.Product) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
