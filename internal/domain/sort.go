package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// SortKind enumerates the catalog view orderings.
type SortKind int

const (
	SortPriceAsc SortKind = iota
	SortPriceDesc
	SortDiagonal
	SortBrand
)

// SortSpec selects one catalog view: a price direction over the full list, or
// a diagonal/brand filter followed by price ascending. The zero value is
// price ascending, which is also the fallback for anything unrecognized.
type SortSpec struct {
	Kind     SortKind
	Diagonal int
	Brand    string
}

// ParseSortSpec parses the wire form of a sort spec: "price_asc",
// "price_desc", "diag:55" or "brand:Samsung". Unknown input falls back to
// price ascending.
func ParseSortSpec(s string) SortSpec {
	switch {
	case s == "price_desc":
		return SortSpec{Kind: SortPriceDesc}
	case strings.HasPrefix(s, "diag:"):
		n, err := strconv.Atoi(strings.TrimPrefix(s, "diag:"))
		if err != nil || n <= 0 {
			return SortSpec{}
		}
		return SortSpec{Kind: SortDiagonal, Diagonal: n}
	case strings.HasPrefix(s, "brand:"):
		brand := strings.TrimPrefix(s, "brand:")
		if brand == "" {
			return SortSpec{}
		}
		return SortSpec{Kind: SortBrand, Brand: brand}
	default:
		return SortSpec{}
	}
}

// String renders the wire form accepted by ParseSortSpec.
func (s SortSpec) String() string {
	switch s.Kind {
	case SortPriceDesc:
		return "price_desc"
	case SortDiagonal:
		return fmt.Sprintf("diag:%d", s.Diagonal)
	case SortBrand:
		return "brand:" + s.Brand
	default:
		return "price_asc"
	}
}

// Facets are the filter dimensions derived from the current product snapshot.
// Diagonals are sorted ascending numerically, brands in locale-aware order.
type Facets struct {
	Brands    []string `json:"brands"`
	Diagonals []int    `json:"diagonals"`
}
