// Package collection holds read-only selectors over the catalog.
package collection

import (
	"strings"

	"artgallery-storefront/internal/domain"

	"github.com/shopspring/decimal"
)

// Query filters the collection. An empty Category means all categories.
type Query struct {
	Category domain.Category
	Search   string
}

// Filter keeps products in the category whose name or description contains the
// search term, ignoring case. Order is preserved.
func Filter(products []domain.Product, q Query) []domain.Product {
	term := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// FindProduct returns a not-found error for unknown ids.
func FindProduct(products []domain.Product, id string) (domain.Product, error) {
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, domain.NotFound("product")
}

// WishlistProducts returns wishlisted products in catalog order.
func WishlistProducts(products []domain.Product, wishlist []string) []domain.Product {
	set := make(map[string]struct{}, len(wishlist))
	for _, id := range wishlist {
		set[id] = struct{}{}
	}
	out := make([]domain.Product, 0, len(wishlist))
	for _, p := range products {
		if _, ok := set[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Featured returns up to n available products. n below zero is treated as zero.
func Featured(products []domain.Product, n int) []domain.Product {
	n = max(n, 0)
	out := make([]domain.Product, 0, min(n, len(products)))
	for _, p := range products {
		if len(out) == n {
			break
		}
		if !p.IsSoldOut {
			out = append(out, p)
		}
	}
	return out
}

// Stats summarizes the catalog for the admin dashboard. Sold-out pieces count as
// sold for revenue.
type Stats struct {
	Revenue     decimal.Decimal `json:"revenue"`
	PiecesSold  int             `json:"piecesSold"`
	TotalPieces int             `json:"totalPieces"`
	Available   int             `json:"available"`
}

func AdminStats(products []domain.Product) Stats {
	s := Stats{Revenue: decimal.Zero, TotalPieces: len(products)}
	for _, p := range products {
		if p.IsSoldOut {
			s.Revenue = s.Revenue.Add(p.Price)
			s.PiecesSold++
			continue
		}
		s.Available++
	}
	return s
}
