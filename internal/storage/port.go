// Package storage routes catalog writes to the in-memory catalog or to the remote
// catalog backend, depending on who is writing and what is being written.
package storage

import (
	"context"

	"artgallery-storefront/internal/domain"
)

// Catalog is the remote catalog backend.
type Catalog interface {
	FetchProducts(ctx context.Context) ([]domain.Product, error)
	CreateReview(ctx context.Context, productID, userID string, rating int, comment string) (*domain.Review, error)
	UpdateProductStatus(ctx context.Context, productID string, isSoldOut bool) (*domain.Product, error)
	CreateProduct(ctx context.Context, draft domain.ProductDraft) (*domain.Product, error)
}

// Mutation rewrites a product list. It must not modify its input.
type Mutation func(products []domain.Product) []domain.Product

// ReviewInput is a review about to be written.
type ReviewInput struct {
	ProductID string
	Author    *domain.User
	Rating    int
	Comment   string
}

// Port performs admin and review writes. The returned Mutation is applied by the
// caller to its latest catalog snapshot.
type Port interface {
	SetSoldOut(ctx context.Context, productID string, isSoldOut bool) (Mutation, error)
	AddProduct(ctx context.Context, draft domain.ProductDraft) (Mutation, error)
	AddReview(ctx context.Context, in ReviewInput) (Mutation, error)
}

// Router picks the write path.
type Router struct {
	Local  Port
	Remote Port
}

// For returns the local port for local identities and local-only products, and
// the remote port otherwise.
func (r Router) For(user *domain.User, product *domain.Product) Port {
	if (user != nil && user.Local) || (product != nil && product.LocalOnly) || r.Remote == nil {
		return r.Local
	}
	return r.Remote
}

// MergeLocal returns fetched followed by the local-only products of current that
// the fetch did not return.
func MergeLocal(fetched, current []domain.Product) []domain.Product {
	seen := make(map[string]struct{}, len(fetched))
	out := make([]domain.Product, 0, len(fetched))
	for _, p := range fetched {
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	for _, p := range current {
		if !p.LocalOnly {
			continue
		}
		if _, ok := seen[p.ID]; ok {
			continue
		}
		out = append(out, p)
	}
	return out
}
