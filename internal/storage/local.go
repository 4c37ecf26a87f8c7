package storage

import (
	"context"
	"time"

	"artgallery-storefront/internal/domain"

	"github.com/google/uuid"
)

// LocalIDPrefix marks ids minted by the in-memory catalog.
const LocalIDPrefix = "local-"

// Local writes to the in-memory catalog only.
type Local struct {
	now   func() time.Time
	newID func() string
}

func NewLocal() *Local {
	return &Local{now: time.Now, newID: uuid.NewString}
}

func (l *Local) SetSoldOut(_ context.Context, productID string, isSoldOut bool) (Mutation, error) {
	return func(products []domain.Product) []domain.Product {
		return mapProduct(products, productID, func(p domain.Product) domain.Product {
			return p.WithSoldOut(isSoldOut)
		})
	}, nil
}

// AddProduct puts the new product first, as the newest item in the collection.
func (l *Local) AddProduct(_ context.Context, draft domain.ProductDraft) (Mutation, error) {
	p := draft.Product(LocalIDPrefix + l.newID())
	p.LocalOnly = true
	p.CreatedAt = l.now()
	return func(products []domain.Product) []domain.Product {
		out := make([]domain.Product, 0, len(products)+1)
		out = append(out, p)
		return append(out, products...)
	}, nil
}

func (l *Local) AddReview(_ context.Context, in ReviewInput) (Mutation, error) {
	author := "Anonymous"
	if in.Author != nil && in.Author.FullName != "" {
		author = in.Author.FullName
	}
	r := domain.Review{
		ID:        LocalIDPrefix + l.newID(),
		Author:    author,
		Rating:    in.Rating,
		Comment:   in.Comment,
		CreatedAt: l.now().Format(time.DateOnly),
	}
	return func(products []domain.Product) []domain.Product {
		return mapProduct(products, in.ProductID, func(p domain.Product) domain.Product {
			return p.WithReview(r)
		})
	}, nil
}

func mapProduct(products []domain.Product, id string, fn func(domain.Product) domain.Product) []domain.Product {
	out := make([]domain.Product, len(products))
	for i, p := range products {
		if p.ID == id {
			p = fn(p)
		}
		out[i] = p
	}
	return out
}
