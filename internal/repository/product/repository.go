package product

import (
	"context"

	"artgallery-storefront/internal/domain"
)

// NewReview is a review to store. UserID may be empty for imported reviews.
type NewReview struct {
	UserID     string
	AuthorName string
	Rating     int
	Comment    string
}

// Repository persists the catalog. List returns newest products first, each
// with its reviews oldest first.
type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	UpdateStatus(ctx context.Context, id string, isSoldOut bool) (*domain.Product, error)
	CreateReview(ctx context.Context, productID string, r NewReview) (*domain.Review, error)
}
