package product

import (
	"context"
	"slices"
	"sync"
	"time"

	"artgallery-storefront/internal/domain"

	"github.com/google/uuid"
)

type memoryRepo struct {
	mu       sync.RWMutex
	products []domain.Product // newest first
	now      func() time.Time
}

// NewMemory returns a Repository kept in process memory, seeded with products
// in display order.
func NewMemory(seed ...domain.Product) Repository {
	r := &memoryRepo{now: time.Now}
	for _, p := range seed {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if p.Reviews == nil {
			p.Reviews = []domain.Review{}
		}
		r.products = append(r.products, p)
	}
	return r
}

func (r *memoryRepo) List(_ context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Product, len(r.products))
	for i, p := range r.products {
		out[i] = clone(p)
	}
	return out, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.index(id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	p := clone(r.products[i])
	return &p, nil
}

func (r *memoryRepo) Create(_ context.Context, p domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = uuid.NewString()
	p.CreatedAt = r.now()
	p.Reviews = []domain.Review{}
	r.products = slices.Insert(r.products, 0, p)
	out := clone(p)
	return &out, nil
}

func (r *memoryRepo) UpdateStatus(_ context.Context, id string, isSoldOut bool) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	r.products[i] = r.products[i].WithSoldOut(isSoldOut)
	out := clone(r.products[i])
	return &out, nil
}

func (r *memoryRepo) CreateReview(_ context.Context, productID string, in NewReview) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(productID)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	rev := domain.Review{
		ID:        uuid.NewString(),
		Author:    in.AuthorName,
		Rating:    in.Rating,
		Comment:   in.Comment,
		CreatedAt: r.now().UTC().Format(time.DateOnly),
	}
	r.products[i] = r.products[i].WithReview(rev)
	return &rev, nil
}

func (r *memoryRepo) index(id string) int {
	return slices.IndexFunc(r.products, func(p domain.Product) bool { return p.ID == id })
}

func clone(p domain.Product) domain.Product {
	p.Reviews = slices.Clone(p.Reviews)
	if p.Reviews == nil {
		p.Reviews = []domain.Review{}
	}
	return p
}
