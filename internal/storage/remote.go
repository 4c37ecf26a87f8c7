package storage

import (
	"context"

	"artgallery-storefront/internal/domain"
)

// Remote writes through the catalog backend and then refetches the catalog, so
// the returned mutation replaces the list with the backend's view.
type Remote struct {
	catalog Catalog
}

func NewRemote(catalog Catalog) *Remote {
	return &Remote{catalog: catalog}
}

func (r *Remote) SetSoldOut(ctx context.Context, productID string, isSoldOut bool) (Mutation, error) {
	if _, err := r.catalog.UpdateProductStatus(ctx, productID, isSoldOut); err != nil {
		return nil, err
	}
	return r.refetch(ctx)
}

func (r *Remote) AddProduct(ctx context.Context, draft domain.ProductDraft) (Mutation, error) {
	if _, err := r.catalog.CreateProduct(ctx, draft); err != nil {
		return nil, err
	}
	return r.refetch(ctx)
}

func (r *Remote) AddReview(ctx context.Context, in ReviewInput) (Mutation, error) {
	userID := ""
	if in.Author != nil {
		userID = in.Author.ID
	}
	if _, err := r.catalog.CreateReview(ctx, in.ProductID, userID, in.Rating, in.Comment); err != nil {
		return nil, err
	}
	return r.refetch(ctx)
}

func (r *Remote) refetch(ctx context.Context) (Mutation, error) {
	fetched, err := r.catalog.FetchProducts(ctx)
	if err != nil {
		return nil, err
	}
	return func(current []domain.Product) []domain.Product {
		return MergeLocal(fetched, current)
	}, nil
}
