// Package catalog is the remote catalog backend the storefront reads and writes
// through.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"artgallery-storefront/internal/domain"
	productrepo "artgallery-storefront/internal/repository/product"
	userrepo "artgallery-storefront/internal/repository/user"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type Service struct {
	products productrepo.Repository
	users    userrepo.Repository
	validate *validator.Validate
	logger   *zap.Logger
}

func New(products productrepo.Repository, users userrepo.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		products: products,
		users:    users,
		validate: validator.New(),
		logger:   logger.Named("catalog"),
	}
}

func (s *Service) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, domain.Collaborator("Failed to fetch products.", err)
	}
	return products, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("product")
	}
	return p, err
}

func (s *Service) CreateProduct(ctx context.Context, draft domain.ProductDraft) (*domain.Product, error) {
	draft.Name = strings.TrimSpace(draft.Name)
	draft.Description = strings.TrimSpace(draft.Description)
	if err := s.ValidateDraft(draft); err != nil {
		return nil, err
	}
	p, err := s.products.Create(ctx, draft.Product(""))
	if err != nil {
		return nil, domain.Collaborator("Failed to add new product.", err)
	}
	s.logger.Info("product created", zap.String("id", p.ID), zap.String("category", string(p.Category)))
	return p, nil
}

// ValidateDraft checks draft field rules and the non-negative price.
func (s *Service) ValidateDraft(draft domain.ProductDraft) error {
	if err := s.validate.Struct(draft); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) && len(fields) > 0 {
			return domain.Validation(fmt.Sprintf("%s is missing or invalid.", fields[0].Field()))
		}
		return domain.Validation("Product details are invalid.")
	}
	if draft.Price.IsNegative() {
		return domain.Validation("Price cannot be negative.")
	}
	return nil
}

func (s *Service) UpdateProductStatus(ctx context.Context, id string, isSoldOut bool) (*domain.Product, error) {
	p, err := s.products.UpdateStatus(ctx, id, isSoldOut)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("product")
	}
	if err != nil {
		return nil, domain.Collaborator("Failed to update product status.", err)
	}
	s.logger.Info("product status updated", zap.String("id", id), zap.Bool("sold_out", isSoldOut))
	return p, nil
}

// CreateReview stores a review authored by userID under their account name.
func (s *Service) CreateReview(ctx context.Context, productID, userID string, rating int, comment string) (*domain.Review, error) {
	if !domain.ValidRating(rating) {
		return nil, domain.Validation("Rating must be between 1 and 5.")
	}
	if userID == "" {
		return nil, domain.Forbidden("Please sign in to leave a review.")
	}
	acct, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Forbidden("Please sign in to leave a review.")
	}
	if err != nil {
		return nil, domain.Collaborator("Failed to submit review.", err)
	}
	r, err := s.products.CreateReview(ctx, productID, productrepo.NewReview{
		UserID:     acct.ID,
		AuthorName: acct.FullName,
		Rating:     rating,
		Comment:    strings.TrimSpace(comment),
	})
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("product")
	}
	if err != nil {
		return nil, domain.Collaborator("Failed to submit review.", err)
	}
	return r, nil
}
