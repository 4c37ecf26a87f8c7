package user

import (
	"context"
	"time"

	"artgallery-storefront/internal/domain"
)

// Account is a stored user with its credential hash.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	Role         domain.Role
	CreatedAt    time.Time
}

func (a Account) User() *domain.User {
	return &domain.User{ID: a.ID, Email: a.Email, FullName: a.FullName, Role: a.Role}
}

// Repository persists and fetches accounts. Emails are unique ignoring case.
type Repository interface {
	Create(ctx context.Context, a Account) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
}
