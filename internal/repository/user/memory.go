package user

import (
	"context"
	"strings"
	"sync"
	"time"

	"artgallery-storefront/internal/domain"

	"github.com/google/uuid"
)

type memoryRepo struct {
	mu      sync.RWMutex
	byID    map[string]Account
	byEmail map[string]string
}

func NewMemory() Repository {
	return &memoryRepo{byID: map[string]Account{}, byEmail: map[string]string{}}
}

func (r *memoryRepo) Create(_ context.Context, a Account) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(a.Email)
	if _, ok := r.byEmail[key]; ok {
		return nil, domain.ErrAlreadyExists
	}
	a.ID = uuid.NewString()
	a.Email = key
	a.CreatedAt = time.Now().UTC()
	if a.Role == "" {
		a.Role = domain.RoleUser
	}
	r.byID[a.ID] = a
	r.byEmail[key] = a.ID
	return &a, nil
}

func (r *memoryRepo) GetByEmail(_ context.Context, email string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	a := r.byID[id]
	return &a, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}
