package token

import (
	"context"
	"sync"
	"time"

	"artgallery-storefront/internal/domain"
)

type memoryRepo struct {
	mu     sync.Mutex
	tokens map[string]Token
}

func NewMemory() Repository {
	return &memoryRepo{tokens: map[string]Token{}}
}

func (r *memoryRepo) Create(_ context.Context, t Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tokens[t.Token]; ok {
		return domain.ErrAlreadyExists
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	r.tokens[t.Token] = t
	return nil
}

func (r *memoryRepo) Get(_ context.Context, token string) (*Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (r *memoryRepo) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tokens[token]; !ok {
		return domain.ErrNotFound
	}
	delete(r.tokens, token)
	return nil
}
