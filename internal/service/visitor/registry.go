// Package visitor tracks anonymous visitors by opaque token. Each token owns a
// value, typically the visitor's store, that is evicted after a period of
// inactivity.
package visitor

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"sync"
	"time"
)

var ErrInvalidToken = errors.New("invalid visitor token")

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

type Registry[T any] struct {
	ttl     time.Duration
	onEvict func(T)
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]*entry[T]
}

// New returns a registry whose entries expire ttl after their last lookup.
// onEvict runs outside the lock for every entry that leaves the registry.
func New[T any](ttl time.Duration, onEvict func(T)) *Registry[T] {
	return &Registry[T]{
		ttl:     ttl,
		onEvict: onEvict,
		now:     time.Now,
		entries: make(map[string]*entry[T]),
	}
}

func (r *Registry[T]) Issue(value T) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := 0; i < 5; i++ {
		token, err := randomToken()
		if err != nil {
			return "", err
		}
		if _, exists := r.entries[token]; exists {
			continue
		}
		r.entries[token] = &entry[T]{value: value, expiresAt: r.now().Add(r.ttl)}
		return token, nil
	}
	return "", errors.New("token collision")
}

// Lookup returns the value for token and extends its lifetime.
func (r *Registry[T]) Lookup(token string) (T, error) {
	var zero T
	r.mu.Lock()
	e, ok := r.entries[token]
	if !ok {
		r.mu.Unlock()
		return zero, ErrInvalidToken
	}
	now := r.now()
	if now.After(e.expiresAt) {
		delete(r.entries, token)
		r.mu.Unlock()
		r.evict(e.value)
		return zero, ErrInvalidToken
	}
	e.expiresAt = now.Add(r.ttl)
	r.mu.Unlock()
	return e.value, nil
}

func (r *Registry[T]) Revoke(token string) bool {
	r.mu.Lock()
	e, ok := r.entries[token]
	delete(r.entries, token)
	r.mu.Unlock()
	if ok {
		r.evict(e.value)
	}
	return ok
}

// Sweep evicts expired entries and reports how many were removed.
func (r *Registry[T]) Sweep() int {
	now := r.now()
	var expired []T
	r.mu.Lock()
	for token, e := range r.entries {
		if now.After(e.expiresAt) {
			expired = append(expired, e.value)
			delete(r.entries, token)
		}
	}
	r.mu.Unlock()
	for _, v := range expired {
		r.evict(v)
	}
	return len(expired)
}

func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Close evicts every entry.
func (r *Registry[T]) Close() {
	r.mu.Lock()
	all := r.entries
	r.entries = make(map[string]*entry[T])
	r.mu.Unlock()
	for _, e := range all {
		r.evict(e.value)
	}
}

func (r *Registry[T]) evict(v T) {
	if r.onEvict != nil {
		r.onEvict(v)
	}
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
