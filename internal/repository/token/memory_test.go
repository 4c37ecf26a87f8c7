package token

import (
	"context"
	"testing"
	"time"

	"artgallery-storefront/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTokens(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()
	tok := Token{Token: "abc", UserID: "u1", Kind: "access", ExpiresAt: time.Now().Add(time.Hour)}

	require.NoError(t, repo.Create(ctx, tok))
	assert.ErrorIs(t, repo.Create(ctx, tok), domain.ErrAlreadyExists)

	got, err := repo.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.False(t, got.CreatedAt.IsZero())

	require.NoError(t, repo.Delete(ctx, "abc"))
	assert.ErrorIs(t, repo.Delete(ctx, "abc"), domain.ErrNotFound)
	_, err = repo.Get(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
