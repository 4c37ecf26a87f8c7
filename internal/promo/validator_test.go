package promo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordValidator(t *testing.T) {
	v := NewKeywordValidator(nil, DefaultPercent)

	p, err := v.Validate(context.Background(), "Cosmic")
	require.NoError(t, err)
	assert.True(t, p.Valid())
	assert.Equal(t, 15, p.DiscountPercent)
	assert.Equal(t, "Cosmic", p.Code)
	assert.Equal(t, `"Cosmic" is a valid creative code! 15% discount applied.`, p.Message)

	p, err = v.Validate(context.Background(), "spreadsheet")
	require.NoError(t, err)
	assert.False(t, p.Valid())
	assert.Zero(t, p.EffectivePercent())
	assert.Equal(t, `"spreadsheet" is not a recognized creative code.`, p.Message)
}

func TestKeywordValidator_CustomWords(t *testing.T) {
	v := NewKeywordValidator([]string{" Vernissage "}, 20)

	p, _ := v.Validate(context.Background(), "vernissage")
	assert.Equal(t, 20, p.EffectivePercent())

	p, _ = v.Validate(context.Background(), "soul")
	assert.False(t, p.Valid())
}

func TestKeywordValidator_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p, err := NewKeywordValidator(nil, 15).Validate(ctx, "soul")
	require.NoError(t, err)
	assert.False(t, p.Valid())
	assert.Equal(t, "Error validating code. Please try again.", p.Message)
}

func TestNormalize(t *testing.T) {
	code, ok := Normalize("  muse ")
	assert.True(t, ok)
	assert.Equal(t, "muse", code)

	_, ok = Normalize(" \t ")
	assert.False(t, ok)
}
