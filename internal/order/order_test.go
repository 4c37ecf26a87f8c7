package order

import (
	"regexp"
	"testing"
	"time"

	"artgallery-storefront/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDFormat(t *testing.T) {
	re := regexp.MustCompile(`^ORD-\d{6}$`)
	for i := 0; i < 50; i++ {
		assert.Regexp(t, re, NewID())
	}
}

func TestPlace(t *testing.T) {
	items := []domain.CartItem{
		{Product: domain.Product{ID: "1", Name: "Cosmic Dreamscape"}, Quantity: 2},
		{Product: domain.Product{ID: "7", Name: "Stellar Keychain"}, Quantity: 1},
	}
	now := time.Date(2026, 10, 14, 23, 30, 0, 0, time.UTC)

	o, err := Place(items, decimal.NewFromInt(62400), now, func() string { return "ORD-000042" })
	require.NoError(t, err)
	assert.Equal(t, "ORD-000042", o.ID)
	assert.Equal(t, "2026-10-14", o.Date)
	assert.Equal(t, domain.OrderPending, o.Status)
	assert.Equal(t, []string{"Cosmic Dreamscape", "Stellar Keychain"}, o.Items)
	assert.True(t, o.Total.Equal(decimal.NewFromInt(62400)))

	items[0].Product.Name = "renamed"
	assert.Equal(t, "Cosmic Dreamscape", o.Items[0])
}

func TestPlace_EmptyCart(t *testing.T) {
	_, err := Place(nil, decimal.Zero, time.Now(), nil)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPrepend(t *testing.T) {
	history := []domain.Order{{ID: "ORD-000001"}}
	next := Prepend(history, domain.Order{ID: "ORD-000002"})

	assert.Equal(t, "ORD-000002", next[0].ID)
	assert.Equal(t, "ORD-000001", next[1].ID)
	assert.Len(t, history, 1)
}
