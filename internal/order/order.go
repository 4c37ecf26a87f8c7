// Package order turns a checked-out cart into an order record.
package order

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"artgallery-storefront/internal/domain"

	"github.com/shopspring/decimal"
)

var ErrEmptyCart = errors.New("cart is empty")

// IDFunc generates order ids.
type IDFunc func() string

// NewID returns "ORD-" followed by six random digits.
func NewID() string {
	return fmt.Sprintf("ORD-%06d", rand.IntN(1_000_000))
}

// Place snapshots the cart into a pending order. Product names are copied, not
// referenced.
func Place(items []domain.CartItem, total decimal.Decimal, now time.Time, newID IDFunc) (domain.Order, error) {
	if len(items) == 0 {
		return domain.Order{}, ErrEmptyCart
	}
	if newID == nil {
		newID = NewID
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Product.Name)
	}
	return domain.Order{
		ID:     newID(),
		Date:   now.Format(time.DateOnly),
		Total:  total,
		Items:  names,
		Status: domain.OrderPending,
	}, nil
}

// Prepend returns a new history with o first.
func Prepend(history []domain.Order, o domain.Order) []domain.Order {
	out := make([]domain.Order, 0, len(history)+1)
	out = append(out, o)
	return append(out, history...)
}
