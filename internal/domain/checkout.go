package domain

import "github.com/shopspring/decimal"

// CartItem is one product line in the cart. Quantity is always >= 1.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// PromoStatus tags a promo result explicitly instead of inferring validity from the
// discount magnitude.
type PromoStatus string

const (
	PromoValid   PromoStatus = "valid"
	PromoInvalid PromoStatus = "invalid"
)

// Promo is the outcome of validating a code. Invalid results are still kept so the
// cart can show their message.
type Promo struct {
	Code            string      `json:"code"`
	Status          PromoStatus `json:"status"`
	DiscountPercent int         `json:"discountPercent"`
	Message         string      `json:"message"`
}

func ValidPromo(code string, percent int, message string) Promo {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return Promo{Code: code, Status: PromoValid, DiscountPercent: percent, Message: message}
}

func InvalidPromo(code, message string) Promo {
	return Promo{Code: code, Status: PromoInvalid, Message: message}
}

func (p Promo) Valid() bool {
	return p.Status == PromoValid
}

// EffectivePercent is the discount to apply; invalid promos apply nothing.
func (p *Promo) EffectivePercent() int {
	if p == nil || !p.Valid() {
		return 0
	}
	return p.DiscountPercent
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
)

// Order is an immutable snapshot of a placed checkout.
type Order struct {
	ID     string          `json:"id"`
	Date   string          `json:"date"`
	Total  decimal.Decimal `json:"total"`
	Items  []string        `json:"items"`
	Status OrderStatus     `json:"status"`
}
