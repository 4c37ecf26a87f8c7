// Package pricing computes checkout totals. All functions are pure.
package pricing

import (
	"artgallery-storefront/internal/domain"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Config holds the fixed shipping charge and the collector loyalty percentage.
type Config struct {
	Shipping         decimal.Decimal
	CollectorPercent decimal.Decimal
}

// DefaultConfig mirrors the gallery's published rates.
func DefaultConfig() Config {
	return Config{
		Shipping:         decimal.NewFromInt(1200),
		CollectorPercent: decimal.NewFromInt(10),
	}
}

// Breakdown is the priced cart. Amounts are unrounded.
type Breakdown struct {
	Subtotal        decimal.Decimal `json:"subtotal"`
	Shipping        decimal.Decimal `json:"shipping"`
	LoyaltyPercent  decimal.Decimal `json:"loyaltyPercent"`
	LoyaltyDiscount decimal.Decimal `json:"loyaltyDiscount"`
	PromoCode       string          `json:"promoCode,omitempty"`
	PromoPercent    int             `json:"promoPercent"`
	PromoDiscount   decimal.Decimal `json:"promoDiscount"`
	Total           decimal.Decimal `json:"total"`
}

func Subtotal(items []domain.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

// LoyaltyDiscount applies only to collectors.
func LoyaltyDiscount(subtotal decimal.Decimal, role domain.Role, collectorPercent decimal.Decimal) decimal.Decimal {
	if role != domain.RoleCollector {
		return decimal.Zero
	}
	return percentOf(subtotal, collectorPercent)
}

// PromoDiscount is computed off the subtotal, independently of the loyalty discount.
func PromoDiscount(subtotal decimal.Decimal, promo *domain.Promo) decimal.Decimal {
	return percentOf(subtotal, decimal.NewFromInt(int64(promo.EffectivePercent())))
}

// Total never goes below zero.
func Total(subtotal, shipping, loyalty, promo decimal.Decimal) decimal.Decimal {
	total := subtotal.Add(shipping).Sub(loyalty).Sub(promo)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// Compute prices the cart for the given role (empty for anonymous visitors).
func Compute(cfg Config, items []domain.CartItem, role domain.Role, promo *domain.Promo) Breakdown {
	subtotal := Subtotal(items)
	loyalty := LoyaltyDiscount(subtotal, role, cfg.CollectorPercent)
	promoOff := PromoDiscount(subtotal, promo)

	b := Breakdown{
		Subtotal:        subtotal,
		Shipping:        cfg.Shipping,
		LoyaltyDiscount: loyalty,
		PromoPercent:    promo.EffectivePercent(),
		PromoDiscount:   promoOff,
		Total:           Total(subtotal, cfg.Shipping, loyalty, promoOff),
	}
	if role == domain.RoleCollector {
		b.LoyaltyPercent = cfg.CollectorPercent
	}
	if promo != nil {
		b.PromoCode = promo.Code
	}
	return b
}

// Format renders an amount for display, rounding to two decimals.
func Format(amount decimal.Decimal) string {
	return "₹" + amount.StringFixed(2)
}

func percentOf(amount, percent decimal.Decimal) decimal.Decimal {
	if percent.IsZero() {
		return decimal.Zero
	}
	return amount.Mul(percent).Div(hundred)
}
