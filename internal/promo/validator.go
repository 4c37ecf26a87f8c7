// Package promo validates promo codes.
package promo

import (
	"context"
	"fmt"
	"strings"

	"artgallery-storefront/internal/domain"
)

// Validator exchanges a code for a promo result. An error means the check itself
// could not run; an unrecognized code is an invalid Promo, not an error.
type Validator interface {
	Validate(ctx context.Context, code string) (domain.Promo, error)
}

// DefaultKeywords are the creative words accepted as codes.
var DefaultKeywords = []string{
	"art", "muse", "dream", "soul", "cosmic", "ethereal", "nebula",
	"stardust", "canvas", "inspire", "create", "imagine", "celestial",
}

const DefaultPercent = 15

// Normalize trims the submitted code and reports whether anything is left.
func Normalize(code string) (string, bool) {
	trimmed := strings.TrimSpace(code)
	return trimmed, trimmed != ""
}

// KeywordValidator accepts codes naming a creative concept from its word list.
type KeywordValidator struct {
	keywords map[string]struct{}
	percent  int
}

func NewKeywordValidator(keywords []string, percent int) *KeywordValidator {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	set := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			set[k] = struct{}{}
		}
	}
	return &KeywordValidator{keywords: set, percent: percent}
}

func (v *KeywordValidator) Validate(ctx context.Context, code string) (domain.Promo, error) {
	if err := ctx.Err(); err != nil {
		return domain.InvalidPromo(code, "Error validating code. Please try again."), nil
	}
	word := strings.ToLower(strings.TrimSpace(code))
	if _, ok := v.keywords[word]; ok {
		msg := fmt.Sprintf("%q is a valid creative code! %d%% discount applied.", code, v.percent)
		return domain.ValidPromo(code, v.percent, msg), nil
	}
	return domain.InvalidPromo(code, fmt.Sprintf("%q is not a recognized creative code.", code)), nil
}
