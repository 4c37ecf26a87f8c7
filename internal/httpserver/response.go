package httpserver

import (
	"errors"
	"net/http"

	"artgallery-storefront/internal/domain"
	"artgallery-storefront/internal/logger"
	"artgallery-storefront/internal/pricing"
	"artgallery-storefront/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type totalsResponse struct {
	pricing.Breakdown
	Display displayTotals `json:"display"`
}

type displayTotals struct {
	Subtotal        string `json:"subtotal"`
	Shipping        string `json:"shipping"`
	LoyaltyDiscount string `json:"loyaltyDiscount"`
	PromoDiscount   string `json:"promoDiscount"`
	Total           string `json:"total"`
}

type stateResponse struct {
	State       store.State    `json:"state"`
	Totals      totalsResponse `json:"totals"`
	AccessToken string         `json:"accessToken,omitempty"`
}

type errorResponse struct {
	Error string           `json:"error"`
	Kind  domain.ErrorKind `json:"kind,omitempty"`
}

type orderResponse struct {
	Order domain.Order `json:"order"`
	Total string       `json:"displayTotal"`
}

func toTotals(b pricing.Breakdown) totalsResponse {
	return totalsResponse{
		Breakdown: b,
		Display: displayTotals{
			Subtotal:        pricing.Format(b.Subtotal),
			Shipping:        pricing.Format(b.Shipping),
			LoyaltyDiscount: pricing.Format(b.LoyaltyDiscount),
			PromoDiscount:   pricing.Format(b.PromoDiscount),
			Total:           pricing.Format(b.Total),
		},
	}
}

func toOrder(o domain.Order) orderResponse {
	return orderResponse{Order: o, Total: pricing.Format(o.Total)}
}

func formatPrice(d decimal.Decimal) string {
	return pricing.Format(d)
}

// writeError maps store and domain failures onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	resp := errorResponse{Error: domain.Message(err)}

	var de *domain.Error
	switch {
	case errors.Is(err, store.ErrClosed):
		status = http.StatusGone
		resp.Error = "session expired"
	case errors.As(err, &de):
		resp.Kind = de.Kind
		switch de.Kind {
		case domain.KindValidation:
			status = http.StatusUnprocessableEntity
		case domain.KindForbidden:
			status = http.StatusForbidden
		case domain.KindNotFound:
			status = http.StatusNotFound
		case domain.KindCollaborator:
			status = http.StatusBadGateway
		}
	}
	if status >= http.StatusInternalServerError {
		logger.FromContext(c, nil).Error("request failed", zap.Error(err))
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, resp)
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: domain.KindValidation})
}
