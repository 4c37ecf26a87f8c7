package store

import (
	"slices"

	"artgallery-storefront/internal/cart"
	"artgallery-storefront/internal/domain"
)

// State is one immutable snapshot of the storefront. Slices in a published
// State are never modified; actions build new ones.
type State struct {
	Products  []domain.Product `json:"products"`
	User      *domain.User     `json:"user"`
	View      domain.View      `json:"currentView"`
	ViewParam string           `json:"viewParams,omitempty"`
	Cart      cart.Cart        `json:"cart"`
	Promo     *domain.Promo    `json:"promo"`
	Wishlist  []string         `json:"wishlist"`
	Orders    []domain.Order   `json:"orders"`
	Loading   bool             `json:"loading"`
	Error     string           `json:"error,omitempty"`
	Version   uint64           `json:"version"`
}

func initialState() State {
	return State{
		Products: []domain.Product{},
		View:     domain.ViewHome,
		Wishlist: []string{},
		Orders:   []domain.Order{},
	}
}

func (s State) Role() domain.Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

func (s State) InWishlist(productID string) bool {
	return slices.Contains(s.Wishlist, productID)
}

func (s State) Authenticated() bool {
	return s.User != nil
}

func toggle(ids []string, id string) []string {
	if i := slices.Index(ids, id); i >= 0 {
		out := make([]string, 0, len(ids)-1)
		out = append(out, ids[:i]...)
		return append(out, ids[i+1:]...)
	}
	out := make([]string, 0, len(ids)+1)
	out = append(out, ids...)
	return append(out, id)
}
