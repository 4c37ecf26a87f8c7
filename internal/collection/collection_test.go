package collection

import (
	"testing"

	"artgallery-storefront/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func products() []domain.Product {
	return []domain.Product{
		{ID: "1", Name: "Cosmic Dreamscape", Description: "swirling nebula", Category: domain.CategoryPainting, Price: decimal.NewFromInt(36000)},
		{ID: "2", Name: "Whispering Woods", Description: "mystical forest", Category: domain.CategorySketch, Price: decimal.NewFromInt(17600)},
		{ID: "3", Name: "Ocean's Heart", Description: "ceramic vase", Category: domain.CategoryCraft, Price: decimal.NewFromInt(6800), IsSoldOut: true},
		{ID: "7", Name: "Stellar Keychain", Description: "hand-painted NEBULA", Category: domain.CategoryKeychain, Price: decimal.NewFromInt(2000)},
	}
}

func ids(ps []domain.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{name: "all", query: Query{}, want: []string{"1", "2", "3", "7"}},
		{name: "category", query: Query{Category: domain.CategorySketch}, want: []string{"2"}},
		{name: "search description any case", query: Query{Search: "Nebula"}, want: []string{"1", "7"}},
		{name: "category and search", query: Query{Category: domain.CategoryKeychain, Search: "nebula"}, want: []string{"7"}},
		{name: "no match", query: Query{Search: "sculpture"}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(products(), tt.query)))
		})
	}
}

func TestFindProduct(t *testing.T) {
	p, err := FindProduct(products(), "3")
	require.NoError(t, err)
	assert.Equal(t, "Ocean's Heart", p.Name)

	_, err = FindProduct(products(), "404")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestWishlistProducts(t *testing.T) {
	got := WishlistProducts(products(), []string{"7", "missing", "1"})
	assert.Equal(t, []string{"1", "7"}, ids(got))
}

func TestFeatured(t *testing.T) {
	assert.Equal(t, []string{"1", "2"}, ids(Featured(products(), 2)))
	assert.Equal(t, []string{"1", "2", "7"}, ids(Featured(products(), 10)))
	assert.Empty(t, Featured(products(), -1))
	assert.Empty(t, Featured(nil, 3))
}

func TestAdminStats(t *testing.T) {
	s := AdminStats(products())
	assert.True(t, s.Revenue.Equal(decimal.NewFromInt(6800)))
	assert.Equal(t, 1, s.PiecesSold)
	assert.Equal(t, 3, s.Available)
	assert.Equal(t, 4, s.TotalPieces)
}
