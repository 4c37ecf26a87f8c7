package cart

import (
	"encoding/json"
	"testing"

	"artgallery-storefront/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id, name string, price int64) domain.Product {
	return domain.Product{ID: id, Name: name, Price: decimal.NewFromInt(price)}
}

func TestAdd_MergesByProductID(t *testing.T) {
	p := product("1", "Cosmic Dreamscape", 36000)
	for calls := 1; calls <= 5; calls++ {
		c := New()
		for i := 0; i < calls; i++ {
			c = c.Add(p)
		}
		require.Equal(t, 1, c.Len())
		assert.Equal(t, calls, c.Quantity("1"))
	}
}

func TestAdd_PreservesInsertionOrder(t *testing.T) {
	c := New().
		Add(product("2", "Whispering Woods", 17600)).
		Add(product("1", "Cosmic Dreamscape", 36000)).
		Add(product("2", "Whispering Woods", 17600))

	assert.Equal(t, []string{"Whispering Woods", "Cosmic Dreamscape"}, c.ProductNames())
	assert.Equal(t, 3, c.Count())
}

func TestOperations_DoNotMutateReceiver(t *testing.T) {
	base := New().Add(product("1", "A", 10))
	_ = base.Add(product("1", "A", 10))
	_ = base.UpdateQuantity("1", 9)
	_ = base.Remove("1")
	_ = base.Clear()

	assert.Equal(t, 1, base.Quantity("1"))
}

func TestUpdateQuantity(t *testing.T) {
	c := New().Add(product("1", "A", 10)).Add(product("2", "B", 20))

	assert.Equal(t, 7, c.UpdateQuantity("1", 7).Quantity("1"))
	assert.False(t, c.UpdateQuantity("1", 0).Contains("1"))
	assert.False(t, c.UpdateQuantity("1", -5).Contains("1"))
	assert.Equal(t, 1, c.UpdateQuantity("1", -5).Len())
	assert.False(t, c.UpdateQuantity("missing", 3).Contains("missing"))
}

func TestRemove_AbsentIsNoop(t *testing.T) {
	c := New().Add(product("1", "A", 10))
	assert.Equal(t, 1, c.Remove("nope").Len())
	assert.True(t, c.Remove("1").IsEmpty())
}

func TestRefreshProducts(t *testing.T) {
	c := New().Add(product("1", "A", 10)).Add(product("2", "B", 20))
	updated := product("1", "A", 10).WithSoldOut(true)

	refreshed := c.RefreshProducts([]domain.Product{updated})
	items := refreshed.Items()
	assert.True(t, items[0].Product.IsSoldOut)
	assert.Equal(t, "B", items[1].Product.Name)
}

func TestMarshalJSON(t *testing.T) {
	raw, err := json.Marshal(New())
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))

	raw, err = json.Marshal(New(domain.CartItem{Product: product("1", "A", 10), Quantity: 2}))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"quantity":2`)
}
