// Package cart holds the visitor's cart as an immutable value.
package cart

import (
	"encoding/json"

	"artgallery-storefront/internal/domain"
)

// Cart keeps one item per product id in insertion order. Operations return a new
// Cart and never modify the receiver.
type Cart struct {
	items []domain.CartItem
}

func New(items ...domain.CartItem) Cart {
	var c Cart
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		c = c.put(item.Product, item.Quantity)
	}
	return c
}

// Items returns a copy of the cart lines.
func (c Cart) Items() []domain.CartItem {
	out := make([]domain.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c Cart) Len() int {
	return len(c.items)
}

func (c Cart) IsEmpty() bool {
	return c.Len() == 0
}

// Count is the number of pieces across all lines.
func (c Cart) Count() int {
	n := 0
	for _, item := range c.items {
		n += item.Quantity
	}
	return n
}

func (c Cart) Contains(productID string) bool {
	return c.index(productID) >= 0
}

// Quantity is zero for absent products.
func (c Cart) Quantity(productID string) int {
	if i := c.index(productID); i >= 0 {
		return c.items[i].Quantity
	}
	return 0
}

// ProductNames lists the product name of every line, in cart order.
func (c Cart) ProductNames() []string {
	names := make([]string, 0, len(c.items))
	for _, item := range c.items {
		names = append(names, item.Product.Name)
	}
	return names
}

// Add increments the product's quantity or appends it with quantity 1.
func (c Cart) Add(product domain.Product) Cart {
	if i := c.index(product.ID); i >= 0 {
		items := c.Items()
		items[i].Quantity++
		return Cart{items: items}
	}
	return c.put(product, 1)
}

// Remove drops the product; absent ids are a no-op.
func (c Cart) Remove(productID string) Cart {
	i := c.index(productID)
	if i < 0 {
		return c
	}
	items := make([]domain.CartItem, 0, len(c.items)-1)
	items = append(items, c.items[:i]...)
	items = append(items, c.items[i+1:]...)
	return Cart{items: items}
}

// UpdateQuantity sets the quantity exactly. Zero or negative removes the line.
// Absent products are left absent.
func (c Cart) UpdateQuantity(productID string, quantity int) Cart {
	if quantity <= 0 {
		return c.Remove(productID)
	}
	i := c.index(productID)
	if i < 0 {
		return c
	}
	items := c.Items()
	items[i].Quantity = quantity
	return Cart{items: items}
}

func (c Cart) Clear() Cart {
	return New()
}

// RefreshProducts swaps stale product copies for the catalog's current ones,
// keeping quantities. Lines whose product left the catalog are kept as they are.
func (c Cart) RefreshProducts(catalog []domain.Product) Cart {
	if len(c.items) == 0 {
		return c
	}
	byID := make(map[string]domain.Product, len(catalog))
	for _, p := range catalog {
		byID[p.ID] = p
	}
	items := c.Items()
	for i := range items {
		if p, ok := byID[items[i].Product.ID]; ok {
			items[i].Product = p
		}
	}
	return Cart{items: items}
}

func (c Cart) MarshalJSON() ([]byte, error) {
	if c.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.items)
}

func (c Cart) put(product domain.Product, quantity int) Cart {
	if i := c.index(product.ID); i >= 0 {
		items := c.Items()
		items[i].Quantity = quantity
		return Cart{items: items}
	}
	items := make([]domain.CartItem, 0, len(c.items)+1)
	items = append(items, c.items...)
	items = append(items, domain.CartItem{Product: product, Quantity: quantity})
	return Cart{items: items}
}

func (c Cart) index(productID string) int {
	for i, item := range c.items {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}
