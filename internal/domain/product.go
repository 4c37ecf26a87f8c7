package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category groups artworks in the collection.
type Category string

const (
	CategoryPainting Category = "Painting"
	CategorySketch   Category = "Sketch"
	CategoryCraft    Category = "Craft"
	CategoryKeychain Category = "Keychain"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryPainting, CategorySketch, CategoryCraft, CategoryKeychain}

func (c Category) Valid() bool {
	switch c {
	case CategoryPainting, CategorySketch, CategoryCraft, CategoryKeychain:
		return true
	}
	return false
}

// ParseCategory matches a category name case-insensitively.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, true
		}
	}
	return "", false
}

// Product is an artwork listed in the gallery.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    Category        `json:"category"`
	ImageURL    string          `json:"imageUrl"`
	IsSoldOut   bool            `json:"isSoldOut"`
	ArtistNote  *string         `json:"artistNote,omitempty"`
	Reviews     []Review        `json:"reviews"`
	// LocalOnly products exist only in the in-memory catalog of one store.
	LocalOnly bool      `json:"localOnly,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// WithSoldOut returns a copy of p with the sold-out flag set.
func (p Product) WithSoldOut(soldOut bool) Product {
	p.IsSoldOut = soldOut
	return p
}

// WithReview returns a copy of p with r appended to its reviews.
func (p Product) WithReview(r Review) Product {
	reviews := make([]Review, 0, len(p.Reviews)+1)
	reviews = append(reviews, p.Reviews...)
	p.Reviews = append(reviews, r)
	return p
}

// AverageRating is zero for products without reviews.
func (p Product) AverageRating() float64 {
	if len(p.Reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(p.Reviews))
}

// ProductDraft is the admin input for a new product.
type ProductDraft struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Category    Category        `json:"category" validate:"required,oneof=Painting Sketch Craft Keychain"`
	ImageURL    string          `json:"imageUrl" validate:"required,url"`
	IsSoldOut   bool            `json:"isSoldOut"`
	ArtistNote  *string         `json:"artistNote,omitempty"`
}

// Product materializes the draft under the given id.
func (d ProductDraft) Product(id string) Product {
	return Product{
		ID:          id,
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Category:    d.Category,
		ImageURL:    d.ImageURL,
		IsSoldOut:   d.IsSoldOut,
		ArtistNote:  d.ArtistNote,
		Reviews:     []Review{},
	}
}

// Review is an append-only rating left on a product.
type Review struct {
	ID        string `json:"id"`
	Author    string `json:"author"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"createdAt"`
}

const (
	MinRating = 1
	MaxRating = 5
)

func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}
