package seed

import (
	"context"
	"fmt"
	"time"

	"artgallery-storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// namespace derives stable database ids from the gallery's short ids so that
// reseeding updates rows instead of duplicating them.
var namespace = uuid.MustParse("7d9f5c1e-3b8a-4f61-9a2e-5c0d8e4b1f73")

type reviewSeed struct {
	Key     string
	Author  string
	Rating  int
	Comment string
	Date    string
}

type artworkSeed struct {
	Key         string
	Name        string
	Description string
	Price       int64
	Category    domain.Category
	ImageURL    string
	SoldOut     bool
	Reviews     []reviewSeed
}

var artworks = []artworkSeed{
	{
		Key:         "1",
		Name:        "Cosmic Dreamscape",
		Description: "A vibrant acrylic painting on a 24x36 inch canvas, depicting a swirling nebula in deep blues, purples, and pinks. Stars are highlighted with metallic silver paint.",
		Price:       36000,
		Category:    domain.CategoryPainting,
		ImageURL:    "https://picsum.photos/seed/cosmic/800/600",
		Reviews: []reviewSeed{
			{Key: "r1", Author: "Jane Doe", Rating: 5, Comment: "Absolutely breathtaking! The colors are even more vibrant in person.", Date: "2023-10-15"},
			{Key: "r2", Author: "John Smith", Rating: 4, Comment: "A stunning piece, though it took a while to ship.", Date: "2023-10-20"},
		},
	},
	{
		Key:         "2",
		Name:        "Whispering Woods",
		Description: "An intricate pencil sketch of an ancient, mystical forest. The detail in the bark and leaves creates a sense of profound tranquility. 18x24 inch on archival paper.",
		Price:       17600,
		Category:    domain.CategorySketch,
		ImageURL:    "https://picsum.photos/seed/woods/800/600",
		Reviews: []reviewSeed{
			{Key: "r3", Author: "Emily White", Rating: 5, Comment: "The detail is incredible. It feels like you could step right into the forest.", Date: "2023-11-01"},
		},
	},
	{
		Key:         "3",
		Name:        "Ocean's Heart",
		Description: "A handmade ceramic vase glazed in deep ocean blues and greens, with a unique heart-shaped opening. Perfect for holding a single, precious flower. Approx. 8 inches tall.",
		Price:       6800,
		Category:    domain.CategoryCraft,
		ImageURL:    "https://picsum.photos/seed/ocean/800/600",
		SoldOut:     true,
	},
	{
		Key:         "4",
		Name:        "City of Glass",
		Description: "An abstract painting using mixed media and resin to create a multi-layered, reflective cityscape. Dominated by cool blues and sharp, geometric lines. 30x30 inch canvas.",
		Price:       52000,
		Category:    domain.CategoryPainting,
		ImageURL:    "https://picsum.photos/seed/city/800/600",
		Reviews: []reviewSeed{
			{Key: "r4", Author: "Mark Johnson", Rating: 5, Comment: "A modern masterpiece. The centerpiece of my living room.", Date: "2023-09-05"},
		},
	},
	{
		Key:         "5",
		Name:        "Ephemeral Portrait",
		Description: "A delicate charcoal sketch capturing a fleeting expression. The use of light and shadow gives the subject an ethereal, ghost-like quality. 16x20 inch.",
		Price:       14400,
		Category:    domain.CategorySketch,
		ImageURL:    "https://picsum.photos/seed/portrait/800/600",
	},
	{
		Key:         "6",
		Name:        "Sunstone Amulet",
		Description: "A wire-wrapped sunstone pendant on a sterling silver chain. The stone is known for its properties of leadership and joy. A one-of-a-kind wearable art piece.",
		Price:       9600,
		Category:    domain.CategoryCraft,
		ImageURL:    "https://picsum.photos/seed/sunstone/800/600",
		Reviews: []reviewSeed{
			{Key: "r5", Author: "Sarah Lee", Rating: 5, Comment: "Beautifully crafted and has such a wonderful energy!", Date: "2023-11-10"},
		},
	},
	{
		Key:         "7",
		Name:        "Stellar Keychain",
		Description: "A miniature hand-painted nebula encased in a durable resin keychain. Each piece is unique and features a tiny, glowing star in the center.",
		Price:       2000,
		Category:    domain.CategoryKeychain,
		ImageURL:    "https://picsum.photos/seed/keychain/800/600",
		Reviews: []reviewSeed{
			{Key: "r6", Author: "Alice Cooper", Rating: 5, Comment: "So cute and well-made! I love carrying a piece of the galaxy with me.", Date: "2023-12-01"},
		},
	},
}

// Artworks returns the starter catalog keyed by the gallery's short ids. The
// in-memory backend serves it as is.
func Artworks() []domain.Product {
	out := make([]domain.Product, 0, len(artworks))
	for _, a := range artworks {
		p := domain.Product{
			ID:          a.Key,
			Name:        a.Name,
			Description: a.Description,
			Price:       decimal.NewFromInt(a.Price),
			Category:    a.Category,
			ImageURL:    a.ImageURL,
			IsSoldOut:   a.SoldOut,
			Reviews:     make([]domain.Review, 0, len(a.Reviews)),
		}
		for _, r := range a.Reviews {
			p.Reviews = append(p.Reviews, domain.Review{
				ID:        r.Key,
				Author:    r.Author,
				Rating:    r.Rating,
				Comment:   r.Comment,
				CreatedAt: r.Date,
			})
		}
		out = append(out, p)
	}
	return out
}

// StableID maps a short seed key onto the uuid stored in Postgres.
func StableID(key string) string {
	return uuid.NewSHA1(namespace, []byte(key)).String()
}

// Account is a gallery account provisioned at seed time.
type Account struct {
	FullName string
	Email    string
	Password string
	Role     domain.Role
}

// Provisioner creates accounts with a fixed role.
type Provisioner interface {
	EnsureAccount(ctx context.Context, fullName, email, password string, role domain.Role) (*domain.User, error)
}

// Accounts provisions every account, leaving existing emails untouched.
func Accounts(ctx context.Context, p Provisioner, accounts []Account) error {
	for _, a := range accounts {
		if _, err := p.EnsureAccount(ctx, a.FullName, a.Email, a.Password, a.Role); err != nil {
			return fmt.Errorf("ensure account %s: %w", a.Email, err)
		}
	}
	return nil
}

// Apply inserts the starter catalog. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	for _, a := range artworks {
		if err := upsertArtwork(ctx, pool, a); err != nil {
			return fmt.Errorf("upsert artwork %s: %w", a.Key, err)
		}
		for _, r := range a.Reviews {
			if err := insertReview(ctx, pool, a.Key, r); err != nil {
				return fmt.Errorf("insert review %s: %w", r.Key, err)
			}
		}
	}
	return nil
}

func upsertArtwork(ctx context.Context, pool *pgxpool.Pool, a artworkSeed) error {
	const q = `
INSERT INTO products (id, name, description, price, category, image_url, is_sold_out)
VALUES ($1, $2, $3, $4::numeric, $5, $6, $7)
ON CONFLICT (id) DO UPDATE
SET name = EXCLUDED.name,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    category = EXCLUDED.category,
    image_url = EXCLUDED.image_url,
    is_sold_out = EXCLUDED.is_sold_out
`
	_, err := pool.Exec(ctx, q, StableID(a.Key), a.Name, a.Description,
		decimal.NewFromInt(a.Price).StringFixed(2), string(a.Category), a.ImageURL, a.SoldOut)
	return err
}

func insertReview(ctx context.Context, pool *pgxpool.Pool, productKey string, r reviewSeed) error {
	created, err := time.Parse(time.DateOnly, r.Date)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO reviews (id, product_id, author_name, rating, comment, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO NOTHING
`
	_, err = pool.Exec(ctx, q, StableID(productKey+"/"+r.Key), StableID(productKey), r.Author, r.Rating, r.Comment, created)
	return err
}
