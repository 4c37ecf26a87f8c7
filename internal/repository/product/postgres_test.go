package product

import (
	"context"
	"errors"
	"os"
	"testing"

	"artgallery-storefront/internal/domain"
	"artgallery-storefront/internal/migrate"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

func TestPostgres_CatalogRoundTrip(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool, nil); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	note := "Painted at dawn."
	created, err := repo.Create(ctx, domain.Product{
		Name:        "Cosmic Dreamscape",
		Description: "swirling nebula",
		Price:       decimal.RequireFromString("36000.50"),
		Category:    domain.CategoryPainting,
		ImageURL:    "https://example.com/1.jpg",
		ArtistNote:  &note,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !created.Price.Equal(decimal.RequireFromString("36000.5")) {
		t.Fatalf("unexpected price %s", created.Price)
	}

	if _, err := repo.CreateReview(ctx, created.ID, NewReview{AuthorName: "Ada", Rating: 5, Comment: "Stunning"}); err != nil {
		t.Fatalf("CreateReview: %v", err)
	}
	updated, err := repo.UpdateStatus(ctx, created.ID, true)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if !updated.IsSoldOut {
		t.Fatalf("expected sold out")
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || len(list[0].Reviews) != 1 || list[0].Reviews[0].Author != "Ada" {
		t.Fatalf("unexpected list %+v", list)
	}
	if list[0].ArtistNote == nil || *list[0].ArtistNote != note {
		t.Fatalf("artist note lost")
	}
}

func TestPostgres_NotFound(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool, nil); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	if _, err := repo.UpdateStatus(ctx, "00000000-0000-0000-0000-000000000000", true); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.CreateReview(ctx, "00000000-0000-0000-0000-000000000000", NewReview{AuthorName: "x", Rating: 1}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE reviews, products, tokens, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}
