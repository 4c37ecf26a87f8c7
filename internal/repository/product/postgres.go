package product

import (
	"context"
	"errors"
	"time"

	"artgallery-storefront/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger.Named("product_repo")}
}

const productColumns = `id::text, name, description, price::text, category, image_url, is_sold_out, artist_note, created_at`

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at DESC, id`)
	if err != nil {
		r.logger.Error("list products", zap.Error(err))
		return nil, err
	}
	products, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Product, error) {
		p, err := scanProduct(row)
		if err != nil {
			return domain.Product{}, err
		}
		return *p, nil
	})
	if err != nil {
		r.logger.Error("scan products", zap.Error(err))
		return nil, err
	}

	reviews, err := r.reviewsByProduct(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if rs, ok := reviews[products[i].ID]; ok {
			products[i].Reviews = rs
		}
	}
	r.logger.Debug("list products", zap.Int("count", len(products)))
	return products, nil
}

func (r *postgresRepo) reviewsByProduct(ctx context.Context) (map[string][]domain.Review, error) {
	const q = `
SELECT r.id::text, r.product_id::text, COALESCE(u.full_name, r.author_name), r.rating, r.comment, r.created_at
FROM reviews r
LEFT JOIN users u ON u.id = r.user_id
ORDER BY r.created_at, r.id
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Error("list reviews", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]domain.Review)
	for rows.Next() {
		var (
			rev       domain.Review
			productID string
			createdAt time.Time
		)
		if err := rows.Scan(&rev.ID, &productID, &rev.Author, &rev.Rating, &rev.Comment, &createdAt); err != nil {
			return nil, err
		}
		rev.CreatedAt = createdAt.UTC().Format(time.DateOnly)
		out[productID] = append(out[productID], rev)
	}
	return out, rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id::text = $1`, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (name, description, price, category, image_url, is_sold_out, artist_note)
VALUES ($1, $2, $3::numeric, $4, $5, $6, $7)
RETURNING ` + productColumns
	created, err := scanProduct(r.pool.QueryRow(ctx, q,
		p.Name, p.Description, p.Price.String(), string(p.Category), p.ImageURL, p.IsSoldOut, p.ArtistNote,
	))
	if err != nil {
		r.logger.Error("create product", zap.String("name", p.Name), zap.Error(err))
		return nil, mapErr(err)
	}
	r.logger.Info("product created", zap.String("id", created.ID))
	return created, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, isSoldOut bool) (*domain.Product, error) {
	q := `UPDATE products SET is_sold_out = $2 WHERE id::text = $1 RETURNING ` + productColumns
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id, isSoldOut))
	if err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

func (r *postgresRepo) CreateReview(ctx context.Context, productID string, in NewReview) (*domain.Review, error) {
	const q = `
INSERT INTO reviews (product_id, user_id, author_name, rating, comment)
SELECT p.id, NULLIF($2, '')::uuid, $3, $4, $5 FROM products p WHERE p.id::text = $1
RETURNING id::text, rating, comment, created_at
`
	var (
		rev       domain.Review
		createdAt time.Time
	)
	err := r.pool.QueryRow(ctx, q, productID, in.UserID, in.AuthorName, in.Rating, in.Comment).
		Scan(&rev.ID, &rev.Rating, &rev.Comment, &createdAt)
	if err != nil {
		r.logger.Error("create review", zap.String("product_id", productID), zap.Error(err))
		return nil, mapErr(err)
	}
	rev.Author = in.AuthorName
	rev.CreatedAt = createdAt.UTC().Format(time.DateOnly)
	return &rev, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p        domain.Product
		price    string
		category string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &category, &p.ImageURL, &p.IsSoldOut, &p.ArtistNote, &p.CreatedAt); err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	p.Price = amount
	p.Category = domain.Category(category)
	p.Reviews = []domain.Review{}
	return &p, nil
}

func mapErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return domain.ErrAlreadyExists
		case "23503":
			return domain.ErrNotFound
		}
	}
	return err
}
