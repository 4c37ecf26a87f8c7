package user

import (
	"context"
	"errors"
	"strings"

	"artgallery-storefront/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger.Named("user_repo")}
}

const accountColumns = `id::text, email, password_hash, full_name, role, created_at`

func (r *postgresRepo) Create(ctx context.Context, a Account) (*Account, error) {
	role := a.Role
	if role == "" {
		role = domain.RoleUser
	}
	q := `
INSERT INTO users (email, password_hash, full_name, role)
VALUES ($1, $2, $3, $4)
RETURNING ` + accountColumns
	return r.scanAccount(r.pool.QueryRow(ctx, q, strings.ToLower(a.Email), a.PasswordHash, a.FullName, string(role)))
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*Account, error) {
	q := `SELECT ` + accountColumns + ` FROM users WHERE lower(email) = lower($1) LIMIT 1`
	return r.scanAccount(r.pool.QueryRow(ctx, q, email))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Account, error) {
	q := `SELECT ` + accountColumns + ` FROM users WHERE id::text = $1 LIMIT 1`
	return r.scanAccount(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) scanAccount(row pgx.Row) (*Account, error) {
	var (
		a    Account
		role string
	)
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.FullName, &role, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Error("scan account", zap.Error(err))
		return nil, err
	}
	a.Role = domain.Role(role)
	return &a, nil
}
