package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const blacklistSchema = `
	CREATE TABLE IF NOT EXISTS seller_blacklist (
		seller_name TEXT PRIMARY KEY,
		reason      TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// BlacklistRepository stores sellers that are never ranked, for instance
// because they cancelled an order.
type BlacklistRepository struct {
	db querier
}

func NewBlacklistRepository(db *DB) *BlacklistRepository {
	return &BlacklistRepository{db: db}
}

func (r *BlacklistRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, blacklistSchema); err != nil {
		return fmt.Errorf("failed to create seller_blacklist: %w", err)
	}
	return nil
}

// SellerNames returns every blacklisted seller, exactly as stored.
func (r *BlacklistRepository) SellerNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT seller_name FROM seller_blacklist ORDER BY seller_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query blacklist: %w", err)
	}

	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan blacklist: %w", err)
	}

	return names, nil
}

func (r *BlacklistRepository) Add(ctx context.Context, sellerName, reason string) error {
	query := `
		INSERT INTO seller_blacklist (seller_name, reason)
		VALUES ($1, $2)
		ON CONFLICT (seller_name) DO UPDATE SET reason = EXCLUDED.reason`

	if _, err := r.db.Exec(ctx, query, sellerName, reason); err != nil {
		return fmt.Errorf("failed to blacklist seller: %w", err)
	}
	return nil
}
