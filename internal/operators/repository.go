package operators

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists the (holder, operator) authorization relation.
type Repository interface {
	Set(ctx context.Context, holder, operator string) error
	Unset(ctx context.Context, holder, operator string) error
	Exists(ctx context.Context, holder, operator string) (bool, error)
}

// PostgresRepository stores authorizations in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Set records the authorization pair.
func (r *PostgresRepository) Set(ctx context.Context, holder, operator string) error {
	_, err := r.db.Exec(ctx, `INSERT INTO payout_operators (holder, operator) VALUES ($1, $2)
        ON CONFLICT (holder, operator) DO NOTHING`, holder, operator)
	return err
}

// Unset removes the authorization pair.
func (r *PostgresRepository) Unset(ctx context.Context, holder, operator string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM payout_operators WHERE holder = $1 AND operator = $2`, holder, operator)
	return err
}

// Exists reports whether the pair is currently authorized.
func (r *PostgresRepository) Exists(ctx context.Context, holder, operator string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM payout_operators WHERE holder = $1 AND operator = $2)`,
		holder, operator).Scan(&exists)
	return exists, err
}
