package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrAccountNotFound indicates no account matches the lookup.
var ErrAccountNotFound = errors.New("account not found")

// Repository persists accounts.
type Repository interface {
	Create(ctx context.Context, account Account) error
	FindByName(ctx context.Context, name string) (Account, error)
	FindByID(ctx context.Context, id string) (Account, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed account repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new account.
func (r *PostgresRepository) Create(ctx context.Context, account Account) error {
	accountID, err := uuid.Parse(account.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO identities (id, name, secret_hash, created_at)
        VALUES ($1, $2, $3, $4)`, accountID, account.Name, account.SecretHash, account.CreatedAt.UTC())
	return err
}

// FindByName fetches an account by its registered name.
func (r *PostgresRepository) FindByName(ctx context.Context, name string) (Account, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, secret_hash, created_at FROM identities WHERE name = $1`, name)
	return scanAccount(row)
}

// FindByID fetches an account by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (Account, error) {
	accountID, err := uuid.Parse(id)
	if err != nil {
		return Account{}, ErrAccountNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, name, secret_hash, created_at FROM identities WHERE id = $1`, accountID)
	return scanAccount(row)
}

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	var id uuid.UUID
	var createdAt time.Time
	if err := row.Scan(&id, &a.Name, &a.SecretHash, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, err
	}
	a.ID = id.String()
	a.CreatedAt = createdAt.UTC()
	return a, nil
}
