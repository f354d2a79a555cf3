package payout

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrStatusConflict indicates a status transition lost a race: the stored
// status no longer matches the expected source state.
var ErrStatusConflict = errors.New("payout order status changed concurrently")

// Repository persists payout order records.
type Repository interface {
	Create(ctx context.Context, order Order) error
	Get(ctx context.Context, operationID string) (Order, error)
	UpdateStatus(ctx context.Context, operationID string, from, to Status) error
}

// PostgresRepository stores payout orders in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a payout order record. Duplicate operation identifiers
// violate the primary key and surface as ErrDuplicateOperationID.
func (r *PostgresRepository) Create(ctx context.Context, order Order) error {
	_, err := r.db.Exec(ctx, `INSERT INTO payout_orders
        (operation_id, orderer, wallet_to_debit, value, instructions, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		order.OperationID, order.Orderer, order.WalletToDebit, order.Value,
		order.Instructions, string(order.Status), order.CreatedAt.UTC(), order.UpdatedAt.UTC())
	if err != nil && isUniqueViolation(err) {
		return ErrDuplicateOperationID
	}
	return err
}

// Get fetches a payout order by operation identifier.
func (r *PostgresRepository) Get(ctx context.Context, operationID string) (Order, error) {
	row := r.db.QueryRow(ctx, `SELECT operation_id, orderer, wallet_to_debit, value, instructions, status, created_at, updated_at
        FROM payout_orders WHERE operation_id = $1`, operationID)
	var o Order
	var status string
	if err := row.Scan(&o.OperationID, &o.Orderer, &o.WalletToDebit, &o.Value, &o.Instructions, &status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrInvalidOperationID
		}
		return Order{}, err
	}
	o.Status = Status(status)
	o.CreatedAt = o.CreatedAt.UTC()
	o.UpdatedAt = o.UpdatedAt.UTC()
	return o, nil
}

// UpdateStatus advances the order from one status to another. The source
// status is part of the predicate so a lost race cannot double-apply a transition.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, operationID string, from, to Status) error {
	tag, err := r.db.Exec(ctx, `UPDATE payout_orders SET status = $1, updated_at = $2
        WHERE operation_id = $3 AND status = $4`,
		string(to), time.Now().UTC(), operationID, string(from))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStatusConflict
	}
	return nil
}

func isUniqueViolation(err error) bool {
	// pgx surfaces unique violations as *pgconn.PgError with SQLSTATE 23505.
	type sqlState interface{ SQLState() string }
	var state sqlState
	if errors.As(err, &state) {
		return state.SQLState() == "23505"
	}
	return false
}
