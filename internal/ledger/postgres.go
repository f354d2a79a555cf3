package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLedger persists account balances in PostgreSQL. Every mutating call
// runs in a single transaction with the affected rows locked, so a call either
// commits in full or leaves no trace.
type PostgresLedger struct {
	db *pgxpool.Pool
}

// NewPostgresLedger constructs a Postgres-backed ledger implementation.
func NewPostgresLedger(db *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{db: db}
}

// EnsureAccount guarantees an account row exists for the provided code.
func (l *PostgresLedger) EnsureAccount(ctx context.Context, code string) error {
	_, err := l.db.Exec(ctx, `INSERT INTO accounts (id, code, balance, held) VALUES ($1, $2, 0, 0)
        ON CONFLICT (code) DO NOTHING`, uuid.New(), code)
	return err
}

// Balance returns the spendable balance for the specified account code.
func (l *PostgresLedger) Balance(ctx context.Context, code string) (int64, error) {
	var balance int64
	err := l.db.QueryRow(ctx, `SELECT balance FROM accounts WHERE code = $1`, code).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrUnknownAccount
	}
	return balance, err
}

// HeldBalance returns the amount currently under hold for the account.
func (l *PostgresLedger) HeldBalance(ctx context.Context, code string) (int64, error) {
	var held int64
	err := l.db.QueryRow(ctx, `SELECT held FROM accounts WHERE code = $1`, code).Scan(&held)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrUnknownAccount
	}
	return held, err
}

// Mint credits newly created supply to the account. The client transaction
// identifier deduplicates retries.
func (l *PostgresLedger) Mint(ctx context.Context, code, clientTxID string, amount int64) (MintResult, error) {
	if amount <= 0 {
		return MintResult{}, fmt.Errorf("amount must be positive")
	}

	tx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return MintResult{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	acc, err := lockAccount(ctx, tx, code)
	if err != nil {
		return MintResult{}, err
	}

	const existingQuery = `SELECT id FROM mints WHERE client_tx_id = $1`
	var existingID uuid.UUID
	if err := tx.QueryRow(ctx, existingQuery, clientTxID).Scan(&existingID); err == nil {
		return MintResult{TransactionID: existingID.String(), Balance: acc.balance}, ErrDuplicateTransaction
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return MintResult{}, err
	}

	mintID := uuid.New()
	if _, err := tx.Exec(ctx, `INSERT INTO mints (id, client_tx_id, account_id, amount) VALUES ($1, $2, $3, $4)`,
		mintID, clientTxID, acc.id, amount); err != nil {
		return MintResult{}, err
	}
	if _, err := tx.Exec(ctx, `UPDATE accounts SET balance = balance + $1 WHERE id = $2`, amount, acc.id); err != nil {
		return MintResult{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return MintResult{}, err
	}

	return MintResult{TransactionID: mintID.String(), Balance: acc.balance + amount}, nil
}

// Burn destroys spendable balance from the account.
func (l *PostgresLedger) Burn(ctx context.Context, code string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}

	tx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	acc, err := lockAccount(ctx, tx, code)
	if err != nil {
		return err
	}
	if acc.balance < amount {
		return ErrInsufficientFunds
	}

	if _, err := tx.Exec(ctx, `UPDATE accounts SET balance = balance - $1 WHERE id = $2`, amount, acc.id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Hold moves spendable balance into the account's held bucket.
func (l *PostgresLedger) Hold(ctx context.Context, code string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}

	tx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	acc, err := lockAccount(ctx, tx, code)
	if err != nil {
		return err
	}
	if acc.balance < amount {
		return ErrInsufficientFunds
	}

	if _, err := tx.Exec(ctx, `UPDATE accounts SET balance = balance - $1, held = held + $1 WHERE id = $2`, amount, acc.id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Release moves held balance back into the account's spendable bucket.
func (l *PostgresLedger) Release(ctx context.Context, code string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}

	tx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	acc, err := lockAccount(ctx, tx, code)
	if err != nil {
		return err
	}
	if acc.held < amount {
		return ErrInsufficientHold
	}

	if _, err := tx.Exec(ctx, `UPDATE accounts SET held = held - $1, balance = balance + $1 WHERE id = $2`, amount, acc.id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// TransferHeld consumes held funds from one account and credits another
// account's spendable balance within a single transaction.
func (l *PostgresLedger) TransferHeld(ctx context.Context, fromCode, toCode string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}

	tx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	// Lock in deterministic order to avoid deadlocks between concurrent transfers.
	first, second := fromCode, toCode
	if second < first {
		first, second = second, first
	}
	if _, err := lockAccount(ctx, tx, first); err != nil {
		return err
	}
	if first != second {
		if _, err := lockAccount(ctx, tx, second); err != nil {
			return err
		}
	}

	from, err := readAccount(ctx, tx, fromCode)
	if err != nil {
		return err
	}
	if from.held < amount {
		return ErrInsufficientHold
	}

	if _, err := tx.Exec(ctx, `UPDATE accounts SET held = held - $1 WHERE id = $2`, amount, from.id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE accounts SET balance = balance + $1 WHERE code = $2`, amount, toCode); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

type accountRow struct {
	id      uuid.UUID
	balance int64
	held    int64
}

func lockAccount(ctx context.Context, tx pgx.Tx, code string) (accountRow, error) {
	const query = `SELECT id, balance, held FROM accounts WHERE code = $1 FOR UPDATE`
	var acc accountRow
	if err := tx.QueryRow(ctx, query, code).Scan(&acc.id, &acc.balance, &acc.held); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return accountRow{}, ErrUnknownAccount
		}
		return accountRow{}, err
	}
	return acc, nil
}

func readAccount(ctx context.Context, tx pgx.Tx, code string) (accountRow, error) {
	const query = `SELECT id, balance, held FROM accounts WHERE code = $1`
	var acc accountRow
	if err := tx.QueryRow(ctx, query, code).Scan(&acc.id, &acc.balance, &acc.held); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return accountRow{}, ErrUnknownAccount
		}
		return accountRow{}, err
	}
	return acc, nil
}
