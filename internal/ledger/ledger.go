package ledger

import (
	"context"
	"errors"
)

var (
	// ErrInsufficientFunds occurs when an account lacks spendable balance to
	// cover a requested hold, burn or transfer.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientHold occurs when a release or held transfer exceeds the
	// amount currently under hold for the account.
	ErrInsufficientHold = errors.New("insufficient held funds")

	// ErrDuplicateTransaction indicates the provided client transaction identifier
	// already exists and therefore the operation should be treated as idempotent.
	ErrDuplicateTransaction = errors.New("duplicate transaction")

	// ErrUnknownAccount indicates the referenced account code has never been provisioned.
	ErrUnknownAccount = errors.New("unknown account")
)

// MintResult captures the outcome of a supply-creating posting.
type MintResult struct {
	TransactionID string
	Balance       int64
}

// Ledger defines the balance primitives the payout core relies on. Every
// method is fail-fast: on error no balance has been touched.
//
// Each account carries two buckets: spendable balance and held balance. A hold
// moves funds between the two buckets of one account; TransferHeld is the only
// way held funds leave an account, and Burn is the only way spendable funds
// leave the system.
type Ledger interface {
	EnsureAccount(ctx context.Context, code string) error
	Balance(ctx context.Context, code string) (int64, error)
	HeldBalance(ctx context.Context, code string) (int64, error)
	Mint(ctx context.Context, code, clientTxID string, amount int64) (MintResult, error)
	Burn(ctx context.Context, code string, amount int64) error
	Hold(ctx context.Context, code string, amount int64) error
	Release(ctx context.Context, code string, amount int64) error
	TransferHeld(ctx context.Context, fromCode, toCode string, amount int64) error
}
