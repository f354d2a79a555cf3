package payout

import "time"

// Status is the lifecycle state of a payout order.
type Status string

const (
	// StatusOrdered is the initial state: a hold exists on the holder's funds.
	StatusOrdered Status = "ordered"
	// StatusFundsInSuspense means the held funds were moved into the suspense account.
	StatusFundsInSuspense Status = "funds_in_suspense"
	// StatusExecuted is terminal: suspense funds were burned for off-ledger disbursement.
	StatusExecuted Status = "executed"
	// StatusRejected is terminal: the payout agent rejected the order and the hold was released.
	StatusRejected Status = "rejected"
	// StatusCancelled is terminal: the orderer or holder cancelled the order and the hold was released.
	StatusCancelled Status = "cancelled"
)

// Order is one payout order record, keyed by its caller-supplied operation
// identifier. Operation identifiers are never reused, even after terminal states.
type Order struct {
	OperationID   string
	Orderer       string
	WalletToDebit string
	Value         int64
	Instructions  string
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
