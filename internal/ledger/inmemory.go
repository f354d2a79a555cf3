package ledger

import (
	"context"
	"sync"
)

type account struct {
	balance int64
	held    int64
}

type inMemoryLedger struct {
	mu       sync.RWMutex
	accounts map[string]*account
	mints    map[string]MintResult
}

// NewInMemory creates a concurrency-safe in-memory ledger useful for unit tests
// and development mode.
func NewInMemory() Ledger {
	return &inMemoryLedger{
		accounts: make(map[string]*account),
		mints:    make(map[string]MintResult),
	}
}

func (l *inMemoryLedger) EnsureAccount(_ context.Context, code string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.accounts[code]; !exists {
		l.accounts[code] = &account{}
	}
	return nil
}

func (l *inMemoryLedger) Balance(_ context.Context, code string) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	acc, exists := l.accounts[code]
	if !exists {
		return 0, ErrUnknownAccount
	}
	return acc.balance, nil
}

func (l *inMemoryLedger) HeldBalance(_ context.Context, code string) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	acc, exists := l.accounts[code]
	if !exists {
		return 0, ErrUnknownAccount
	}
	return acc.held, nil
}

func (l *inMemoryLedger) Mint(_ context.Context, code, clientTxID string, amount int64) (MintResult, error) {
	if amount <= 0 {
		return MintResult{}, ErrInsufficientFunds
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := "mint:" + clientTxID
	if res, exists := l.mints[key]; exists {
		return res, ErrDuplicateTransaction
	}

	acc, ok := l.accounts[code]
	if !ok {
		return MintResult{}, ErrUnknownAccount
	}

	acc.balance += amount

	res := MintResult{TransactionID: key, Balance: acc.balance}
	l.mints[key] = res
	return res, nil
}

func (l *inMemoryLedger) Burn(_ context.Context, code string, amount int64) error {
	if amount <= 0 {
		return ErrInsufficientFunds
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	acc, ok := l.accounts[code]
	if !ok {
		return ErrUnknownAccount
	}
	if acc.balance < amount {
		return ErrInsufficientFunds
	}

	acc.balance -= amount
	return nil
}

func (l *inMemoryLedger) Hold(_ context.Context, code string, amount int64) error {
	if amount <= 0 {
		return ErrInsufficientFunds
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	acc, ok := l.accounts[code]
	if !ok {
		return ErrUnknownAccount
	}
	if acc.balance < amount {
		return ErrInsufficientFunds
	}

	acc.balance -= amount
	acc.held += amount
	return nil
}

func (l *inMemoryLedger) Release(_ context.Context, code string, amount int64) error {
	if amount <= 0 {
		return ErrInsufficientHold
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	acc, ok := l.accounts[code]
	if !ok {
		return ErrUnknownAccount
	}
	if acc.held < amount {
		return ErrInsufficientHold
	}

	acc.held -= amount
	acc.balance += amount
	return nil
}

func (l *inMemoryLedger) TransferHeld(_ context.Context, fromCode, toCode string, amount int64) error {
	if amount <= 0 {
		return ErrInsufficientHold
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	from, ok := l.accounts[fromCode]
	if !ok {
		return ErrUnknownAccount
	}
	to, ok := l.accounts[toCode]
	if !ok {
		return ErrUnknownAccount
	}
	if from.held < amount {
		return ErrInsufficientHold
	}

	from.held -= amount
	to.balance += amount
	return nil
}
