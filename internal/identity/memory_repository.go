package identity

import (
	"context"
	"errors"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]Account
	byName  map[string]string
}

// NewMemoryRepository constructs an in-memory repository for tests and dev mode.
func NewMemoryRepository() Repository {
	return &memoryRepository{byID: make(map[string]Account), byName: make(map[string]string)}
}

func (r *memoryRepository) Create(_ context.Context, account Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[account.Name]; exists {
		return errors.New("account name taken")
	}
	r.byID[account.ID] = account
	r.byName[account.Name] = account.ID
	return nil
}

func (r *memoryRepository) FindByName(_ context.Context, name string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byName[name]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return r.byID[id], nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.byID[id]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return account, nil
}
