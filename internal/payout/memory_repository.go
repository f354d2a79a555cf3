package payout

import (
	"context"
	"sync"
	"time"
)

type memoryRepository struct {
	mu     sync.RWMutex
	orders map[string]Order
}

// NewMemoryRepository constructs an in-memory repository for tests and dev mode.
func NewMemoryRepository() Repository {
	return &memoryRepository{orders: make(map[string]Order)}
}

func (r *memoryRepository) Create(_ context.Context, order Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[order.OperationID]; exists {
		return ErrDuplicateOperationID
	}
	r.orders[order.OperationID] = order
	return nil
}

func (r *memoryRepository) Get(_ context.Context, operationID string) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[operationID]
	if !ok {
		return Order{}, ErrInvalidOperationID
	}
	return order, nil
}

func (r *memoryRepository) UpdateStatus(_ context.Context, operationID string, from, to Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[operationID]
	if !ok {
		return ErrInvalidOperationID
	}
	if order.Status != from {
		return ErrStatusConflict
	}
	order.Status = to
	order.UpdatedAt = time.Now().UTC()
	r.orders[operationID] = order
	return nil
}
