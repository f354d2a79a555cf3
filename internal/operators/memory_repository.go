package operators

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu    sync.RWMutex
	pairs map[string]map[string]bool
}

// NewMemoryRepository constructs an in-memory repository for tests and dev mode.
func NewMemoryRepository() Repository {
	return &memoryRepository{pairs: make(map[string]map[string]bool)}
}

func (r *memoryRepository) Set(_ context.Context, holder, operator string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pairs[holder] == nil {
		r.pairs[holder] = make(map[string]bool)
	}
	r.pairs[holder][operator] = true
	return nil
}

func (r *memoryRepository) Unset(_ context.Context, holder, operator string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pairs[holder], operator)
	return nil
}

func (r *memoryRepository) Exists(_ context.Context, holder, operator string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pairs[holder][operator], nil
}
