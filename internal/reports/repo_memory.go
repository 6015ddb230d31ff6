package reports

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Report
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Report),
	}
}

// Create stores a report. IDs are unique.
func (r *MemoryRepo) Create(ctx context.Context, rep Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.data[rep.ID]; exists {
		return ErrInvalidInput
	}
	r.data[rep.ID] = rep
	return nil
}

// GetByID returns a report by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rep, ok := r.data[id]
	if !ok {
		return Report{}, ErrNotFound
	}
	return rep, nil
}

var _ Repo = (*MemoryRepo)(nil)
