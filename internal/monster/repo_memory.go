package monster

import (
	"context"
	"sync"
)

type MemoryRepo struct {
	mu sync.RWMutex
	ms []Monster
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{ms: []Monster{}} }

func (r *MemoryRepo) Add(ctx context.Context, m Monster) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ms = append(r.ms, m)
	return nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]Monster, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Monster, len(r.ms))
	copy(out, r.ms)
	return out, nil
}

func (r *MemoryRepo) PickRandom(ctx context.Context, rng Intner) (Monster, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.ms) == 0 {
		return Monster{}, ErrEmptyPopulation
	}
	return r.ms[rng.Intn(len(r.ms))], nil
}
