package quest

import (
	"context"
	"fmt"
	"sync"
)

type MemoryRepo struct {
	mu     sync.RWMutex
	quests map[string]Quest
	order  []string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		quests: make(map[string]Quest),
	}
}

func (r *MemoryRepo) Add(ctx context.Context, q Quest) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.quests[q.ID]; exists {
		return fmt.Errorf("quest %s already exists", q.ID)
	}
	if q.Status == "" {
		q.Status = StatusUnresolved
	}
	r.quests[q.ID] = q.clone()
	r.order = append(r.order, q.ID)
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Quest, bool, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	q, ok := r.quests[id]
	if !ok {
		return Quest{}, false, nil
	}
	return q.clone(), true, nil
}

// List returns quests in the order they were added.
func (r *MemoryRepo) List(ctx context.Context) ([]Quest, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Quest, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.quests[id].clone())
	}
	return out, nil
}

func (r *MemoryRepo) Transition(ctx context.Context, id string, from, to Status, fn func(q *Quest)) (Quest, error) {
	_ = ctx

	if !CanTransition(from, to) {
		return Quest{}, fmt.Errorf("%w: %s -> %s is not allowed", ErrStatusConflict, from, to)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	q, ok := r.quests[id]
	if !ok {
		return Quest{}, ErrNotFound
	}
	if q.Status != from {
		return q.clone(), fmt.Errorf("%w: quest %s is %s, want %s", ErrStatusConflict, id, q.Status, from)
	}

	q = q.clone()
	if fn != nil {
		fn(&q)
	}
	q.ID = id
	q.Status = to
	r.quests[id] = q
	return q.clone(), nil
}
