package hunter

import (
	"context"
	"sync"
)

// MemoryRepo keeps hunters in an append-only arena. IDs index into it, so a
// quest holding an ID stays valid no matter how many hunters are added later.
type MemoryRepo struct {
	mu sync.RWMutex
	hs []Hunter
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{hs: []Hunter{}} }

func (r *MemoryRepo) Add(ctx context.Context, h Hunter) (Hunter, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	h.ID = ID(len(r.hs) + 1)
	h.SuccessRate = ClampSuccessRate(h.SuccessRate)
	r.hs = append(r.hs, h)
	return h, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id ID) (Hunter, bool, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index(id)
	if !ok {
		return Hunter{}, false, nil
	}
	return r.hs[i], true, nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]Hunter, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Hunter, len(r.hs))
	copy(out, r.hs)
	return out, nil
}

func (r *MemoryRepo) Claim(ctx context.Context, requiredRank, partySize int) ([]Hunter, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	party := []Hunter{}
	if partySize <= 0 {
		return party, nil
	}
	for i := range r.hs {
		if !r.hs[i].Eligible(requiredRank) {
			continue
		}
		r.hs[i].Busy = true
		party = append(party, r.hs[i])
		if len(party) == partySize {
			break
		}
	}
	return party, nil
}

func (r *MemoryRepo) Update(ctx context.Context, id ID, fn func(h *Hunter)) (Hunter, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index(id)
	if !ok {
		return Hunter{}, ErrNotFound
	}
	h := r.hs[i]
	fn(&h)
	h.ID = id
	h.SuccessRate = ClampSuccessRate(h.SuccessRate)
	if h.Rank < r.hs[i].Rank {
		h.Rank = r.hs[i].Rank
	}
	r.hs[i] = h
	return h, nil
}

func (r *MemoryRepo) index(id ID) (int, bool) {
	i := int(id) - 1
	if i < 0 || i >= len(r.hs) {
		return 0, false
	}
	return i, true
}
