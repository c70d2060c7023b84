package hunter

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("hunter not found")

type Repository interface {
	Add(ctx context.Context, h Hunter) (Hunter, error)
	Get(ctx context.Context, id ID) (Hunter, bool, error)
	List(ctx context.Context) ([]Hunter, error)

	// Claim selects up to partySize eligible hunters in insertion order and
	// marks them busy before returning. Concurrent calls never share a hunter.
	Claim(ctx context.Context, requiredRank, partySize int) ([]Hunter, error)

	// Update applies fn to the stored hunter under the repository lock.
	Update(ctx context.Context, id ID, fn func(h *Hunter)) (Hunter, error)
}
