package game

import (
	"context"

	"monsterhunt/internal/hunter"
)

// Assign picks up to partySize idle hunters of at least requiredRank, in
// registration order, and marks them busy. The hunter repository's lock is the
// one critical section for assignment, so parties never overlap even when
// Assign is called concurrently. An empty party is a valid result.
func (e Engine) Assign(ctx context.Context, requiredRank, partySize int) ([]hunter.Hunter, error) {
	return e.Registry.Hunters.Claim(ctx, requiredRank, partySize)
}
