package quest

import (
	"context"
	"errors"
)

var (
	ErrNotFound       = errors.New("quest not found")
	ErrStatusConflict = errors.New("quest status conflict")
)

type Repository interface {
	Add(ctx context.Context, q Quest) error
	Get(ctx context.Context, id string) (Quest, bool, error)
	List(ctx context.Context) ([]Quest, error)

	// Transition moves a quest from one status to another atomically and lets
	// fn fill in fields that belong to the new status. It fails with
	// ErrStatusConflict when the stored status is not from.
	Transition(ctx context.Context, id string, from, to Status, fn func(q *Quest)) (Quest, error)
}

// Archive receives every quest that reaches a terminal status.
type Archive interface {
	RecordQuest(ctx context.Context, q Quest) error
}
