package monster

import (
	"context"
	"errors"
)

// ErrEmptyPopulation is returned when a monster is requested from an empty pool.
var ErrEmptyPopulation = errors.New("no monsters available")

type Repository interface {
	Add(ctx context.Context, m Monster) error
	List(ctx context.Context) ([]Monster, error)
	PickRandom(ctx context.Context, rng Intner) (Monster, error)
}
