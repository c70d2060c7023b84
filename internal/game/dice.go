package game

import (
	"math/rand"
	"sync"

	"monsterhunt/internal/random"
)

// Dice is the random source the engine draws from.
type Dice interface {
	Intn(n int) int
	Int63() int64
}

// NewDice returns an unsynchronised source for use by a single goroutine.
func NewDice(seed int64) Dice {
	return rand.New(rand.NewSource(seed))
}

// NewSharedDice returns a source that is safe to share between goroutines.
func NewSharedDice(seed int64) Dice {
	return &lockedDice{r: rand.New(rand.NewSource(seed))}
}

type lockedDice struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (d *lockedDice) Intn(n int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.r.Intn(n)
}

func (d *lockedDice) Int63() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.r.Int63()
}

var (
	fallbackOnce sync.Once
	fallback     Dice
)

// fallbackDice is used by engines built without a Dice.
func fallbackDice() Dice {
	fallbackOnce.Do(func() {
		seed, err := random.NewSeed()
		if err != nil {
			seed = rand.Int63()
		}
		fallback = NewSharedDice(seed)
	})
	return fallback
}
