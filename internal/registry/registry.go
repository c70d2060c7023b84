// Package registry owns the live hunter and monster collections for one
// simulation session.
package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"monsterhunt/internal/hunter"
	"monsterhunt/internal/monster"
)

var (
	ErrInvalidHunter  = errors.New("invalid hunter")
	ErrInvalidMonster = errors.New("invalid monster")
)

type Registry struct {
	Hunters  hunter.Repository
	Monsters monster.Repository
}

// New returns a registry backed by in-memory repositories.
func New() *Registry {
	return &Registry{
		Hunters:  hunter.NewMemoryRepo(),
		Monsters: monster.NewMemoryRepo(),
	}
}

func (r *Registry) AddHunter(ctx context.Context, name string, rank, successRate int) (hunter.Hunter, error) {
	if err := validToken(name); err != nil {
		return hunter.Hunter{}, fmt.Errorf("%w: name %v", ErrInvalidHunter, err)
	}
	if rank < 1 {
		return hunter.Hunter{}, fmt.Errorf("%w: rank must be at least 1, got %d", ErrInvalidHunter, rank)
	}
	return r.Hunters.Add(ctx, hunter.Hunter{
		Name:        name,
		Rank:        rank,
		SuccessRate: hunter.ClampSuccessRate(successRate),
	})
}

func (r *Registry) AddMonster(ctx context.Context, species string, requiredRank int) (monster.Monster, error) {
	if err := validToken(species); err != nil {
		return monster.Monster{}, fmt.Errorf("%w: species %v", ErrInvalidMonster, err)
	}
	if requiredRank < 0 {
		return monster.Monster{}, fmt.Errorf("%w: required rank must not be negative, got %d", ErrInvalidMonster, requiredRank)
	}
	m := monster.Monster{Species: species, RequiredRank: requiredRank}
	if err := r.Monsters.Add(ctx, m); err != nil {
		return monster.Monster{}, err
	}
	return m, nil
}

// Load appends every record of the roster in order. Records the registry
// would refuse are skipped and counted.
func (r *Registry) Load(ctx context.Context, roster Roster) (skipped int, err error) {
	for _, m := range roster.Monsters {
		if _, err := r.AddMonster(ctx, m.Species, m.RequiredRank); err != nil {
			if errors.Is(err, ErrInvalidMonster) {
				skipped++
				continue
			}
			return skipped, err
		}
	}
	for _, h := range roster.Hunters {
		// busy is never carried across sessions
		if _, err := r.AddHunter(ctx, h.Name, h.Rank, h.SuccessRate); err != nil {
			if errors.Is(err, ErrInvalidHunter) {
				skipped++
				continue
			}
			return skipped, err
		}
	}
	return skipped, nil
}

// Snapshot returns the current collections in persisted shape with every
// hunter's busy flag cleared.
func (r *Registry) Snapshot(ctx context.Context) (Roster, error) {
	hs, err := r.Hunters.List(ctx)
	if err != nil {
		return Roster{}, err
	}
	ms, err := r.Monsters.List(ctx)
	if err != nil {
		return Roster{}, err
	}

	out := Roster{
		Hunters:  make([]HunterRecord, 0, len(hs)),
		Monsters: make([]MonsterRecord, 0, len(ms)),
	}
	for _, h := range hs {
		out.Hunters = append(out.Hunters, HunterRecord{
			Name:        h.Name,
			Rank:        h.Rank,
			SuccessRate: h.SuccessRate,
			Busy:        false,
		})
	}
	for _, m := range ms {
		out.Monsters = append(out.Monsters, MonsterRecord{Species: m.Species, RequiredRank: m.RequiredRank})
	}
	return out, nil
}

func validToken(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("is required")
	}
	if strings.ContainsAny(s, " \t\r\n") {
		return fmt.Errorf("%q must be a single word", s)
	}
	return nil
}
