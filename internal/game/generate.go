package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"monsterhunt/internal/hunter"
	"monsterhunt/internal/quest"
	"monsterhunt/internal/telemetry"
)

// GenerateQuest draws a monster, derives the quest parameters and assigns a
// party. The quest is only stored when at least one hunter was assigned.
func (e Engine) GenerateQuest(ctx context.Context) (quest.Quest, error) {
	dice := e.dice()

	m, err := e.Registry.Monsters.PickRandom(ctx, dice)
	if err != nil {
		if errors.Is(err, ErrEmptyPopulation) {
			e.record("warn", telemetry.EventPopulationGone, telemetry.EventMetadata{})
		}
		return quest.Quest{}, err
	}

	timeLimit := quest.MinTimeLimit + dice.Intn(quest.MaxTimeLimit-quest.MinTimeLimit+1)
	partySize := quest.MinPartySize + dice.Intn(quest.MaxPartySize-quest.MinPartySize+1)
	seed := dice.Int63()

	party, err := e.Assign(ctx, m.RequiredRank, partySize)
	if err != nil {
		return quest.Quest{}, err
	}
	if len(party) == 0 {
		e.record("info", telemetry.EventQuestSkipped, telemetry.EventMetadata{
			"monster":       m.Species,
			"required_rank": m.RequiredRank,
			"party_size":    partySize,
		})
		return quest.Quest{}, fmt.Errorf("%w: %s needs rank %d", ErrNoEligibleHunters, m.Species, m.RequiredRank)
	}

	ids := make([]hunter.ID, 0, len(party))
	for _, h := range party {
		ids = append(ids, h.ID)
	}

	q := quest.Quest{
		ID:           uuid.NewString(),
		Name:         quest.NameFor(m.Species),
		Target:       m.Species,
		RequiredRank: m.RequiredRank,
		TimeLimit:    timeLimit,
		PartySize:    partySize,
		HunterIDs:    ids,
		Seed:         seed,
		Status:       quest.StatusUnresolved,
		CreatedAt:    e.clock().Now(),
	}
	if err := e.Quests.Add(ctx, q); err != nil {
		e.release(ctx, ids)
		return quest.Quest{}, fmt.Errorf("store quest: %w", err)
	}

	e.record("info", telemetry.EventQuestGenerated, telemetry.EventMetadata{
		"quest":      q.ID,
		"monster":    m.Species,
		"party_size": len(ids),
		"time_limit": timeLimit,
	})
	return q, nil
}

// release frees hunters whose quest never made it into the repository.
func (e Engine) release(ctx context.Context, ids []hunter.ID) {
	for _, id := range ids {
		if _, err := e.Registry.Hunters.Update(ctx, id, func(h *hunter.Hunter) { h.Busy = false }); err != nil {
			e.warn("hunter_release_failed", map[string]any{"hunter": id, "error": err.Error()})
		}
	}
}
