package game

import (
	"context"
	"errors"
	"fmt"

	"monsterhunt/internal/hunter"
	"monsterhunt/internal/quest"
	"monsterhunt/internal/telemetry"
)

// Resolve finishes a running quest and applies the outcome to every assigned
// hunter: success raises rank by one and success rate by five (capped at 100),
// failure lowers success rate by five (floored at 0). Every hunter is released
// either way.
//
// The status change happens first and is a compare-and-set, so a quest is
// applied to its hunters at most once; a repeated call gets ErrAlreadyResolved.
func (e Engine) Resolve(ctx context.Context, questID string, out Outcome) (quest.Quest, error) {
	if !out.Status.Terminal() {
		return quest.Quest{}, fmt.Errorf("outcome must be %s or %s, got %q", quest.StatusSucceeded, quest.StatusFailed, out.Status)
	}

	q, err := e.Quests.Transition(ctx, questID, quest.StatusRunning, out.Status, func(q *quest.Quest) {
		now := e.clock().Now()
		q.AverageSuccessRate = out.AverageSuccessRate
		q.Roll = out.Roll
		q.FinishedAt = &now
	})
	if err != nil {
		if errors.Is(err, quest.ErrStatusConflict) && q.Status.Terminal() {
			return q, fmt.Errorf("%w: %s is %s", ErrAlreadyResolved, q.Name, q.Status)
		}
		return q, err
	}

	apply := (*hunter.Hunter).Fail
	if q.Succeeded() {
		apply = (*hunter.Hunter).Succeed
	}
	for _, id := range q.HunterIDs {
		if _, err := e.Registry.Hunters.Update(ctx, id, apply); err != nil {
			if errors.Is(err, hunter.ErrNotFound) {
				e.record("warn", telemetry.EventHunterInvalid, telemetry.EventMetadata{
					"quest":  q.ID,
					"hunter": int(id),
					"error":  ErrInvalidHunterReference.Error(),
				})
				continue
			}
			return q, fmt.Errorf("update hunter %d: %w", id, err)
		}
	}

	typ := telemetry.EventQuestFailed
	if q.Succeeded() {
		typ = telemetry.EventQuestSucceeded
	}
	e.record("info", typ, telemetry.EventMetadata{
		"quest":   q.ID,
		"name":    q.Name,
		"average": q.AverageSuccessRate,
		"roll":    q.Roll,
		"party":   len(q.HunterIDs),
	})

	if e.Archive != nil {
		if err := e.Archive.RecordQuest(ctx, q); err != nil {
			e.warn("quest_archive_failed", map[string]any{"quest": q.ID, "error": err.Error()})
		}
	}
	return q, nil
}
