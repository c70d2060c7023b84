package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"monsterhunt/internal/quest"
	"monsterhunt/internal/telemetry"
)

// RollSides is the exclusive upper bound of the outcome roll.
const RollSides = 100

// Outcome is what a finished run hands to Resolve.
type Outcome struct {
	Status             quest.Status
	AverageSuccessRate int
	Roll               int
}

// Decide succeeds when average >= roll. With roll drawn from [0,100) a party
// averaging 0 still wins on a roll of 0.
func Decide(average, roll int) Outcome {
	status := quest.StatusFailed
	if average >= roll {
		status = quest.StatusSucceeded
	}
	return Outcome{Status: status, AverageSuccessRate: average, Roll: roll}
}

// Run executes one pending quest to completion: it waits out the time limit,
// rolls against the party's average success rate and resolves the result.
// Once started a run cannot be cancelled.
func (e Engine) Run(ctx context.Context, questID string) (quest.Quest, error) {
	q, ok, err := e.Quests.Get(ctx, questID)
	if err != nil {
		return quest.Quest{}, err
	}
	if !ok {
		return quest.Quest{}, fmt.Errorf("%w: %s", quest.ErrNotFound, questID)
	}
	if len(q.HunterIDs) == 0 {
		e.record("error", telemetry.EventQuestRejected, telemetry.EventMetadata{
			"quest": q.ID,
			"name":  q.Name,
		})
		return q, fmt.Errorf("%w: %s", ErrEmptyAssignment, q.Name)
	}

	q, err = e.Quests.Transition(ctx, questID, quest.StatusUnresolved, quest.StatusRunning, func(q *quest.Quest) {
		now := e.clock().Now()
		q.StartedAt = &now
	})
	if err != nil {
		if errors.Is(err, quest.ErrStatusConflict) {
			return q, fmt.Errorf("%w: %w", ErrQuestNotPending, err)
		}
		return q, err
	}

	e.clock().Sleep(time.Duration(q.TimeLimit) * e.Tick)

	avg, err := e.averageSuccessRate(ctx, q)
	if err != nil {
		return e.abort(ctx, q, err)
	}
	roll := e.questDice(q.Seed).Intn(RollSides)

	return e.Resolve(ctx, questID, Decide(avg, roll))
}

// averageSuccessRate is the integer mean over the hunters that still resolve.
// Unknown IDs are reported and left out of both sum and count.
func (e Engine) averageSuccessRate(ctx context.Context, q quest.Quest) (int, error) {
	total, n := 0, 0
	for _, id := range q.HunterIDs {
		h, ok, err := e.Registry.Hunters.Get(ctx, id)
		if err != nil {
			return 0, err
		}
		if !ok {
			e.record("warn", telemetry.EventHunterInvalid, telemetry.EventMetadata{
				"quest":  q.ID,
				"hunter": int(id),
				"error":  ErrInvalidHunterReference.Error(),
			})
			continue
		}
		total += h.SuccessRate
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return total / n, nil
}

// abort ends a running quest that cannot be scored. It is marked failed and
// its party is released untouched.
func (e Engine) abort(ctx context.Context, q quest.Quest, cause error) (quest.Quest, error) {
	done, err := e.Quests.Transition(ctx, q.ID, quest.StatusRunning, quest.StatusFailed, func(q *quest.Quest) {
		now := e.clock().Now()
		q.FinishedAt = &now
	})
	if err != nil {
		e.warn("quest_abort_failed", map[string]any{"quest": q.ID, "error": err.Error()})
		done = q
	}
	e.release(ctx, q.HunterIDs)
	e.record("error", telemetry.EventQuestAborted, telemetry.EventMetadata{
		"quest": q.ID,
		"name":  q.Name,
		"error": cause.Error(),
	})
	return done, fmt.Errorf("score %s: %w", q.Name, cause)
}
