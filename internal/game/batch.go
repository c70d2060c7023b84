package game

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"monsterhunt/internal/quest"
	"monsterhunt/internal/telemetry"
)

// BatchResult reports one RunBatch call. Quests holds the generated quests in
// generation order with their final status; Errors collects per-quest
// failures that did not stop the batch.
type BatchResult struct {
	ID        string        `json:"id"`
	Requested int           `json:"requested"`
	Generated int           `json:"generated"`
	Skipped   int           `json:"skipped"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Quests    []quest.Quest `json:"quests"`
	Errors    []error       `json:"-"`
}

// RunBatch generates n quests one after another, then runs all of them on a
// pool of at most Workers goroutines and waits for every one to finish.
// Problems with single quests are collected in the result; the batch always
// runs to the end.
func (e Engine) RunBatch(ctx context.Context, n int) (BatchResult, error) {
	if n <= 0 {
		return BatchResult{}, ErrInvalidBatchSize
	}

	res := BatchResult{ID: uuid.NewString(), Requested: n, Quests: []quest.Quest{}}

	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		q, err := e.GenerateQuest(ctx)
		switch {
		case err == nil:
			ids = append(ids, q.ID)
			res.Generated++
		case errors.Is(err, ErrNoEligibleHunters), errors.Is(err, ErrEmptyPopulation):
			res.Skipped++
		default:
			res.Skipped++
			res.Errors = append(res.Errors, err)
		}
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(e.workers())
	for _, id := range ids {
		g.Go(func() error {
			q, err := e.Run(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				res.Errors = append(res.Errors, err)
			case q.Succeeded():
				res.Succeeded++
			default:
				res.Failed++
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, id := range ids {
		q, ok, err := e.Quests.Get(ctx, id)
		if err != nil {
			res.Errors = append(res.Errors, err)
			continue
		}
		if ok {
			res.Quests = append(res.Quests, q)
		}
	}

	e.record("info", telemetry.EventBatchCompleted, telemetry.EventMetadata{
		"batch":     res.ID,
		"requested": res.Requested,
		"generated": res.Generated,
		"skipped":   res.Skipped,
		"succeeded": res.Succeeded,
		"failed":    res.Failed,
	})
	return res, nil
}
