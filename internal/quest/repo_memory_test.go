package quest

import (
	"context"
	"testing"

	"monsterhunt/internal/hunter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepo_AddListInOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	require.NoError(t, repo.Add(ctx, Quest{ID: "b", Name: NameFor("Barroth")}))
	require.NoError(t, repo.Add(ctx, Quest{ID: "a", Name: NameFor("Anjanath")}))
	assert.Error(t, repo.Add(ctx, Quest{ID: "a"}))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, StatusUnresolved, list[0].Status)
}

func TestMemoryRepo_TransitionIsCompareAndSet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	require.NoError(t, repo.Add(ctx, Quest{ID: "q1", HunterIDs: []hunter.ID{1, 2}}))

	q, err := repo.Transition(ctx, "q1", StatusUnresolved, StatusRunning, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, q.Status)

	q, err = repo.Transition(ctx, "q1", StatusRunning, StatusSucceeded, func(q *Quest) { q.Roll = 12 })
	require.NoError(t, err)
	assert.Equal(t, 12, q.Roll)

	_, err = repo.Transition(ctx, "q1", StatusRunning, StatusFailed, nil)
	assert.ErrorIs(t, err, ErrStatusConflict)

	got, ok, err := repo.Get(ctx, "q1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, StatusSucceeded, got.Status)

	_, err = repo.Transition(ctx, "missing", StatusUnresolved, StatusRunning, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Transition(ctx, "q1", StatusSucceeded, StatusRunning, nil)
	assert.ErrorIs(t, err, ErrStatusConflict)
}

func TestMemoryRepo_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	ids := []hunter.ID{1, 2}
	require.NoError(t, repo.Add(ctx, Quest{ID: "q1", HunterIDs: ids}))
	ids[0] = 99

	got, _, _ := repo.Get(ctx, "q1")
	assert.Equal(t, []hunter.ID{1, 2}, got.HunterIDs)
	got.HunterIDs[1] = 77

	again, _, _ := repo.Get(ctx, "q1")
	assert.Equal(t, []hunter.ID{1, 2}, again.HunterIDs)
}
