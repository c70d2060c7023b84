package registry

import (
	"context"
	"testing"

	"monsterhunt/internal/hunter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_AddHunterValidates(t *testing.T) {
	ctx := context.Background()
	r := New()

	h, err := r.AddHunter(ctx, "Aiden", 2, 120)
	require.NoError(t, err)
	assert.Equal(t, 100, h.SuccessRate)
	assert.Equal(t, hunter.ID(1), h.ID)

	_, err = r.AddHunter(ctx, "", 2, 50)
	assert.ErrorIs(t, err, ErrInvalidHunter)
	_, err = r.AddHunter(ctx, "two words", 2, 50)
	assert.ErrorIs(t, err, ErrInvalidHunter)
	_, err = r.AddHunter(ctx, "Zero", 0, 50)
	assert.ErrorIs(t, err, ErrInvalidHunter)
}

func TestRegistry_AddMonsterValidates(t *testing.T) {
	ctx := context.Background()
	r := New()

	m, err := r.AddMonster(ctx, "Rathian", 2)
	require.NoError(t, err)
	assert.Equal(t, "Rathian", m.Species)

	_, err = r.AddMonster(ctx, "Rathian", -1)
	assert.ErrorIs(t, err, ErrInvalidMonster)
	_, err = r.AddMonster(ctx, " ", 1)
	assert.ErrorIs(t, err, ErrInvalidMonster)
}

func TestRegistry_LoadSkipsBadRecordsAndDropsBusy(t *testing.T) {
	ctx := context.Background()
	r := New()

	skipped, err := r.Load(ctx, Roster{
		Hunters: []HunterRecord{
			{Name: "A", Rank: 3, SuccessRate: 50, Busy: true},
			{Name: "", Rank: 1, SuccessRate: 10},
			{Name: "B", Rank: 1, SuccessRate: 80},
		},
		Monsters: []MonsterRecord{
			{Species: "Jagras", RequiredRank: 1},
			{Species: "Bad", RequiredRank: -4},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)

	hs, err := r.Hunters.List(ctx)
	require.NoError(t, err)
	require.Len(t, hs, 2)
	assert.Equal(t, "A", hs[0].Name)
	assert.False(t, hs[0].Busy)
	assert.Equal(t, "B", hs[1].Name)
}

func TestRegistry_SnapshotForcesBusyFalse(t *testing.T) {
	ctx := context.Background()
	r := New()
	_, err := r.AddHunter(ctx, "A", 3, 50)
	require.NoError(t, err)
	_, err = r.AddMonster(ctx, "Jagras", 1)
	require.NoError(t, err)

	party, err := r.Hunters.Claim(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, party, 1)

	snap, err := r.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []HunterRecord{{Name: "A", Rank: 3, SuccessRate: 50}}, snap.Hunters)
	assert.Equal(t, []MonsterRecord{{Species: "Jagras", RequiredRank: 1}}, snap.Monsters)
}
