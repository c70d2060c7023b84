package hunter

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRepo(t *testing.T, hs ...Hunter) *MemoryRepo {
	t.Helper()
	repo := NewMemoryRepo()
	for _, h := range hs {
		_, err := repo.Add(context.Background(), h)
		require.NoError(t, err)
	}
	return repo
}

func TestMemoryRepo_AddAssignsStableIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	a, err := repo.Add(ctx, Hunter{Name: "A", Rank: 1, SuccessRate: 140})
	require.NoError(t, err)
	b, err := repo.Add(ctx, Hunter{Name: "B", Rank: 1, SuccessRate: -3})
	require.NoError(t, err)

	assert.Equal(t, ID(1), a.ID)
	assert.Equal(t, ID(2), b.ID)
	assert.Equal(t, 100, a.SuccessRate)
	assert.Equal(t, 0, b.SuccessRate)

	got, ok, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "A", got.Name)

	_, ok, err = repo.Get(ctx, 99)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryRepo_ClaimSkipsLowRank(t *testing.T) {
	ctx := context.Background()
	repo := seedRepo(t,
		Hunter{Name: "A", Rank: 3, SuccessRate: 50},
		Hunter{Name: "B", Rank: 1, SuccessRate: 80},
	)

	party, err := repo.Claim(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, party, 1)
	assert.Equal(t, "A", party[0].Name)
	assert.True(t, party[0].Busy)

	a, _, _ := repo.Get(ctx, party[0].ID)
	assert.True(t, a.Busy)
	b, _, _ := repo.Get(ctx, 2)
	assert.False(t, b.Busy)
}

func TestMemoryRepo_ClaimFollowsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	hs := []Hunter{
		{Name: "low", Rank: 1},
		{Name: "z", Rank: 9},
		{Name: "a", Rank: 2},
		{Name: "m", Rank: 5},
	}

	var first []string
	for run := 0; run < 3; run++ {
		repo := seedRepo(t, hs...)
		party, err := repo.Claim(ctx, 2, 2)
		require.NoError(t, err)

		names := []string{}
		for _, h := range party {
			names = append(names, h.Name)
		}
		if first == nil {
			first = names
		}
		assert.Equal(t, []string{"z", "a"}, names)
		assert.Equal(t, first, names)
	}
}

func TestMemoryRepo_ClaimAllBusyReturnsEmpty(t *testing.T) {
	ctx := context.Background()
	repo := seedRepo(t,
		Hunter{Name: "A", Rank: 3, Busy: true},
		Hunter{Name: "B", Rank: 3, Busy: true},
	)

	before, _ := repo.List(ctx)
	party, err := repo.Claim(ctx, 1, 4)
	require.NoError(t, err)
	assert.Empty(t, party)

	after, _ := repo.List(ctx)
	assert.Equal(t, before, after)
}

func TestMemoryRepo_ConcurrentClaimsAreDisjoint(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	for i := 0; i < 40; i++ {
		_, err := repo.Add(ctx, Hunter{Name: "h", Rank: 1})
		require.NoError(t, err)
	}

	var (
		mu   sync.Mutex
		seen = map[ID]int{}
		wg   sync.WaitGroup
	)
	for g := 0; g < 20; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			party, err := repo.Claim(ctx, 1, 3)
			assert.NoError(t, err)
			mu.Lock()
			for _, h := range party {
				seen[h.ID]++
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 40)
	for id, n := range seen {
		assert.Equal(t, 1, n, "hunter %d claimed twice", id)
	}
}

func TestMemoryRepo_UpdateClampsAndKeepsRank(t *testing.T) {
	ctx := context.Background()
	repo := seedRepo(t, Hunter{Name: "A", Rank: 3, SuccessRate: 50})

	h, err := repo.Update(ctx, 1, func(h *Hunter) {
		h.SuccessRate = 500
		h.Rank = 1
		h.ID = 42
	})
	require.NoError(t, err)
	assert.Equal(t, ID(1), h.ID)
	assert.Equal(t, 100, h.SuccessRate)
	assert.Equal(t, 3, h.Rank)

	_, err = repo.Update(ctx, 7, func(h *Hunter) {})
	assert.ErrorIs(t, err, ErrNotFound)
}
