package textfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"monsterhunt/internal/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHunters_StopsAtFirstBadRecord(t *testing.T) {
	in := "Aiden 3 50 0\nBea 1 80 1\nCarl x 10 0\nDora 2 20 0\n"

	hs := ParseHunters(strings.NewReader(in))
	require.Len(t, hs, 2)
	assert.Equal(t, registry.HunterRecord{Name: "Aiden", Rank: 3, SuccessRate: 50}, hs[0])
	assert.Equal(t, registry.HunterRecord{Name: "Bea", Rank: 1, SuccessRate: 80, Busy: true}, hs[1])
}

func TestParseHunters_TruncatedTail(t *testing.T) {
	hs := ParseHunters(strings.NewReader("Aiden 3 50 0 Bea 1"))
	require.Len(t, hs, 1)
}

func TestParseMonsters(t *testing.T) {
	ms := ParseMonsters(strings.NewReader("Rathalos 4\nJagras 1\nbroken\n"))
	assert.Equal(t, []registry.MonsterRecord{
		{Species: "Rathalos", RequiredRank: 4},
		{Species: "Jagras", RequiredRank: 1},
	}, ms)
}

func TestStore_LoadMissingFilesIsEmpty(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	roster, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, roster.Hunters)
	assert.Empty(t, roster.Monsters)
}

func TestStore_SaveReloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)

	in := registry.Roster{
		Hunters: []registry.HunterRecord{
			{Name: "Aiden", Rank: 3, SuccessRate: 50, Busy: true},
			{Name: "Bea", Rank: 1, SuccessRate: 80},
		},
		Monsters: []registry.MonsterRecord{{Species: "Rathalos", RequiredRank: 4}},
	}
	require.NoError(t, s.Save(ctx, in))

	raw, err := os.ReadFile(filepath.Join(dir, HuntersFile))
	require.NoError(t, err)
	assert.Equal(t, "Aiden 3 50 0\nBea 1 80 0\n", string(raw))

	out, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out.Hunters, 2)
	for i, h := range out.Hunters {
		assert.Equal(t, in.Hunters[i].Name, h.Name)
		assert.Equal(t, in.Hunters[i].Rank, h.Rank)
		assert.Equal(t, in.Hunters[i].SuccessRate, h.SuccessRate)
		assert.False(t, h.Busy)
	}
	assert.Equal(t, in.Monsters, out.Monsters)
}

func TestStore_SaveKeepsMonstersWhenEmpty(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, MonstersFile), []byte("Jagras 1\n"), 0o644))

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, registry.Roster{}))

	out, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, out.Monsters, 1)
}
