// Package textfile stores the roster as two whitespace separated files:
//
//	hunters.txt   name rank successRate busy
//	monsters.txt  species requiredRank
//
// Reading stops at the first record that does not parse; whatever follows it
// is ignored.
package textfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"monsterhunt/internal/registry"
)

const (
	HuntersFile  = "hunters.txt"
	MonstersFile = "monsters.txt"
)

type Store struct {
	mu  sync.Mutex
	dir string
}

func Open(dataDir string) (*Store, error) {
	dataDir = strings.TrimSpace(dataDir)
	if dataDir == "" {
		return nil, errors.New("data dir is required")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dataDir}, nil
}

func (s *Store) Close() error { return nil }

func (s *Store) Load(ctx context.Context) (registry.Roster, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	out := registry.Roster{
		Hunters:  []registry.HunterRecord{},
		Monsters: []registry.MonsterRecord{},
	}

	if err := readFile(filepath.Join(s.dir, HuntersFile), func(r io.Reader) {
		out.Hunters = ParseHunters(r)
	}); err != nil {
		return registry.Roster{}, err
	}
	if err := readFile(filepath.Join(s.dir, MonstersFile), func(r io.Reader) {
		out.Monsters = ParseMonsters(r)
	}); err != nil {
		return registry.Roster{}, err
	}
	return out, nil
}

// Save rewrites hunters.txt with busy forced to 0. monsters.txt is left alone
// when there are no monsters so an empty session cannot wipe it.
func (s *Store) Save(ctx context.Context, roster registry.Roster) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	var hb strings.Builder
	if err := WriteHunters(&hb, roster.Hunters); err != nil {
		return err
	}
	if err := writeFileAtomic(filepath.Join(s.dir, HuntersFile), hb.String()); err != nil {
		return fmt.Errorf("save hunters: %w", err)
	}

	if len(roster.Monsters) == 0 {
		return nil
	}
	var mb strings.Builder
	if err := WriteMonsters(&mb, roster.Monsters); err != nil {
		return err
	}
	if err := writeFileAtomic(filepath.Join(s.dir, MonstersFile), mb.String()); err != nil {
		return fmt.Errorf("save monsters: %w", err)
	}
	return nil
}

func ParseHunters(r io.Reader) []registry.HunterRecord {
	out := []registry.HunterRecord{}
	sc := words(r)
	for {
		name, ok := next(sc)
		if !ok {
			return out
		}
		rank, ok := nextInt(sc)
		if !ok {
			return out
		}
		sr, ok := nextInt(sc)
		if !ok {
			return out
		}
		busy, ok := nextBool(sc)
		if !ok {
			return out
		}
		out = append(out, registry.HunterRecord{Name: name, Rank: rank, SuccessRate: sr, Busy: busy})
	}
}

func ParseMonsters(r io.Reader) []registry.MonsterRecord {
	out := []registry.MonsterRecord{}
	sc := words(r)
	for {
		species, ok := next(sc)
		if !ok {
			return out
		}
		rank, ok := nextInt(sc)
		if !ok {
			return out
		}
		out = append(out, registry.MonsterRecord{Species: species, RequiredRank: rank})
	}
}

func WriteHunters(w io.Writer, hs []registry.HunterRecord) error {
	for _, h := range hs {
		if _, err := fmt.Fprintf(w, "%s %d %d %d\n", h.Name, h.Rank, h.SuccessRate, 0); err != nil {
			return err
		}
	}
	return nil
}

func WriteMonsters(w io.Writer, ms []registry.MonsterRecord) error {
	for _, m := range ms {
		if _, err := fmt.Fprintf(w, "%s %d\n", m.Species, m.RequiredRank); err != nil {
			return err
		}
	}
	return nil
}

func words(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	return sc
}

func next(sc *bufio.Scanner) (string, bool) {
	if !sc.Scan() {
		return "", false
	}
	return sc.Text(), true
}

func nextInt(sc *bufio.Scanner) (int, bool) {
	tok, ok := next(sc)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, false
	}
	return n, true
}

func nextBool(sc *bufio.Scanner) (bool, bool) {
	tok, ok := next(sc)
	if !ok {
		return false, false
	}
	switch tok {
	case "0":
		return false, true
	case "1":
		return true, true
	}
	return false, false
}

func readFile(path string, fn func(io.Reader)) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			fn(strings.NewReader(""))
			return nil
		}
		return err
	}
	defer f.Close()
	fn(f)
	return nil
}

func writeFileAtomic(path, content string) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
