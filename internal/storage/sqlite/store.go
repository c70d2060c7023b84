// Package sqlite persists the roster and the quest history in a single SQLite
// database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"monsterhunt/internal/hunter"
	"monsterhunt/internal/quest"
	"monsterhunt/internal/registry"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS hunters (
	position INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	rank INTEGER NOT NULL,
	success_rate INTEGER NOT NULL,
	busy INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS monsters (
	position INTEGER PRIMARY KEY,
	species TEXT NOT NULL,
	required_rank INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS quest_history (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	target TEXT NOT NULL,
	required_rank INTEGER NOT NULL,
	time_limit INTEGER NOT NULL,
	party_size INTEGER NOT NULL,
	hunter_ids TEXT NOT NULL,
	status TEXT NOT NULL,
	average_success_rate INTEGER NOT NULL,
	roll INTEGER NOT NULL,
	created_at INTEGER NOT NULL,
	finished_at INTEGER NOT NULL
);
`

// Store provides SQLite-backed roster persistence and quest archiving.
type Store struct {
	sqlDB *sql.DB
}

// Open opens the database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Quest workers archive concurrently; one connection serialises the writes.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Load reads hunters and monsters in their stored order.
func (s *Store) Load(ctx context.Context) (registry.Roster, error) {
	if err := ctx.Err(); err != nil {
		return registry.Roster{}, err
	}
	if s == nil || s.sqlDB == nil {
		return registry.Roster{}, fmt.Errorf("storage is not configured")
	}

	out := registry.Roster{
		Hunters:  []registry.HunterRecord{},
		Monsters: []registry.MonsterRecord{},
	}

	rows, err := s.sqlDB.QueryContext(ctx, `SELECT name, rank, success_rate, busy FROM hunters ORDER BY position`)
	if err != nil {
		return registry.Roster{}, fmt.Errorf("query hunters: %w", err)
	}
	for rows.Next() {
		var h registry.HunterRecord
		if err := rows.Scan(&h.Name, &h.Rank, &h.SuccessRate, &h.Busy); err != nil {
			_ = rows.Close()
			return registry.Roster{}, fmt.Errorf("scan hunter: %w", err)
		}
		out.Hunters = append(out.Hunters, h)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return registry.Roster{}, fmt.Errorf("iterate hunters: %w", err)
	}
	_ = rows.Close()

	rows, err = s.sqlDB.QueryContext(ctx, `SELECT species, required_rank FROM monsters ORDER BY position`)
	if err != nil {
		return registry.Roster{}, fmt.Errorf("query monsters: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m registry.MonsterRecord
		if err := rows.Scan(&m.Species, &m.RequiredRank); err != nil {
			return registry.Roster{}, fmt.Errorf("scan monster: %w", err)
		}
		out.Monsters = append(out.Monsters, m)
	}
	if err := rows.Err(); err != nil {
		return registry.Roster{}, fmt.Errorf("iterate monsters: %w", err)
	}
	return out, nil
}

// Save replaces the stored roster in one transaction. Hunters are written
// with busy = 0.
func (s *Store) Save(ctx context.Context, roster registry.Roster) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM hunters`); err != nil {
		return fmt.Errorf("clear hunters: %w", err)
	}
	for i, h := range roster.Hunters {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO hunters (position, name, rank, success_rate, busy) VALUES (?, ?, ?, ?, 0)`,
			i, h.Name, h.Rank, h.SuccessRate,
		); err != nil {
			return fmt.Errorf("insert hunter %s: %w", h.Name, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM monsters`); err != nil {
		return fmt.Errorf("clear monsters: %w", err)
	}
	for i, m := range roster.Monsters {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO monsters (position, species, required_rank) VALUES (?, ?, ?)`,
			i, m.Species, m.RequiredRank,
		); err != nil {
			return fmt.Errorf("insert monster %s: %w", m.Species, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// RecordQuest archives a finished quest. Recording the same quest twice keeps
// the first row.
func (s *Store) RecordQuest(ctx context.Context, q quest.Quest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if !q.Status.Terminal() {
		return fmt.Errorf("quest %s is %s, only finished quests are archived", q.ID, q.Status)
	}

	ids, err := json.Marshal(q.HunterIDs)
	if err != nil {
		return fmt.Errorf("encode hunter ids: %w", err)
	}
	finished := time.Now().UTC()
	if q.FinishedAt != nil {
		finished = q.FinishedAt.UTC()
	}

	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO quest_history (
	id,
	name,
	target,
	required_rank,
	time_limit,
	party_size,
	hunter_ids,
	status,
	average_success_rate,
	roll,
	created_at,
	finished_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO NOTHING
`,
		q.ID,
		q.Name,
		q.Target,
		q.RequiredRank,
		q.TimeLimit,
		q.PartySize,
		string(ids),
		string(q.Status),
		q.AverageSuccessRate,
		q.Roll,
		q.CreatedAt.UTC().UnixMilli(),
		finished.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("record quest: %w", err)
	}
	return nil
}

// ListQuests lists newest-first archived quests.
func (s *Store) ListQuests(ctx context.Context, limit int) ([]quest.Quest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, name, target, required_rank, time_limit, party_size, hunter_ids,
	status, average_success_rate, roll, created_at, finished_at
FROM quest_history
ORDER BY finished_at DESC, id
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list quests: %w", err)
	}
	defer rows.Close()

	out := []quest.Quest{}
	for rows.Next() {
		var (
			q          quest.Quest
			ids        string
			status     string
			createdAt  int64
			finishedAt int64
		)
		if err := rows.Scan(
			&q.ID, &q.Name, &q.Target, &q.RequiredRank, &q.TimeLimit, &q.PartySize, &ids,
			&status, &q.AverageSuccessRate, &q.Roll, &createdAt, &finishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan quest: %w", err)
		}
		q.HunterIDs = []hunter.ID{}
		if err := json.Unmarshal([]byte(ids), &q.HunterIDs); err != nil {
			return nil, fmt.Errorf("decode hunter ids: %w", err)
		}
		q.Status = quest.Status(status)
		q.CreatedAt = time.UnixMilli(createdAt).UTC()
		fin := time.UnixMilli(finishedAt).UTC()
		q.FinishedAt = &fin
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quests: %w", err)
	}
	return out, nil
}
