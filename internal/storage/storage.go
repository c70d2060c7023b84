// Package storage defines how a roster is loaded at the start of a session and
// written back at its end.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"monsterhunt/internal/config"
	"monsterhunt/internal/registry"
	"monsterhunt/internal/storage/sqlite"
	"monsterhunt/internal/storage/textfile"
)

type Store interface {
	Load(ctx context.Context) (registry.Roster, error)
	Save(ctx context.Context, roster registry.Roster) error
	Close() error
}

// Open returns the store for cfg's driver.
func Open(cfg config.Storage) (Store, error) {
	switch cfg.Driver {
	case config.DriverText, "":
		return textfile.Open(cfg.DataDir)
	case config.DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, err
		}
		return sqlite.Open(cfg.SQLitePath)
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
