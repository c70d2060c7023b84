package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"monsterhunt/internal/config"
	"monsterhunt/internal/game"
	"monsterhunt/internal/quest"
	"monsterhunt/internal/random"
	"monsterhunt/internal/registry"
	"monsterhunt/internal/storage"
	"monsterhunt/internal/telemetry"
)

// session is one load, act, save cycle against the configured store.
type session struct {
	cfg    *config.Config
	store  storage.Store
	reg    *registry.Registry
	logger *log.Logger
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openSession(ctx context.Context, configPath string) (*session, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	var out io.Writer = os.Stderr
	if cfg.Log.Quiet {
		out = io.Discard
	}
	logger := log.New(out, cfg.Log.Prefix, log.LstdFlags)

	store, err := storage.Open(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Storage.Driver, err)
	}
	roster, err := store.Load(ctx)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("load roster: %w", err)
	}

	reg := registry.New()
	skipped, err := reg.Load(ctx, roster)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	if skipped > 0 {
		logger.Printf("skipped %d invalid roster records", skipped)
	}

	return &session{cfg: cfg, store: store, reg: reg, logger: logger}, nil
}

// engine wires a game engine to the session's registry. The store doubles as
// the quest archive when it can keep one.
func (s *session) engine(events telemetry.Repository) (game.Engine, error) {
	seed, err := random.SeedOrNew(s.cfg.Simulation.Seed)
	if err != nil {
		return game.Engine{}, err
	}
	e := game.Engine{
		Registry:  s.reg,
		Quests:    quest.NewMemoryRepo(),
		Events:    events,
		Clock:     game.RealClock{},
		Tick:      s.cfg.Simulation.Tick,
		Dice:      game.NewSharedDice(seed),
		QuestDice: game.NewDice,
		Workers:   s.cfg.Simulation.Workers,
		Logger:    s.logger,
	}
	if a, ok := s.store.(quest.Archive); ok {
		e.Archive = a
	}
	return e, nil
}

// close saves the roster back and releases the store.
func (s *session) close(ctx context.Context) error {
	roster, err := s.reg.Snapshot(ctx)
	if err == nil {
		err = s.store.Save(ctx, roster)
	}
	if cerr := s.store.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("save roster: %w", err)
	}
	return nil
}
