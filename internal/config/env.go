package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// envOverrides holds the variables that may override the file. Unset
// variables leave the pointer nil.
type envOverrides struct {
	Preset     *string        `env:"MONSTERHUNT_PRESET"`
	Tick       *time.Duration `env:"MONSTERHUNT_TICK"`
	Workers    *int           `env:"MONSTERHUNT_WORKERS"`
	Seed       *int64         `env:"MONSTERHUNT_SEED"`
	Driver     *string        `env:"MONSTERHUNT_STORAGE_DRIVER"`
	DataDir    *string        `env:"MONSTERHUNT_DATA_DIR"`
	SQLitePath *string        `env:"MONSTERHUNT_SQLITE_PATH"`
	Quiet      *bool          `env:"MONSTERHUNT_QUIET"`
}

// ApplyEnv overrides c from MONSTERHUNT_* environment variables. A preset is
// applied first and only replaces the simulation tick.
func (c *Config) ApplyEnv() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if o.Preset != nil {
		p, ok := Preset(*o.Preset)
		if !ok {
			return fmt.Errorf("unknown preset %q", *o.Preset)
		}
		c.Simulation.Tick = p.Simulation.Tick
	}
	if o.Tick != nil {
		c.Simulation.Tick = *o.Tick
	}
	if o.Workers != nil {
		c.Simulation.Workers = *o.Workers
	}
	if o.Seed != nil {
		c.Simulation.Seed = *o.Seed
	}
	if o.Driver != nil {
		c.Storage.Driver = *o.Driver
	}
	if o.DataDir != nil {
		// a database path derived from the old data dir follows it
		if c.Storage.SQLitePath == c.Storage.defaultSQLitePath() {
			c.Storage.SQLitePath = ""
		}
		c.Storage.DataDir = *o.DataDir
	}
	if o.SQLitePath != nil {
		c.Storage.SQLitePath = *o.SQLitePath
	}
	if o.Quiet != nil {
		c.Log.Quiet = *o.Quiet
	}
	c.ApplyDefaults()
	return nil
}
