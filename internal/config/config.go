package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Version    string     `yaml:"version" json:"version"`
	Simulation Simulation `yaml:"simulation" json:"simulation"`
	Storage    Storage    `yaml:"storage" json:"storage"`
	Log        Log        `yaml:"log" json:"log"`
}

type Simulation struct {
	// Tick is the real time one unit of quest time lasts. Zero runs quests
	// without waiting.
	Tick    time.Duration `yaml:"tick" json:"tick"`
	Workers int           `yaml:"workers" json:"workers"`
	// Seed fixes the random stream; zero draws a fresh one per run.
	Seed int64 `yaml:"seed" json:"seed"`
}

type Storage struct {
	Driver     string `yaml:"driver" json:"driver"`
	DataDir    string `yaml:"data_dir" json:"data_dir"`
	SQLitePath string `yaml:"sqlite_path" json:"sqlite_path"`
}

type Log struct {
	Prefix string `yaml:"prefix" json:"prefix"`
	Quiet  bool   `yaml:"quiet" json:"quiet"`
}

const (
	DriverText   = "text"
	DriverSQLite = "sqlite"
)

func (s *Simulation) ApplyDefaults() {
	if s.Workers <= 0 {
		s.Workers = runtime.GOMAXPROCS(0)
	}
}

func (s *Storage) ApplyDefaults() {
	if s.Driver == "" {
		s.Driver = DriverText
	}
	if s.DataDir == "" {
		s.DataDir = "data"
	}
	if s.SQLitePath == "" {
		s.SQLitePath = s.defaultSQLitePath()
	}
}

func (s Storage) defaultSQLitePath() string {
	return filepath.Join(s.DataDir, "monsterhunt.db")
}

func (c *Config) ApplyDefaults() {
	c.Simulation.ApplyDefaults()
	c.Storage.ApplyDefaults()
}

func (c *Config) Validate() error {
	if c.Simulation.Tick < 0 {
		return fmt.Errorf("simulation.tick must not be negative, got %s", c.Simulation.Tick)
	}
	switch c.Storage.Driver {
	case DriverText, DriverSQLite:
	default:
		return fmt.Errorf("storage.driver must be %q or %q, got %q", DriverText, DriverSQLite, c.Storage.Driver)
	}
	return nil
}

// Load reads a YAML file over the default preset.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r := Default()
	if err := yaml.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	r.ApplyDefaults()
	return &r, nil
}

// LoadOrDefault is Load, except that a missing file yields the default preset.
func LoadOrDefault(path string) (*Config, error) {
	c, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		d := Default()
		d.ApplyDefaults()
		return &d, nil
	}
	return c, err
}
