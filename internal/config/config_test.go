package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "monsterhunt.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
simulation:
  tick: 250ms
  workers: 3
  seed: 7
storage:
  driver: sqlite
  data_dir: /tmp/mh
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.Simulation.Tick)
	assert.Equal(t, 3, cfg.Simulation.Workers)
	assert.Equal(t, int64(7), cfg.Simulation.Seed)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/mh/monsterhunt.db", cfg.Storage.SQLitePath)
	assert.Equal(t, "monsterhunt ", cfg.Log.Prefix)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_ExplicitZeroTick(t *testing.T) {
	cfg, err := Load(writeConfig(t, "simulation:\n  tick: 0s\n"))
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.Simulation.Tick)
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.Simulation.Tick)
	assert.Positive(t, cfg.Simulation.Workers)
	assert.Equal(t, DriverText, cfg.Storage.Driver)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate())

	cfg.Storage.Driver = "postgres"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Simulation.Tick = -time.Second
	assert.Error(t, cfg.Validate())
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("MONSTERHUNT_PRESET", "instant")
	t.Setenv("MONSTERHUNT_WORKERS", "9")
	t.Setenv("MONSTERHUNT_STORAGE_DRIVER", "sqlite")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, time.Duration(0), cfg.Simulation.Tick)
	assert.Equal(t, 9, cfg.Simulation.Workers)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "data", cfg.Storage.DataDir)
}

func TestApplyEnv_TickBeatsPreset(t *testing.T) {
	t.Setenv("MONSTERHUNT_PRESET", "instant")
	t.Setenv("MONSTERHUNT_TICK", "10ms")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, 10*time.Millisecond, cfg.Simulation.Tick)
}

func TestApplyEnv_UnknownPreset(t *testing.T) {
	t.Setenv("MONSTERHUNT_PRESET", "nightmare")

	cfg := Default()
	assert.Error(t, cfg.ApplyEnv())
}

func TestApplyEnv_DataDirMovesDerivedDatabase(t *testing.T) {
	t.Setenv("MONSTERHUNT_DATA_DIR", "/srv/mh")

	cfg := Default()
	cfg.ApplyDefaults()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, "/srv/mh", cfg.Storage.DataDir)
	assert.Equal(t, filepath.Join("/srv/mh", "monsterhunt.db"), cfg.Storage.SQLitePath)
}

func TestApplyEnv_KeepsExplicitDatabase(t *testing.T) {
	t.Setenv("MONSTERHUNT_DATA_DIR", "/srv/mh")

	cfg := Default()
	cfg.Storage.SQLitePath = "/var/lib/mh.db"
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, "/var/lib/mh.db", cfg.Storage.SQLitePath)
}
