package config

import "time"

// Default returns the realtime preset: one second per quest tick.
func Default() Config {
	return Config{
		Version: "1",
		Simulation: Simulation{
			Tick: time.Second,
		},
		Storage: Storage{
			Driver:  DriverText,
			DataDir: "data",
		},
		Log: Log{
			Prefix: "monsterhunt ",
		},
	}
}

// Instant runs quests without waiting on the wall clock.
func Instant() Config {
	cfg := Default()
	cfg.Simulation.Tick = 0
	return cfg
}

// Preset looks a preset up by name.
func Preset(name string) (Config, bool) {
	switch name {
	case "", "default", "realtime":
		return Default(), true
	case "instant":
		return Instant(), true
	}
	return Config{}, false
}
