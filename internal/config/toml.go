// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Audio    AudioConfig    `toml:"audio"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Mode      *string `toml:"mode"`
	DailyGoal *int    `toml:"daily-goal"`
	Record    *string `toml:"record"`
	Catalog   *string `toml:"catalog"`
}

// AudioConfig maps playback and clip rendering settings.
type AudioConfig struct {
	Clips      *string  `toml:"clips"`
	Player     *string  `toml:"player"`
	SampleRate *int     `toml:"sample-rate"`
	DurationMs *int     `toml:"duration-ms"`
	Amplitude  *float64 `toml:"amplitude"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
