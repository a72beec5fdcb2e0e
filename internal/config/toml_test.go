package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Practice.Mode != nil || cfg.Audio.Clips != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[practice]
mode = "chords"
daily-goal = 25

[audio]
player = "paplay"
amplitude = 0.25
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Practice.Mode == nil || *cfg.Practice.Mode != "chords" {
		t.Fatalf("unexpected mode: %v", cfg.Practice.Mode)
	}
	if cfg.Practice.DailyGoal == nil || *cfg.Practice.DailyGoal != 25 {
		t.Fatalf("unexpected daily goal: %v", cfg.Practice.DailyGoal)
	}
	if cfg.Audio.Player == nil || *cfg.Audio.Player != "paplay" {
		t.Fatalf("unexpected player: %v", cfg.Audio.Player)
	}
	if cfg.Audio.Amplitude == nil || *cfg.Audio.Amplitude != 0.25 {
		t.Fatalf("unexpected amplitude: %v", cfg.Audio.Amplitude)
	}
	if cfg.Audio.Clips != nil {
		t.Fatalf("expected clips to stay unset")
	}
}

func TestLoadConfigRejectsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[practice]\ntempo = 3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "tuear", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "tuear", "tuear.db") {
		t.Fatalf("unexpected db path %q", got)
	}
	if got := DefaultClipDir(); got != filepath.Join("/data", "tuear", "clips") {
		t.Fatalf("unexpected clip dir %q", got)
	}
}
