package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Game.Alphabet != nil {
		t.Fatalf("expected empty config")
	}
}

func TestLoadConfigTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `[game]
alphabet = "digits"
mirror = false
target-cells = 60
advance-delay = "1500ms"

[feed]
addr = ":9000"

[companion]
url = "ws://localhost:9100/live"
export-width = 320
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Game.Alphabet == nil || *cfg.Game.Alphabet != "digits" {
		t.Fatalf("unexpected alphabet %v", cfg.Game.Alphabet)
	}
	if cfg.Game.Mirror == nil || *cfg.Game.Mirror {
		t.Fatalf("expected explicit mirror=false")
	}
	if cfg.Game.TargetCells == nil || *cfg.Game.TargetCells != 60 {
		t.Fatalf("unexpected target cells")
	}
	if cfg.Game.Width != nil {
		t.Fatalf("expected unset width")
	}
	if cfg.Feed.Addr == nil || *cfg.Feed.Addr != ":9000" {
		t.Fatalf("unexpected feed addr")
	}
	if cfg.Companion.ExportWidth == nil || *cfg.Companion.ExportWidth != 320 {
		t.Fatalf("unexpected export width")
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[game]\nwords = 3\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestParseEnv(t *testing.T) {
	t.Setenv("TRACEGLYPH_COMPANION_URL", "ws://relay/live")
	t.Setenv("TRACEGLYPH_LOG_LEVEL", "debug")
	cfg, err := ParseEnv()
	if err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.CompanionURL != "ws://relay/live" || cfg.FeedAddr != "127.0.0.1:8765" {
		t.Fatalf("unexpected env %+v", cfg)
	}
	level, err := cfg.Level()
	if err != nil || level != slog.LevelDebug {
		t.Fatalf("unexpected level %v (%v)", level, err)
	}
	if _, err := (Env{LogLevel: "loud"}).Level(); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestXDGPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "traceglyph", "config.toml") {
		t.Fatalf("unexpected config path %s", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "traceglyph", "traceglyph.db") {
		t.Fatalf("unexpected db path %s", got)
	}
	if got := DefaultAlphabetPath("greek"); got != filepath.Join("/cfg", "traceglyph", "alphabets", "greek.txt") {
		t.Fatalf("unexpected alphabet path %s", got)
	}
}
