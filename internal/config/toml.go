// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Game      GameConfig      `toml:"game"`
	Feed      FeedConfig      `toml:"feed"`
	Companion CompanionConfig `toml:"companion"`
}

// GameConfig maps play settings. Nil means unset.
type GameConfig struct {
	Alphabet     *string  `toml:"alphabet"`
	Shuffle      *bool    `toml:"shuffle"`
	Seed         *int64   `toml:"seed"`
	Font         *string  `toml:"font"`
	Width        *int     `toml:"width"`
	Height       *int     `toml:"height"`
	Mirror       *bool    `toml:"mirror"`
	FPS          *int     `toml:"fps"`
	CellSize     *int     `toml:"cell-size"`
	TargetCells  *int     `toml:"target-cells"`
	CompleteAt   *float64 `toml:"complete-at"`
	StartRadius  *float64 `toml:"start-radius"`
	StartOffset  *float64 `toml:"start-offset"`
	AdvanceDelay *string  `toml:"advance-delay"`
}

// FeedConfig maps landmark feed settings.
type FeedConfig struct {
	Addr   *string `toml:"addr"`
	Replay *string `toml:"replay"`
}

// CompanionConfig maps companion settings.
type CompanionConfig struct {
	URL            *string `toml:"url"`
	Voice          *string `toml:"voice"`
	ExportInterval *string `toml:"export-interval"`
	ExportWidth    *int    `toml:"export-width"`
	ExportQuality  *int    `toml:"export-quality"`
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
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
