package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Env holds settings read from the environment. They rank below the
// config file and flags.
type Env struct {
	CompanionURL   string `env:"TRACEGLYPH_COMPANION_URL"`
	CompanionVoice string `env:"TRACEGLYPH_COMPANION_VOICE"`
	FeedAddr       string `env:"TRACEGLYPH_FEED_ADDR" envDefault:"127.0.0.1:8765"`
	LogLevel       string `env:"TRACEGLYPH_LOG_LEVEL" envDefault:"info"`
}

// ParseEnv loads Env from the process environment.
func ParseEnv() (Env, error) {
	var cfg Env
	if err := env.Parse(&cfg); err != nil {
		return Env{}, fmt.Errorf("failed to parse env: %w", err)
	}
	return cfg, nil
}

// Level maps LogLevel to a slog level.
func (e Env) Level() (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(e.LogLevel)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", e.LogLevel)
	}
}
