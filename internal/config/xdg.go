// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

const appDir = "traceglyph"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultAlphabetDir returns the directory searched for custom alphabets.
func DefaultAlphabetDir() string {
	return filepath.Join(XDGConfigHome(), appDir, "alphabets")
}

// DefaultAlphabetPath builds the path of a named custom alphabet.
func DefaultAlphabetPath(name string) string {
	return filepath.Join(DefaultAlphabetDir(), name+".txt")
}

// DefaultDBPath returns the default path for the SQLite database.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), appDir, "traceglyph.db")
}

// DefaultLogPath returns the default debug log path.
func DefaultLogPath() string {
	return filepath.Join(XDGDataHome(), appDir, "traceglyph.log")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appDir, "config.toml")
}
