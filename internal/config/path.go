// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	// First expand tilde if present
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	// Then expand environment variables
	return os.ExpandEnv(path)
}

// DefaultDataDir returns the directory where the database and model bundle
// live unless overridden in configuration.
func DefaultDataDir() string {
	return ExpandPath("$HOME/.local/share/spendlens")
}

// DefaultModelPath returns the well-known bundle artifact location. The
// training pipeline writes here and the categorization service loads from
// here; both sides must agree on it.
func DefaultModelPath() string {
	return filepath.Join(DefaultDataDir(), "model.gob")
}

// DefaultDatabasePath returns the default SQLite database location.
func DefaultDatabasePath() string {
	return filepath.Join(DefaultDataDir(), "spendlens.db")
}
