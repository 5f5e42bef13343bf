// Package config loads and validates tracker configuration from viper.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultDatabasePath is where the SQLite database lives when none is configured.
const DefaultDatabasePath = "~/.local/share/tracker/tracker.db"

// ExpandPath expands ~ and $VAR style environment variables in a file path.
// SQLite's ":memory:" is returned unchanged.
func ExpandPath(path string) string {
	if path == "" || path == ":memory:" {
		return path
	}

	switch {
	case path == "~":
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	case strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	return os.ExpandEnv(path)
}
