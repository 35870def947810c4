package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves a configured database or rule set path: a leading ~ becomes the
// home directory and $VAR references are substituted. SQLite's ":memory:" and blank
// values pass through unchanged.
func ExpandPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || path == ":memory:" {
		return path
	}

	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + path[1:]
		}
	}
	return filepath.Clean(path)
}
