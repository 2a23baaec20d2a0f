package filesystem

import (
	"os"
	"path/filepath"
	"strings"
)

// StateDirEnv overrides the per-user state directory.
const StateDirEnv = "DEVFLOW_HOME"

// UserHomeDir returns the current user's home directory.
// If the home directory cannot be determined, it returns "." as a fallback.
func UserHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// StateDir returns the directory holding config.json, environments.json and friends.
func StateDir() string {
	if custom := os.Getenv(StateDirEnv); custom != "" {
		return ExpandPath(custom)
	}
	return filepath.Join(UserHomeDir(), ".devflow")
}

// ExpandPath resolves a leading ~/ against the home directory.
func ExpandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(UserHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}
