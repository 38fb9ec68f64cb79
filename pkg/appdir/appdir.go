// Package appdir locates the per-user directory bufctl keeps its state in.
package appdir

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvOverride names the environment variable that replaces the default location.
const EnvOverride = "BUFCTL_HOME"

const dirName = ".bufctl"

// AppDir returns the application directory without creating it.
func AppDir() (string, error) {
	if dir := os.Getenv(EnvOverride); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("appdir: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// Ensure returns the application directory, creating it if needed.
func Ensure() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("appdir: %w", err)
	}
	return dir, nil
}
