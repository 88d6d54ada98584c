// ABOUTME: XDG-based data and config path resolution for the playpen CLI.
// ABOUTME: Checks XDG_DATA_HOME / XDG_CONFIG_HOME, falls back to ~/.local/share/playpen and ~/.config/playpen.
package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// defaultDataDir returns the directory the run ledger lives in by default.
func defaultDataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "playpen"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "playpen"), nil
}

// defaultConfigPath returns the config file used when -config is not given,
// or "" when that file does not exist.
func defaultConfigPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	path := filepath.Join(dir, "playpen", "config.yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// resolveLedgerPath expands the "default" ledger setting into a file under
// the data directory, creating the directory.
func resolveLedgerPath(path string) (string, error) {
	if path != "default" {
		return path, nil
	}
	dir, err := defaultDataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return filepath.Join(dir, "runs.db"), nil
}
