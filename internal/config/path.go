// Package config loads ledger settings from viper, falling back to
// environment variables and defaults.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

const appName = "ledger"

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// ConfigDir is where config.yaml and the OAuth token live.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	return ExpandPath(filepath.Join("~", ".config", appName))
}

// DefaultDatabasePath is used when database.path is unset.
func DefaultDatabasePath() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName, appName+".db")
	}
	return ExpandPath(filepath.Join("~", ".local", "share", appName, appName+".db"))
}

// TokenPath is where `ledger auth sheets` stores the OAuth token.
func TokenPath() string {
	return filepath.Join(ConfigDir(), "sheets-token.json")
}
