// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/vodhub/vodhub/constant"
	"github.com/vodhub/vodhub/filesystem"
)

// EnvConfigPath overrides the default configuration directory.
const EnvConfigPath = "VODHUB_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the primary configuration directory.
// It follows XDG_CONFIG_HOME on Linux and the platform equivalent elsewhere,
// unless VODHUB_CONFIG_PATH is set.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.App))
}

// Cache resolves the persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.App))
}

// Logs resolves the directory used for diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Providers resolves the provider registry file.
func Providers() string {
	return filepath.Join(Config(), "providers.yaml")
}

// Queries resolves the dispatched-query history file.
func Queries() string {
	return filepath.Join(Cache(), "queries.json")
}
