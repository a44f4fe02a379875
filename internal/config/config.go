// Package config loads triagetrack settings from the environment and an
// optional config file.
//
// Resolution order: explicit flags (applied by the CLI layer) > environment
// variables prefixed TRIAGETRACK_ > config.yaml under the user config
// directory > built-in defaults.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"triagetrack/internal/core"
)

// Store backend names accepted by the "store" key.
const (
	StoreFS     = "fs"
	StoreSQLite = "sqlite"
)

// Config holds the resolved settings for one invocation.
type Config struct {
	// Repo is the "owner/name" of the tracked repository.
	Repo string
	// Token is an optional API token sent as a bearer credential.
	Token string
	// CacheDir is the root directory for the filesystem store.
	CacheDir string
	// Store selects the blob store backend (fs or sqlite).
	Store string
}

// Load reads configuration from the environment and config file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("repo", core.DefaultRepo)
	v.SetDefault("cache_dir", core.CacheRoot())
	v.SetDefault("store", StoreFS)

	v.SetEnvPrefix("triagetrack")
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "triagetrack"))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{
		Repo:     v.GetString("repo"),
		Token:    v.GetString("token"),
		CacheDir: v.GetString("cache_dir"),
		Store:    v.GetString("store"),
	}
	if cfg.Store != StoreFS && cfg.Store != StoreSQLite {
		return nil, errors.New("store must be 'fs' or 'sqlite'")
	}
	return cfg, nil
}
