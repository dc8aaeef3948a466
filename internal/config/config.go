// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/m-mizutani/goerr/v2"
)

// Environment variable names.
const (
	EnvLogLevel  = "SENTINEL_LOG_LEVEL"
	EnvLogFormat = "SENTINEL_LOG_FORMAT"
	EnvCacheDir  = "SENTINEL_CACHE_DIR"
	EnvAddr      = "SENTINEL_ADDR"
)

// Config holds the defaults for command-line flags.
type Config struct {
	LogLevel  string
	LogFormat string
	CacheDir  string
	Addr      string

	// EnvFile is the .env file that was loaded, if any.
	EnvFile string
}

// DefaultEnvPaths returns the .env candidates in lookup order.
func DefaultEnvPaths() []string {
	paths := []string{".env"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "sentinel", ".env"))
	}
	return paths
}

// Load reads the first existing .env file among envPaths into the process
// environment (existing variables win) and builds the Config.
func Load(envPaths ...string) (*Config, error) {
	cfg := &Config{}
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			cfg.EnvFile = path
			break
		}
	}

	cfg.LogLevel = getEnvOrDefault(EnvLogLevel, "info")
	cfg.LogFormat = getEnvOrDefault(EnvLogFormat, "auto")
	cfg.Addr = getEnvOrDefault(EnvAddr, "127.0.0.1:8080")

	cacheDir, err := defaultCacheDir()
	if err != nil {
		return nil, err
	}
	cfg.CacheDir = getEnvOrDefault(EnvCacheDir, cacheDir)

	return cfg, nil
}

// defaultCacheDir is $XDG_DATA_HOME/sentinel or ~/.sentinel.
func defaultCacheDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "sentinel"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", goerr.Wrap(err, "determining home directory")
	}
	return filepath.Join(home, ".sentinel"), nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
