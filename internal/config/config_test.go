// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvLogFormat, "")
	t.Setenv(EnvAddr, "")
	t.Setenv(EnvCacheDir, "")
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "auto", cfg.LogFormat)
	assert.Equal(t, "127.0.0.1:8080", cfg.Addr)
	assert.Equal(t, filepath.Join("/tmp/xdg", "sentinel"), cfg.CacheDir)
	assert.Empty(t, cfg.EnvFile)
}

func TestLoad_EnvFile(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvAddr, "")
	t.Setenv(EnvCacheDir, "")
	// godotenv does not override variables that are already set, so unset
	// the ones the file provides.
	require.NoError(t, os.Unsetenv(EnvLogLevel))
	require.NoError(t, os.Unsetenv(EnvAddr))

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SENTINEL_LOG_LEVEL=debug\nSENTINEL_ADDR=:9090\n"), 0o644))
	t.Cleanup(func() {
		_ = os.Unsetenv(EnvLogLevel)
		_ = os.Unsetenv(EnvAddr)
	})

	cfg, err := Load(filepath.Join(dir, "absent.env"), envFile)
	require.NoError(t, err)
	assert.Equal(t, envFile, cfg.EnvFile)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9090", cfg.Addr)
}

func TestLoad_ExistingEnvWins(t *testing.T) {
	t.Setenv(EnvLogFormat, "json")

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SENTINEL_LOG_FORMAT=console\n"), 0o644))

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)
}
