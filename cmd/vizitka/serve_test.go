package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/vizitka/slogan"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SITE_TITLE", "ADDR", "API_KEY", "GEMINI_API_KEY", "GENAI_MODEL",
		"SESSION_SECRET", "COOKIE_SECURE", "SLOGAN_TIMEOUT", "SLOGAN_LIMIT", "SLOGAN_POLICY",
		"MAX_WORKSPACES",
	} {
		t.Setenv(key, "")
	}
}

func TestConfigFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := configFromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, slogan.DefaultModel, cfg.Model)
	assert.Empty(t, cfg.APIKey)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, slogan.LastResolved, cfg.SloganPolicy)
}

func TestConfigFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ADDR", ":8080")
	t.Setenv("GEMINI_API_KEY", "fallback-key")
	t.Setenv("COOKIE_SECURE", "TRUE")
	t.Setenv("SLOGAN_TIMEOUT", "15s")
	t.Setenv("SLOGAN_LIMIT", "3")
	t.Setenv("SLOGAN_POLICY", "latest-issued")
	t.Setenv("MAX_WORKSPACES", "50")

	cfg, err := configFromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "fallback-key", cfg.APIKey)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, 15*time.Second, cfg.SloganTimeout)
	assert.Equal(t, 3, cfg.SloganLimit)
	assert.Equal(t, slogan.LatestIssued, cfg.SloganPolicy)
	assert.Equal(t, 50, cfg.MaxWorkspaces)

	t.Setenv("API_KEY", "primary-key")
	cfg, err = configFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "primary-key", cfg.APIKey)
}

func TestConfigFromEnvRejectsBadValues(t *testing.T) {
	for key, value := range map[string]string{
		"SLOGAN_TIMEOUT": "soon",
		"SLOGAN_LIMIT":   "many",
		"SLOGAN_POLICY":  "random",
		"MAX_WORKSPACES": "lots",
	} {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := configFromEnv()
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	require.NoError(t, loadEnvFile(filepath.Join(t.TempDir(), "missing.env")))

	const key = "VIZITKA_ENV_FILE_CHECK"
	require.NoError(t, os.Unsetenv(key))
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=loaded\nADDR=:9999\n"), 0o600))
	t.Setenv("ADDR", ":7000")

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "loaded", os.Getenv(key))
	assert.Equal(t, ":7000", os.Getenv("ADDR"), "existing variables win over the file")
}
