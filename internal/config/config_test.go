package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"HOST", "PORT", "DB_PATH", "APP_ENV", "LOG_LEVEL", "DEFAULT_CURRENCY", "SEED_ON_START"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "./dev.db", cfg.DBPath)
	assert.Equal(t, "CZK", cfg.DefaultCurrency)
	assert.True(t, cfg.SeedOnStart)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9000")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DEFAULT_CURRENCY", "usd")
	t.Setenv("SEED_ON_START", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, "USD", cfg.DefaultCurrency)
	assert.False(t, cfg.SeedOnStart)
}

func TestLoad_DotEnvDoesNotOverwriteEnvironment(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DB_PATH=fromfile.db\nLOG_LEVEL=debug\n"), 0o600))

	t.Setenv("DB_PATH", "already.db")
	t.Setenv("LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("LOG_LEVEL"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "already.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_UnsupportedCurrencyFallsBack(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DEFAULT_CURRENCY", "GBP")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "CZK", cfg.DefaultCurrency)
}
