package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"APP_ENV", "DB_PATH", "PORT", "API_TOKEN", "LOG_LEVEL", "SOLVER_MAX_PASSES"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "./dev.db", cfg.DBPath)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 1000, cfg.SolverMaxPasses)
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())
	assert.Len(t, cfg.Warnings, 1)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("PORT", "9000")
	t.Setenv("API_TOKEN", "tok")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("SOLVER_MAX_PASSES", "50")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.False(t, cfg.IsDev())
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "tok", cfg.APIToken)
	assert.Equal(t, zerolog.DebugLevel, cfg.Level())
	assert.Equal(t, 50, cfg.SolverMaxPasses)
	assert.Empty(t, cfg.Warnings)
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7000")

	path := filepath.Join(t.TempDir(), "estate.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: /var/lib/estate.db\nport: \"9999\"\nsolver_max_passes: -3\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/estate.db", cfg.DBPath)
	assert.Equal(t, "7000", cfg.Port, "environment wins over the file")
	assert.Equal(t, 1000, cfg.SolverMaxPasses)
	assert.Len(t, cfg.Warnings, 2)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Error(t, err)
}

func TestLevel_FallsBackToInfo(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, Config{LogLevel: "loud"}.Level())
	assert.Equal(t, zerolog.WarnLevel, Config{LogLevel: "warn"}.Level())
}
