package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnvFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := load(noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.True(t, cfg.IsDev())
	assert.True(t, cfg.DebugAuth())
	assert.Equal(t, 12*time.Hour, cfg.JWTTTL)
	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
	assert.Equal(t, 3, cfg.UpcomingLimit)
	assert.True(t, cfg.Seed)
	assert.Empty(t, cfg.DBDSN)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", ":9000")
	t.Setenv("ENV", "Production")
	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("DB_DSN", "postgres://u:p@localhost:5432/portal?sslmode=disable")
	t.Setenv("ADVICE_TIMEOUT", "5s")
	t.Setenv("SEED", "false")
	t.Setenv("UPCOMING_LIMIT", "5")

	cfg, err := load(noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.False(t, cfg.IsDev())
	assert.False(t, cfg.DebugAuth())
	assert.Equal(t, "prod-secret", cfg.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.Equal(t, 5*time.Second, cfg.AdviceTimeout)
	assert.False(t, cfg.Seed)
	assert.Equal(t, 5, cfg.UpcomingLimit)
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := load(noEnvFile(t))
	assert.Error(t, err)
}

func TestLoad_DotEnvFile(t *testing.T) {
	t.Setenv("ENV", "development")
	require.NoError(t, os.Unsetenv("APP_NAME"))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("APP_NAME=clinic-dev\nUPCOMING_LIMIT=4\n"), 0o600))

	t.Setenv("UPCOMING_LIMIT", "")
	require.NoError(t, os.Unsetenv("UPCOMING_LIMIT"))

	cfg, err := load(path)
	require.NoError(t, err)
	assert.Equal(t, "clinic-dev", cfg.AppName)
	assert.Equal(t, 4, cfg.UpcomingLimit)
}

func TestLoad_InvalidLimit(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("UPCOMING_LIMIT", "0")

	_, err := load(noEnvFile(t))
	assert.Error(t, err)
}
