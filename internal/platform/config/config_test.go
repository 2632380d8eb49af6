package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ADDR", "")
	t.Setenv("LOCK_TTL", "")
	t.Setenv("RUN_MIGRATIONS", "not-a-bool")

	cfg := Load()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 10*time.Second, cfg.LockTTL)
	assert.True(t, cfg.RunMigrations)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ADDR", ":9090")
	t.Setenv("LOCK_TTL", "3s")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 3*time.Second, cfg.LockTTL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestValidateProduction(t *testing.T) {
	cfg := Config{Environment: "production", MaxBodyBytes: 4096, LockTTL: time.Second, LogLevel: "info"}
	assert.ErrorContains(t, cfg.Validate(), "DATABASE_URL")

	cfg.DatabaseURL = "postgres://localhost/hr"
	assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET")

	cfg.JWTSecret = "secret"
	assert.ErrorContains(t, cfg.Validate(), "DATA_ENCRYPTION_KEY")

	cfg.DataEncryptionKey = "key"
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Config{MaxBodyBytes: 10, LockTTL: time.Second, LogLevel: "info"}
	assert.Error(t, cfg.Validate())

	cfg = Config{MaxBodyBytes: 4096, LockTTL: time.Second, LogLevel: "verbose"}
	assert.Error(t, cfg.Validate())
}
