package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("PORT", "")
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/shifts")
	t.Setenv("SCHEDULE_TIMEZONE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:5000", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, "postgres://u:p@localhost:5432/shifts", cfg.Postgres.DSN)
	assert.Equal(t, time.Hour, cfg.Auth.ResetTTL())
	assert.Equal(t, "Asia/Tokyo", cfg.Schedule.Timezone)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "8081")
	t.Setenv("POSTGRES_DSN", "postgres://override")
	t.Setenv("POSTGRES_MAX_CONNS", "not-a-number")
	t.Setenv("AUTH_PASSWORD_RESET_TTL_MINUTES", "15")
	t.Setenv("AUTH_RESET_THROTTLE_SECONDS", "0")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")
	t.Setenv("SCHEDULE_TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.App.Port)
	assert.Equal(t, "postgres://override", cfg.Postgres.DSN)
	assert.Equal(t, int32(10), cfg.Postgres.MaxConns)
	assert.False(t, cfg.Postgres.RunMigrations)
	assert.Equal(t, 15*time.Minute, cfg.Auth.ResetTTL())
	assert.Equal(t, time.Duration(0), cfg.Auth.ResetThrottle())

	loc, err := cfg.Schedule.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestLoadRejectsBadInput(t *testing.T) {
	t.Run("Should fail on non numeric redis db", func(t *testing.T) {
		t.Setenv("REDIS_DB", "one")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("Should fail on unknown timezone", func(t *testing.T) {
		t.Setenv("SCHEDULE_TIMEZONE", "Mars/Olympus")
		_, err := Load()
		assert.Error(t, err)
	})
}
