package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "dev-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "cuidarplus-api", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	assert.Equal(t, 5*time.Minute, cfg.Scheduler.ReminderInterval)
	assert.Equal(t, 24*time.Hour, cfg.Scheduler.ReminderWindow)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 100, cfg.Reports.QueueSize)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "dev-secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("SCHEDULER_REMINDER_WINDOW", "2h")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 2*time.Hour, cfg.Scheduler.ReminderWindow)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
}

func TestLoad_ProductionRules(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "short")
	t.Setenv("DB_SSLMODE", "disable")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_ADDR", "")

	_, err := Load()
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "JWT_SECRET must be at least 32 characters in production")
	assert.Contains(t, msg, "DB_PASSWORD is required")
	assert.Contains(t, msg, "DB_SSLMODE=disable is not allowed in production")
	assert.Contains(t, msg, "REDIS_ADDR is required")
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET is required")
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, Name: "cp", User: "u", Password: "p", SSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=cp port=5432 sslmode=disable Timezone=UTC", d.DSN())
}
