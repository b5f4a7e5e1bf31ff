package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	// Shadow anything the host environment may set
	for _, key := range []string{"PORT", "USE_MEMORY_STORE", "DB_HOST", "DB_PORT",
		"DB_NAME", "ADMIN_USERNAME", "ADMIN_PASSWORD", "REMINDER_INTERVAL"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.UseMemoryStore)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "medibook", cfg.DBName)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.Equal(t, "pass123", cfg.AdminPassword)
	assert.Equal(t, time.Hour, cfg.ReminderInterval)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("USE_MEMORY_STORE", "true")
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	t.Setenv("REMINDER_INTERVAL", "15m")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.UseMemoryStore)
	assert.Equal(t, "s3cret", cfg.AdminPassword)
	assert.Equal(t, 15*time.Minute, cfg.ReminderInterval)
}

func TestLoad_BadDurationFallsBack(t *testing.T) {
	t.Setenv("REMINDER_INTERVAL", "soon")

	cfg := Load()
	assert.Equal(t, time.Hour, cfg.ReminderInterval)
}
