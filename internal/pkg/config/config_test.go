package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("SESSION_SECRET", "session-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "")
	t.Setenv("ASSIST_DEBOUNCE", "")
	t.Setenv("SHUTDOWN_GRACE", "")
	t.Setenv("ASSIST_FAIL_OPEN", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8091", cfg.ServerPort)
	assert.Equal(t, time.Second, cfg.AssistDelay)
	assert.Equal(t, 5*time.Second, cfg.ShutdownGrace)
	assert.True(t, cfg.Policies.AssistFailOpen)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SHUTDOWN_GRACE", "12s")
	t.Setenv("ASSIST_DEBOUNCE", "250ms")
	t.Setenv("ASSIST_FAIL_OPEN", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 12*time.Second, cfg.ShutdownGrace)
	assert.Equal(t, 250*time.Millisecond, cfg.AssistDelay)
	assert.False(t, cfg.Policies.AssistFailOpen)
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("POSTGRES_PASSWORD", "")
	t.Setenv("SESSION_SECRET", "session-secret")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("SESSION_SECRET", "")
	_, err = Load()
	require.Error(t, err)
}
