package config

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Clear anything the host environment might carry.
	for _, key := range []string{
		"MATCHSERVER_ADDR",
		"MATCHSERVER_ALLOWED_ORIGINS",
		"MATCHSERVER_LOG_LEVEL",
		"MATCHSERVER_RATE_LIMIT",
		"MATCHSERVER_RATE_BURST",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":4000", cfg.Addr)
	assert.Equal(t, []string{
		"http://localhost:3000",
		"https://snakeandladders-webgame.vercel.app",
	}, cfg.AllowedOrigins)
	assert.False(t, cfg.AllowAllOrigins)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.Equal(t, 100.0, cfg.RateLimit)
	assert.Equal(t, 200, cfg.RateBurst)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("MATCHSERVER_ADDR", ":9999")
	t.Setenv("MATCHSERVER_ALLOWED_ORIGINS", "https://one.example, https://two.example ,")
	t.Setenv("MATCHSERVER_LOG_LEVEL", "debug")
	t.Setenv("MATCHSERVER_RATE_LIMIT", "50")
	t.Setenv("MATCHSERVER_RATE_BURST", "75")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, []string{"https://one.example", "https://two.example"}, cfg.AllowedOrigins)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
	assert.Equal(t, 50.0, cfg.RateLimit)
	assert.Equal(t, 75, cfg.RateBurst)
}

func TestLoadAllOriginsWildcard(t *testing.T) {
	t.Setenv("MATCHSERVER_ALLOWED_ORIGINS", "*")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.AllowAllOrigins)
	assert.Empty(t, cfg.AllowedOrigins)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad log level", key: "MATCHSERVER_LOG_LEVEL", value: "loud"},
		{name: "non-numeric rate limit", key: "MATCHSERVER_RATE_LIMIT", value: "fast"},
		{name: "negative rate limit", key: "MATCHSERVER_RATE_LIMIT", value: "-1"},
		{name: "non-integer burst", key: "MATCHSERVER_RATE_BURST", value: "1.5"},
		{name: "negative burst", key: "MATCHSERVER_RATE_BURST", value: "-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
