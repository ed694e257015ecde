package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Defaults match the original deployment: port 4000, the local dev frontend
// and the hosted one allowed.
const (
	DefaultAddr = ":4000"

	defaultOrigins = "http://localhost:3000,https://snakeandladders-webgame.vercel.app"
)

// Config holds the service configuration, read from the environment.
type Config struct {
	// Addr is the listen address, e.g. ":4000".
	Addr string

	// AllowedOrigins is the Origin allow-list for WebSocket upgrades.
	AllowedOrigins []string

	// AllowAllOrigins disables origin checking (set MATCHSERVER_ALLOWED_ORIGINS=*).
	AllowAllOrigins bool

	// LogLevel is the zerolog level for the whole service.
	LogLevel zerolog.Level

	// RateLimit / RateBurst configure the per-client token bucket.
	// RateLimit 0 disables rate limiting.
	RateLimit float64
	RateBurst int
}

// Load reads the configuration from MATCHSERVER_* environment variables,
// falling back to defaults for anything unset.
func Load() (Config, error) {
	cfg := Config{
		Addr:      envOr("MATCHSERVER_ADDR", DefaultAddr),
		LogLevel:  zerolog.InfoLevel,
		RateLimit: 100,
		RateBurst: 200,
	}

	origins := envOr("MATCHSERVER_ALLOWED_ORIGINS", defaultOrigins)
	if origins == "*" {
		cfg.AllowAllOrigins = true
	} else {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	if v := os.Getenv("MATCHSERVER_LOG_LEVEL"); v != "" {
		level, err := zerolog.ParseLevel(strings.ToLower(v))
		if err != nil {
			return Config{}, fmt.Errorf("parse MATCHSERVER_LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = level
	}

	if v := os.Getenv("MATCHSERVER_RATE_LIMIT"); v != "" {
		limit, err := strconv.ParseFloat(v, 64)
		if err != nil || limit < 0 {
			return Config{}, fmt.Errorf("parse MATCHSERVER_RATE_LIMIT: %q is not a non-negative number", v)
		}
		cfg.RateLimit = limit
	}

	if v := os.Getenv("MATCHSERVER_RATE_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil || burst < 0 {
			return Config{}, fmt.Errorf("parse MATCHSERVER_RATE_BURST: %q is not a non-negative integer", v)
		}
		cfg.RateBurst = burst
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
