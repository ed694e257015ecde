package ws

import (
	"net/http"
	"slices"

	"github.com/rs/zerolog"

	"github.com/snakeladders/matchserver"
	"github.com/snakeladders/matchserver/internal/websocket"
)

type RateLimitConfig = websocket.RateLimitConfig
type CheckOriginFn = websocket.CheckOriginFn
type OnConnectFn = websocket.OnConnectFn
type OnDisconnectFn = websocket.OnClientDisconnectFn
type ServerConfig = *websocket.ServerConfig

// New creates a new WebSocket event server.
//
// Example:
//
//	server := ws.New(ws.NewConfig(":4000", ws.DefaultRateLimitConfig(), ws.Origins(origins), nil, onDisconnect))
func New(cfg ServerConfig) matchserver.EventServer {
	return websocket.New(cfg)
}

func NewConfig(addr string, rateLimitConfig *RateLimitConfig, checkOrigin CheckOriginFn, onConnect OnConnectFn, onDisconnect OnDisconnectFn) ServerConfig {
	return &websocket.ServerConfig{
		Addr:               addr,
		RateLimitConfig:    rateLimitConfig,
		CheckOrigin:        checkOrigin,
		OnConnect:          onConnect,
		OnClientDisconnect: onDisconnect,
	}
}

// WithLogger returns the config with its logger replaced
func WithLogger(cfg ServerConfig, logger zerolog.Logger) ServerConfig {
	cfg.Logger = logger
	return cfg
}

// AllOrigins returns a checkOrigin function that allows all origins (dev only)
func AllOrigins() CheckOriginFn {
	return func(r *http.Request) bool {
		return true
	}
}

// Origins returns a checkOrigin function that allows only the listed origins.
// Requests without an Origin header (non-browser clients) are allowed.
func Origins(allowed []string) CheckOriginFn {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return slices.Contains(allowed, origin)
	}
}

// DefaultRateLimitConfig returns the default rate limit configuration
func DefaultRateLimitConfig() *RateLimitConfig {
	return websocket.DefaultRateLimitConfig()
}

// NoRateLimit returns a configuration with rate limiting disabled
func NoRateLimit() *RateLimitConfig {
	return websocket.NoRateLimit()
}
