package websocket

import (
	"context"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// TestDefaultRateLimitConfig tests the default rate limit configuration
func TestDefaultRateLimitConfig(t *testing.T) {
	t.Parallel()

	config := DefaultRateLimitConfig()

	if config == nil {
		t.Fatal("DefaultRateLimitConfig() returned nil")
	}

	if !config.Enabled {
		t.Error("Expected rate limiting to be enabled by default")
	}

	if config.MessagesPerSecond != 100 {
		t.Errorf("MessagesPerSecond = %v, want 100", config.MessagesPerSecond)
	}

	if config.Burst != 200 {
		t.Errorf("Burst = %v, want 200", config.Burst)
	}
}

// TestNoRateLimit tests the no rate limit configuration
func TestNoRateLimit(t *testing.T) {
	t.Parallel()

	config := NoRateLimit()

	if config == nil {
		t.Fatal("NoRateLimit() returned nil")
	}

	if config.Enabled {
		t.Error("Expected rate limiting to be disabled")
	}
}

// TestNewServer tests server creation with various configurations
func TestNewServer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		addr            string
		rateLimitConfig *RateLimitConfig
		checkOrigin     CheckOriginFn
	}{
		{
			name:            "with default rate limit",
			addr:            ":8080",
			rateLimitConfig: DefaultRateLimitConfig(),
			checkOrigin:     nil,
		},
		{
			name:            "with no rate limit",
			addr:            ":8081",
			rateLimitConfig: NoRateLimit(),
			checkOrigin:     nil,
		},
		{
			name:            "with nil rate limit config",
			addr:            ":8082",
			rateLimitConfig: nil, // Should use default
			checkOrigin:     nil,
		},
		{
			name: "with custom rate limit",
			addr: ":8083",
			rateLimitConfig: &RateLimitConfig{
				MessagesPerSecond: rate.Limit(10),
				Burst:             20,
				Enabled:           true,
			},
			checkOrigin: nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := New(&ServerConfig{
				Addr:            tt.addr,
				RateLimitConfig: tt.rateLimitConfig,
				CheckOrigin:     tt.checkOrigin,
				Logger:          zerolog.Nop(),
			})

			if server == nil {
				t.Fatal("New() returned nil")
			}

			if server.addr != tt.addr {
				t.Errorf("server.addr = %v, want %v", server.addr, tt.addr)
			}

			if server.rateLimitConfig == nil {
				t.Error("server.rateLimitConfig is nil")
			}
		})
	}
}

// TestServerInitialState tests that a new server has correct initial state
func TestServerInitialState(t *testing.T) {
	t.Parallel()

	server := New(&ServerConfig{Addr: ":8084", RateLimitConfig: DefaultRateLimitConfig(), Logger: zerolog.Nop()})

	if server.running {
		t.Error("new server should not be running")
	}

	if server.upgrader.ReadBufferSize != 1024 {
		t.Errorf("upgrader.ReadBufferSize = %v, want 1024", server.upgrader.ReadBufferSize)
	}

	if server.upgrader.WriteBufferSize != 1024 {
		t.Errorf("upgrader.WriteBufferSize = %v, want 1024", server.upgrader.WriteBufferSize)
	}
}

// TestCheckOriginFunction tests custom origin checking wiring
func TestCheckOriginFunction(t *testing.T) {
	t.Parallel()

	allowAll := func(r *http.Request) bool {
		return true
	}

	tests := []struct {
		name        string
		checkOrigin CheckOriginFn
		wantNil     bool
	}{
		{
			name:        "custom check origin",
			checkOrigin: allowAll,
			wantNil:     false,
		},
		{
			name:        "nil check origin",
			checkOrigin: nil,
			wantNil:     true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := New(&ServerConfig{Addr: ":8085", RateLimitConfig: NoRateLimit(), CheckOrigin: tt.checkOrigin, Logger: zerolog.Nop()})

			if tt.wantNil && server.upgrader.CheckOrigin != nil {
				t.Error("expected CheckOrigin to be nil")
			}

			if !tt.wantNil && server.upgrader.CheckOrigin == nil {
				t.Error("expected CheckOrigin to be non-nil")
			}
		})
	}
}

// TestEmitToUnknownClient tests that emitting to a missing client errors
func TestEmitToUnknownClient(t *testing.T) {
	t.Parallel()

	server := New(&ServerConfig{Addr: ":8086", RateLimitConfig: NoRateLimit(), Logger: zerolog.Nop()})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	if err := server.EmitTo(ctx, "no-such-client", "roomNumber", "r1"); err == nil {
		t.Error("EmitTo() to an unknown client should fail")
	}
}

// TestBroadcastToSkipsUnknownClients tests that broadcast ignores gone clients
func TestBroadcastToSkipsUnknownClients(t *testing.T) {
	t.Parallel()

	server := New(&ServerConfig{Addr: ":8087", RateLimitConfig: NoRateLimit(), Logger: zerolog.Nop()})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	if err := server.BroadcastTo(ctx, []string{"gone-1", "gone-2"}, "opponentFound", nil); err != nil {
		t.Errorf("BroadcastTo() with unknown clients should be a no-op, got %v", err)
	}
}
