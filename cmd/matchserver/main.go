package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/snakeladders/matchserver"
	"github.com/snakeladders/matchserver/internal/config"
	"github.com/snakeladders/matchserver/internal/game"
	"github.com/snakeladders/matchserver/ws"
)

func main() {
	// Optional .env for local development; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		errLogger := zerolog.New(os.Stderr)
		errLogger.Fatal().Err(err).Msg("invalid configuration")
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		Level(cfg.LogLevel).
		With().Timestamp().Logger()

	ctx := context.Background()

	registry := game.NewRegistry(logger)

	// The handler needs the server to emit and the server needs the handler
	// for its disconnect callback; the closure resolves the cycle because no
	// client can disconnect before Start.
	var handler *game.Handler

	rateLimit := ws.NoRateLimit()
	if cfg.RateLimit > 0 {
		rateLimit = &ws.RateLimitConfig{
			MessagesPerSecond: rate.Limit(cfg.RateLimit),
			Burst:             cfg.RateBurst,
			Enabled:           true,
		}
	}

	checkOrigin := ws.Origins(cfg.AllowedOrigins)
	if cfg.AllowAllOrigins {
		logger.Warn().Msg("origin checking disabled, do not run this in production")
		checkOrigin = ws.AllOrigins()
	}

	server := ws.New(ws.WithLogger(ws.NewConfig(
		cfg.Addr,
		rateLimit,
		checkOrigin,
		nil,
		func(client matchserver.Client, voluntary bool) {
			handler.HandleDisconnect(ctx, client.ID())
		},
	), logger))

	handler = game.NewHandler(registry, server, logger)
	if err := handler.Register(ctx, server); err != nil {
		logger.Fatal().Err(err).Msg("failed to register event handlers")
	}

	if err := server.Start(ctx); err != nil {
		logger.Fatal().Err(err).Str("addr", cfg.Addr).Msg("failed to start server")
	}
	logger.Info().Str("addr", cfg.Addr).Strs("origins", cfg.AllowedOrigins).Msg("matchserver running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("shutdown signal received")

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(stopCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}

	logger.Info().Msg("matchserver stopped")
}
