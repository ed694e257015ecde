// Package matchserver provides a real-time matchmaking and state-relay server
// for a two-player snakes-and-ladders web game.
//
// The server pairs anonymous WebSocket clients into rooms of exactly two,
// then relays game-state events (dice rolls, piece positions, turn index)
// between the paired clients until the match ends or a player disconnects.
// The server trusts and relays client-submitted state; it does not validate
// game moves.
//
// # Architecture
//
// Messages are JSON envelopes with an event name and a payload. Handlers are
// registered per event name, keeping the different message types (matchmaking,
// dice rolls, position sync, turn sync) cleanly separated:
//
//	{"event": "rollDice", "data": {"user": "p1", "roomNumber": "..."}}
//
// The matchmaking core lives in internal/game: a room registry owning all
// active rooms behind one mutex, and a connection handler that bridges
// inbound events to registry operations and outbound events to room members.
// Rooms hold at most two members; the first member joining is green, the
// second is red. Rooms are torn down when the game ends or the last member
// disconnects.
//
// # Quick Start
//
//	import (
//	    "github.com/snakeladders/matchserver/internal/game"
//	    "github.com/snakeladders/matchserver/ws"
//	)
//
//	server := ws.New(ws.NewConfig(":4000", ws.DefaultRateLimitConfig(), ws.AllOrigins(), nil, nil))
//	handler := game.NewHandler(game.NewRegistry(logger), server, logger)
//	handler.Register(ctx, server)
//	server.Start(ctx)
//
// # Protocol Format
//
// Each WebSocket message is a JSON object:
//
//	{"event": "<name>", "data": <payload>}
//
// Unknown events are silently ignored (fire-and-forget pattern). Events
// addressing a room that no longer exists are dropped without an error:
// the dominant cause is a benign race between teardown and in-flight
// messages. Maximum payload: 1MB.
//
// # Rate Limiting
//
// Each client has independent rate limiting using a token bucket:
//
//	// Default: 100 messages/second, burst 200
//	server := ws.New(ws.NewConfig(addr, ws.DefaultRateLimitConfig(), checkOrigin, nil, nil))
//
//	// Disabled
//	server := ws.New(ws.NewConfig(addr, ws.NoRateLimit(), checkOrigin, nil, nil))
//
// When the limit is exceeded, the client receives close code 1008
// (Policy Violation).
//
// # Security Features
//
//   - Rate limiting per client (prevents DoS)
//   - Maximum payload: 1MB (prevents OOM)
//   - Read timeout: 60s (prevents hanging)
//   - Write timeout: 10s (prevents slow clients)
//   - Automatic keepalive with pong handler
//   - Origin validation via configurable allow-list
//
// # Important
//
//   - Handlers execute in goroutines (no execution order guarantee)
//   - Rooms live only in process memory and are lost on restart
//   - Configure the origin allow-list in production (never AllOrigins())
package matchserver
