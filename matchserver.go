package matchserver

import (
	"context"
	"encoding/json"
)

// EventServer defines the interface for the WebSocket transport that carries
// named game events between the matchmaking core and connected clients.
//
// All messages exchanged between the server and clients are JSON envelopes
// with an event name and a structured payload.
//
// Example usage:
//
//	import "github.com/snakeladders/matchserver/ws"
//
//	server := ws.New(ws.NewConfig(":4000", ws.DefaultRateLimitConfig(), ws.AllOrigins(), nil, nil))
//
//	server.RegisterHandler(ctx, matchserver.EventSearchOpponent, func(client matchserver.Client, payload json.RawMessage) {
//	    client.Emit(ctx, matchserver.EventRoomNumber, roomID)
//	})
//
//	server.Start(ctx)
type EventServer interface {
	// Start starts the WebSocket server and begins listening for connections.
	// The server keeps running until Stop is called or the context is cancelled.
	//
	// Returns an error if the server is already running or if there's a problem
	// binding to the network address.
	Start(ctx context.Context) error

	// Stop gracefully stops the WebSocket server and closes all client connections.
	// Active connections are given time to close properly.
	Stop(ctx context.Context) error

	// RegisterHandler registers a handler function for a named event.
	//
	// The handler is executed asynchronously (fire-and-forget pattern). It
	// receives the originating client and the raw JSON payload; there is no
	// automatic request-response pairing. Events with no registered handler
	// are silently ignored.
	RegisterHandler(ctx context.Context, event string, handler func(client Client, payload json.RawMessage)) error

	// EmitTo sends one named event with a JSON-encoded payload to the client
	// with the given ID. Returns an error if the client is not connected.
	EmitTo(ctx context.Context, clientID, event string, data any) error

	// BroadcastTo sends the same named event to every listed client.
	// Clients that are gone are skipped; delivery is fire-and-forget.
	BroadcastTo(ctx context.Context, clientIDs []string, event string, data any) error
}

// Client represents a connected WebSocket client.
//
// Each client has a unique identifier and maintains its own connection state.
// The client's context is automatically cancelled when the connection closes.
type Client interface {
	// ID returns a unique identifier for the connected client.
	//
	// The ID is generated when the client connects and remains constant for
	// the lifetime of the connection. The matchmaking core stores these IDs
	// as room members instead of live connection handles.
	ID() string

	// RemoteAddr returns the client's remote network address,
	// typically in the form "IP:port".
	RemoteAddr() string

	// Context returns the client's lifecycle context.
	//
	// The context is cancelled when the connection closes, allowing goroutines
	// associated with the client to be cleaned up.
	Context() context.Context

	// Emit encodes data as a JSON event envelope and sends it to the client.
	//
	// The send operation is non-blocking and queued for delivery. Returns an
	// error if the connection is closed or the context is cancelled.
	Emit(ctx context.Context, event string, data any) error

	// Close closes the client connection gracefully.
	Close(ctx context.Context) error

	// CloseWithCode closes the connection with a specific WebSocket close code
	// and optional reason.
	CloseWithCode(ctx context.Context, code int, reason string) error

	// IsAlive returns true if the connection is still active.
	IsAlive() bool
}
