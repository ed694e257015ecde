package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/snakeladders/matchserver"
	"github.com/snakeladders/matchserver/internal/protocol"
)

// CheckOriginFn is a function that validates the origin of a WebSocket connection request.
// It receives the HTTP request and returns true if the origin is allowed, false otherwise.
// Use this to implement CORS policies for your WebSocket server.
type CheckOriginFn = func(r *http.Request) bool

// OnConnectFn is a callback function that is called when a new client connects.
// It is called after the WebSocket handshake completes and before the message
// reading loop starts. This is the ideal place to:
//   - Track connected clients
//   - Send welcome messages
//   - Initialize client-specific state
//
// Note: This function is called synchronously during connection setup.
// Avoid long-running operations that could block new connections.
type OnConnectFn = func(client matchserver.Client)

// OnClientDisconnectFn is a callback type invoked when a connected client disconnects
// from the server. The function receives the disconnected client and a boolean that is
// true when the disconnect was initiated by the client (voluntary), and false for
// unexpected or server-initiated disconnects. The matchmaking core uses this hook to
// remove the client from its room and notify the remaining player.
type OnClientDisconnectFn = func(client matchserver.Client, voluntary bool)

type ServerConfig struct {
	Addr               string
	RateLimitConfig    *RateLimitConfig
	CheckOrigin        CheckOriginFn
	OnConnect          OnConnectFn
	OnClientDisconnect OnClientDisconnectFn
	Logger             zerolog.Logger
}

// RateLimitConfig defines rate limiting configuration for clients
type RateLimitConfig struct {
	// MessagesPerSecond defines how many messages a client can send per second
	MessagesPerSecond rate.Limit
	// Burst defines the maximum burst size (token bucket capacity)
	Burst int
	// Enabled determines if rate limiting is active
	Enabled bool
}

// DefaultRateLimitConfig returns the default rate limit configuration
// Allows 100 messages per second with burst of 200
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		MessagesPerSecond: 100,
		Burst:             200,
		Enabled:           true,
	}
}

// NoRateLimit returns a configuration with rate limiting disabled
func NoRateLimit() *RateLimitConfig {
	return &RateLimitConfig{
		Enabled: false,
	}
}

// healthBody is the static acknowledgment returned by GET /.
// The deployed frontend probes it, so keep the body stable.
const healthBody = "Hello"

// Server implements the matchserver.EventServer interface
type Server struct {
	addr     string
	server   *http.Server
	clients  sync.Map // map[string]*Client
	handlers sync.Map // map[string]func(client matchserver.Client, payload json.RawMessage)

	// Rate limiting configuration
	rateLimitConfig *RateLimitConfig

	mu           sync.RWMutex
	running      bool
	upgrader     websocket.Upgrader
	onConnect    OnConnectFn
	onDisconnect OnClientDisconnectFn
	log          zerolog.Logger
}

// New creates a new WebSocket server instance with the specified configuration.
//
// If cfg.RateLimitConfig is nil, DefaultRateLimitConfig() is used. CheckOrigin
// validates connection origins (CORS): return true to allow the connection,
// false to reject it.
//
// The server uses the Gorilla WebSocket library with read/write buffer sizes
// of 1024 bytes. Rate limiting is applied per-client using a token bucket.
func New(cfg *ServerConfig) *Server {
	if cfg.RateLimitConfig == nil {
		cfg.RateLimitConfig = DefaultRateLimitConfig()
	}
	return &Server{
		addr:            cfg.Addr,
		rateLimitConfig: cfg.RateLimitConfig,
		onConnect:       cfg.OnConnect,
		onDisconnect:    cfg.OnClientDisconnect,
		log:             cfg.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     cfg.CheckOrigin,
		},
	}
}

// Start starts the WebSocket server
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New(matchserver.ErrServerAlreadyRunning)
	}
	s.running = true
	s.mu.Unlock()

	router := chi.NewRouter()
	router.Get("/", s.handleHealth)
	router.Get("/ws", s.handleWebSocket)

	s.server = &http.Server{
		Addr:    s.addr,
		Handler: router,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	// Check for immediate startup errors with a small timeout
	select {
	case err := <-errChan:
		// Reset running state without calling Stop to avoid deadlock
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return err
	case <-ctx.Done():
		// Context cancelled, stop the server
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Stop(stopCtx)
	case <-time.After(100 * time.Millisecond):
		// Server started successfully, no immediate errors
		s.log.Info().Str("addr", s.addr).Msg("websocket server listening")
		return nil
	}
}

// Stop stops the WebSocket server
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	// Close all client connections
	s.clients.Range(func(key, value interface{}) bool {
		if client, ok := value.(*Client); ok {
			client.Close(ctx)
		}
		return true
	})

	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// RegisterHandler registers a handler for a named event
// The handler is executed asynchronously and receives the client and raw payload
func (s *Server) RegisterHandler(ctx context.Context, event string, handler func(client matchserver.Client, payload json.RawMessage)) error {
	s.handlers.Store(event, handler)
	return nil
}

// handleHealth serves the plain health check at the service root
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, healthBody)
}

// handleWebSocket handles incoming WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "Failed to upgrade connection", http.StatusBadRequest)
		return
	}

	client := NewClient(conn, r.RemoteAddr, s.rateLimitConfig)
	s.clients.Store(client.ID(), client)
	s.log.Info().Str("client_id", client.ID()).Str("remote_addr", client.RemoteAddr()).Msg("client connected")

	// Start reading messages from client
	go s.handleClient(client)
}

// handleClient handles messages from a connected client
func (s *Server) handleClient(client *Client) {
	defer func() {
		voluntary := client.Context().Err() == context.Canceled

		if s.onDisconnect != nil {
			s.onDisconnect(client, voluntary)
		}
		s.clients.Delete(client.ID())
		client.Close(context.Background())
		s.log.Info().Str("client_id", client.ID()).Bool("voluntary", voluntary).Msg("client disconnected")
	}()

	// Set read deadline to prevent indefinite blocking
	client.conn.SetReadDeadline(time.Now().Add(60 * time.Second))

	// Set pong handler to reset read deadline on pong
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Call onConnect callback if provided
	if s.onConnect != nil {
		s.onConnect(client)
	}

	for {
		select {
		case <-client.Context().Done():
			return
		default:
			_, data, err := client.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					s.log.Warn().Err(err).Str("client_id", client.ID()).Msg("unexpected websocket close")
				}
				return
			}

			// Reset read deadline after successful read
			client.conn.SetReadDeadline(time.Now().Add(60 * time.Second))

			// Check rate limit before processing message
			if !client.CheckRateLimit(context.Background()) {
				// Rate limit exceeded, close the connection
				s.log.Warn().Str("client_id", client.ID()).Str("remote_addr", client.RemoteAddr()).Msg("rate limit exceeded")
				client.CloseWithCode(context.Background(), websocket.ClosePolicyViolation, "Rate limit exceeded")
				return
			}

			// Decode event envelope
			event, payload, err := protocol.Decode(data)
			if err != nil {
				// Invalid envelope, close connection
				client.CloseWithCode(context.Background(), websocket.CloseProtocolError, matchserver.ErrInvalidMessageFormat)
				return
			}

			// Handle the message
			s.handleEvent(client, event, payload)
		}
	}
}

// handleEvent dispatches a decoded event to its registered handler
// Handlers are executed in separate goroutines to avoid blocking the read loop
func (s *Server) handleEvent(client *Client, event string, payload json.RawMessage) {
	if handler, ok := s.handlers.Load(event); ok {
		if handlerFunc, ok := handler.(func(matchserver.Client, json.RawMessage)); ok {
			// Execute handler in goroutine (async, handler decides if/when to respond)
			go handlerFunc(client, payload)
		}
	}
	// Note: Unknown events are silently ignored (fire-and-forget pattern)
}

// GetClient returns a client by ID
func (s *Server) GetClient(id string) (*Client, bool) {
	if client, ok := s.clients.Load(id); ok {
		return client.(*Client), true
	}
	return nil, false
}

// EmitTo sends a named event to a specific client
func (s *Server) EmitTo(ctx context.Context, clientID, event string, data any) error {
	client, ok := s.GetClient(clientID)
	if !ok {
		return fmt.Errorf("%s: %s", matchserver.ErrClientNotFound, clientID)
	}

	return client.Emit(ctx, event, data)
}

// BroadcastTo sends a named event to every listed client.
// Clients that are no longer connected are skipped.
func (s *Server) BroadcastTo(ctx context.Context, clientIDs []string, event string, data any) error {
	for _, id := range clientIDs {
		client, ok := s.GetClient(id)
		if !ok {
			continue
		}
		if err := client.Emit(ctx, event, data); err != nil {
			s.log.Debug().Err(err).Str("client_id", id).Str("event", event).Msg("broadcast emit failed")
		}
	}
	return nil
}
