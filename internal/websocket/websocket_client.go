package websocket

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/snakeladders/matchserver"
	"github.com/snakeladders/matchserver/internal/protocol"
)

// Client implements the matchserver.Client interface
type Client struct {
	id          string
	conn        *websocket.Conn
	remoteAddr  string
	ctx         context.Context
	cancel      context.CancelFunc
	sendCh      chan []byte
	mu          sync.RWMutex
	closed      bool
	rateLimiter *rate.Limiter // Rate limiter for incoming messages
}

// NewClient creates a new WebSocket client with rate limiting
func NewClient(conn *websocket.Conn, remoteAddr string, rateLimitConfig *RateLimitConfig) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	var limiter *rate.Limiter
	if rateLimitConfig != nil && rateLimitConfig.Enabled {
		limiter = rate.NewLimiter(rateLimitConfig.MessagesPerSecond, rateLimitConfig.Burst)
	}

	client := &Client{
		id:          uuid.New().String(),
		conn:        conn,
		remoteAddr:  remoteAddr,
		ctx:         ctx,
		cancel:      cancel,
		sendCh:      make(chan []byte, 256),
		closed:      false,
		rateLimiter: limiter,
	}

	// Start the write pump
	go client.writePump()

	return client
}

// ID returns a unique identifier for the connected client
func (c *Client) ID() string {
	return c.id
}

// RemoteAddr returns the client's remote network address
func (c *Client) RemoteAddr() string {
	return c.remoteAddr
}

// Context returns the client's lifecycle context
func (c *Client) Context() context.Context {
	return c.ctx
}

// Emit encodes and sends a named event with the given payload
func (c *Client) Emit(ctx context.Context, event string, data any) error {
	// Encode the envelope first (before acquiring lock)
	msg, err := protocol.Encode(event, data)
	if err != nil {
		return fmt.Errorf("%s: %w", matchserver.ErrFailedToEncode, err)
	}

	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return errors.New(matchserver.ErrConnectionClosed)
	}

	// Keep the lock while sending to prevent race with Close()
	select {
	case c.sendCh <- msg:
		c.mu.RUnlock()
		return nil
	case <-ctx.Done():
		c.mu.RUnlock()
		return ctx.Err()
	case <-c.ctx.Done():
		c.mu.RUnlock()
		return errors.New(matchserver.ErrContextCancelled)
	}
}

// Close closes the client connection
func (c *Client) Close(ctx context.Context) error {
	return c.CloseWithCode(ctx, websocket.CloseNormalClosure, "")
}

// CloseWithCode closes the connection with a close code and optional reason
func (c *Client) CloseWithCode(ctx context.Context, code int, reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	c.cancel()

	// Send close message
	message := websocket.FormatCloseMessage(code, reason)
	deadline := time.Now().Add(time.Second)
	c.conn.WriteControl(websocket.CloseMessage, message, deadline)

	close(c.sendCh)
	return c.conn.Close()
}

// IsAlive returns true if the connection is still active
func (c *Client) IsAlive() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.closed
}

// CheckRateLimit checks if the client has exceeded the rate limit
// Returns true if the message is allowed, false if rate limited
func (c *Client) CheckRateLimit(ctx context.Context) bool {
	if c.rateLimiter == nil {
		// Rate limiting disabled
		return true
	}
	return c.rateLimiter.Allow()
}

// writePump pumps messages from the send channel to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.sendCh:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Channel closed
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			// Send ping to keep connection alive
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// SetPongHandler sets the handler for pong messages
func (c *Client) SetPongHandler(handler func(appData string) error) {
	c.conn.SetPongHandler(handler)
}

// SetCloseHandler sets the handler for close messages
func (c *Client) SetCloseHandler(handler func(code int, text string) error) {
	c.conn.SetCloseHandler(handler)
}
