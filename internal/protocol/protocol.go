package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

const maxPayloadSize = 1 * 1024 * 1024 // 1MB max message size

// Envelope is the wire format for every message: a named event plus a
// structured payload. This mirrors the socket.io-style framing the browser
// client speaks.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Encode wraps the event name and payload into a JSON envelope.
// The payload may be nil for events that carry no data.
func Encode(event string, data any) ([]byte, error) {
	if event == "" {
		return nil, errors.New("event name is empty")
	}

	var raw json.RawMessage
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encode payload for %q: %w", event, err)
		}
		raw = encoded
	}

	out, err := json.Marshal(Envelope{Event: event, Data: raw})
	if err != nil {
		return nil, fmt.Errorf("encode envelope for %q: %w", event, err)
	}
	if len(out) > maxPayloadSize {
		return nil, fmt.Errorf("message size %d exceeds maximum %d bytes", len(out), maxPayloadSize)
	}
	return out, nil
}

// Decode parses a JSON envelope and returns the event name and raw payload.
// The payload is returned undecoded; each handler unmarshals it into its own
// typed struct so validation happens once at dispatch.
func Decode(data []byte) (string, json.RawMessage, error) {
	if len(data) == 0 {
		return "", nil, errors.New("data too short")
	}
	if len(data) > maxPayloadSize {
		return "", nil, fmt.Errorf("message size %d exceeds maximum %d bytes", len(data), maxPayloadSize)
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", nil, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Event == "" {
		return "", nil, errors.New("missing event name")
	}
	return env.Event, env.Data, nil
}
