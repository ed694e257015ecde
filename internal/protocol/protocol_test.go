package protocol

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

// TestEncodeDecode tests basic encode/decode round trips
func TestEncodeDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		event string
		data  any
	}{
		{
			name:  "string payload",
			event: "roomNumber",
			data:  "7c9e6679-7425-40de-944b-e07fc1f90ae7",
		},
		{
			name:  "object payload",
			event: "rollDice",
			data:  map[string]any{"user": "p1", "roomNumber": "abc"},
		},
		{
			name:  "array payload",
			event: "updatedPositions",
			data:  []int{7, 13},
		},
		{
			name:  "integer payload",
			event: "currentPlayerIndex",
			data:  1,
		},
		{
			name:  "no payload",
			event: "opponentFound",
			data:  nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			encoded, err := Encode(tt.event, tt.data)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}

			event, payload, err := Decode(encoded)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}

			if event != tt.event {
				t.Errorf("event = %q, want %q", event, tt.event)
			}

			if tt.data == nil {
				if len(payload) != 0 {
					t.Errorf("payload = %s, want empty", payload)
				}
				return
			}

			want, _ := json.Marshal(tt.data)
			if !bytes.Equal(payload, want) {
				t.Errorf("payload = %s, want %s", payload, want)
			}
		})
	}
}

// TestEncodeEmptyEvent tests that an empty event name is rejected
func TestEncodeEmptyEvent(t *testing.T) {
	t.Parallel()

	if _, err := Encode("", "data"); err == nil {
		t.Error("Encode() with empty event name should fail")
	}
}

// TestEncodeUnmarshalablePayload tests that unencodable payloads are rejected
func TestEncodeUnmarshalablePayload(t *testing.T) {
	t.Parallel()

	if _, err := Encode("event", make(chan int)); err == nil {
		t.Error("Encode() with a channel payload should fail")
	}
}

// TestDecodeInvalidInput tests decoding of malformed messages
func TestDecodeInvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{
			name: "empty input",
			data: nil,
		},
		{
			name: "not json",
			data: []byte{0x00, 0x01, 0x02, 0x03},
		},
		{
			name: "truncated json",
			data: []byte(`{"event": "rollDice", "data"`),
		},
		{
			name: "missing event name",
			data: []byte(`{"data": {"user": "p1"}}`),
		},
		{
			name: "empty event name",
			data: []byte(`{"event": "", "data": 1}`),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, _, err := Decode(tt.data); err == nil {
				t.Errorf("Decode(%q) should fail", tt.data)
			}
		})
	}
}

// TestDecodeOversizedMessage tests the maximum message size guard
func TestDecodeOversizedMessage(t *testing.T) {
	t.Parallel()

	big := []byte(`{"event": "x", "data": "` + strings.Repeat("a", maxPayloadSize) + `"}`)
	if _, _, err := Decode(big); err == nil {
		t.Error("Decode() should reject messages above the size limit")
	}
}

// TestDecodePreservesRawPayload tests that nested JSON is left undecoded
func TestDecodePreservesRawPayload(t *testing.T) {
	t.Parallel()

	data := []byte(`{"event": "updatePositions", "data": {"updatedPositions": [7, 13], "roomNumber": "r1"}}`)

	event, payload, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if event != "updatePositions" {
		t.Errorf("event = %q, want updatePositions", event)
	}

	var decoded struct {
		UpdatedPositions []int  `json:"updatedPositions"`
		RoomNumber       string `json:"roomNumber"`
	}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("payload should stay unmarshalable into its typed struct: %v", err)
	}
	if len(decoded.UpdatedPositions) != 2 || decoded.UpdatedPositions[0] != 7 {
		t.Errorf("positions = %v, want [7 13]", decoded.UpdatedPositions)
	}
}

// BenchmarkEncode benchmarks envelope encoding
func BenchmarkEncode(b *testing.B) {
	payload := map[string]any{"user": "p1", "roomNumber": "7c9e6679-7425-40de-944b-e07fc1f90ae7"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Encode("rollDice", payload)
	}
}

// BenchmarkDecode benchmarks envelope decoding
func BenchmarkDecode(b *testing.B) {
	data, _ := Encode("rollDice", map[string]any{"user": "p1"})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = Decode(data)
	}
}
