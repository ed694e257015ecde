package game

import (
	"context"
	"encoding/json"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/snakeladders/matchserver"
)

// Emitter is the slice of the transport the handler needs to deliver
// outbound events. Delivery is fire-and-forget; emit errors mean the client
// is gone and are only worth a debug log.
type Emitter interface {
	EmitTo(ctx context.Context, clientID, event string, data any) error
	BroadcastTo(ctx context.Context, clientIDs []string, event string, data any) error
}

// Handler bridges inbound named events to registry operations and outbound
// events to the right room's members. Every event first resolves its room
// (by ID, or by membership for disconnects); when resolution fails the event
// is silently dropped. That is deliberate: the dominant cause is a benign
// race between room teardown and in-flight messages, so a missing room is
// not an error and must never surface to the client.
type Handler struct {
	registry *Registry
	emitter  Emitter
	log      zerolog.Logger
	roll     func() int // dice source, swappable in tests
}

// NewHandler creates a handler over the given registry and transport
func NewHandler(registry *Registry, emitter Emitter, logger zerolog.Logger) *Handler {
	return &Handler{
		registry: registry,
		emitter:  emitter,
		log:      logger,
		roll:     func() int { return rand.Intn(6) + 1 },
	}
}

// Register wires the handler into the transport server's event dispatch.
// The disconnect path is not an event; the transport invokes
// HandleDisconnect through its disconnect callback instead.
func (h *Handler) Register(ctx context.Context, server matchserver.EventServer) error {
	handlers := map[string]func(client matchserver.Client, payload json.RawMessage){
		matchserver.EventSearchOpponent: func(c matchserver.Client, _ json.RawMessage) {
			h.HandleSearchOpponent(ctx, c.ID())
		},
		matchserver.EventRollDice: func(c matchserver.Client, p json.RawMessage) {
			h.HandleRollDice(ctx, p)
		},
		matchserver.EventUpdatePositions: func(c matchserver.Client, p json.RawMessage) {
			h.HandleUpdatePositions(ctx, p)
		},
		matchserver.EventUpdateTurn: func(c matchserver.Client, p json.RawMessage) {
			h.HandleUpdateTurn(ctx, p)
		},
		matchserver.EventGameOver: func(c matchserver.Client, p json.RawMessage) {
			h.HandleGameOver(ctx, p)
		},
	}

	for event, fn := range handlers {
		if err := server.RegisterHandler(ctx, event, fn); err != nil {
			return err
		}
	}
	return nil
}

// HandleSearchOpponent pairs the client into a room. The joiner learns its
// room ID and color immediately; when the join fills the room, both members
// are told the match can start.
func (h *Handler) HandleSearchOpponent(ctx context.Context, clientID string) {
	res, ok := h.registry.Join(clientID)
	if !ok {
		h.log.Debug().Str("client_id", clientID).Msg("searchOpponent from client already in a room, dropped")
		return
	}

	h.emit(ctx, clientID, matchserver.EventRoomNumber, res.RoomID)
	h.emit(ctx, clientID, matchserver.EventPlayerColor, res.Color)

	if res.Paired {
		h.broadcast(ctx, res.Members, matchserver.EventOpponentFound, nil)
		h.log.Info().Str("room_id", res.RoomID).Msg("opponent found for both players")
	}
}

// HandleRollDice rolls a die for the requesting player and broadcasts the
// result, along with the room's turn index and positions, to both members.
func (h *Handler) HandleRollDice(ctx context.Context, payload json.RawMessage) {
	var p RollDicePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		h.log.Debug().Err(err).Msg("malformed rollDice payload, dropped")
		return
	}

	st, ok := h.registry.State(p.RoomNumber)
	if !ok {
		return
	}

	value := h.roll()
	h.log.Debug().Str("room_id", p.RoomNumber).Str("user", p.User).Int("value", value).Msg("dice rolled")

	h.broadcast(ctx, st.Members, matchserver.EventDiceRolled, DiceRolledPayload{
		RoomNumber:         p.RoomNumber,
		DiceValue:          value,
		User:               p.User,
		CurrentPlayerIndex: st.TurnIndex,
		PlayerPositions:    st.Positions,
	})
}

// HandleUpdatePositions replaces the room's positions with the
// client-submitted ones and relays them to both members. The server trusts
// the client; positions are not interpreted or validated.
func (h *Handler) HandleUpdatePositions(ctx context.Context, payload json.RawMessage) {
	var p UpdatePositionsPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		h.log.Debug().Err(err).Msg("malformed updatePositions payload, dropped")
		return
	}

	members, ok := h.registry.SetPositions(p.RoomNumber, p.UpdatedPositions)
	if !ok {
		return
	}

	h.broadcast(ctx, members, matchserver.EventUpdatedPositions, p.UpdatedPositions)
}

// HandleUpdateTurn replaces the room's turn index and relays it to both
// members.
func (h *Handler) HandleUpdateTurn(ctx context.Context, payload json.RawMessage) {
	var p UpdateTurnPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		h.log.Debug().Err(err).Msg("malformed updateCurrentPlayerIndex payload, dropped")
		return
	}

	members, ok := h.registry.SetTurn(p.RoomNumber, p.Index)
	if !ok {
		return
	}

	h.broadcast(ctx, members, matchserver.EventCurrentTurn, p.Index)
}

// HandleGameOver tears the room down. Teardown is silent: the clients
// already know the game ended, no acknowledgment is sent.
func (h *Handler) HandleGameOver(ctx context.Context, payload json.RawMessage) {
	var p GameOverPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		h.log.Debug().Err(err).Msg("malformed gameOver payload, dropped")
		return
	}

	if h.registry.Remove(p.RoomNumber) {
		h.log.Info().Str("room_id", p.RoomNumber).Msg("game over")
	}
}

// HandleDisconnect removes the client from its room, notifying the remaining
// member when there is one. The room itself survives until its last member
// is gone. Safe to call repeatedly for the same client; repeats are no-ops.
func (h *Handler) HandleDisconnect(ctx context.Context, clientID string) {
	res, ok := h.registry.Leave(clientID)
	if !ok {
		return
	}

	if len(res.Remaining) > 0 {
		h.broadcast(ctx, res.Remaining, matchserver.EventOpponentDisconnected, nil)
	}
}

func (h *Handler) emit(ctx context.Context, clientID, event string, data any) {
	if err := h.emitter.EmitTo(ctx, clientID, event, data); err != nil {
		h.log.Debug().Err(err).Str("client_id", clientID).Str("event", event).Msg("emit failed")
	}
}

func (h *Handler) broadcast(ctx context.Context, clientIDs []string, event string, data any) {
	if err := h.emitter.BroadcastTo(ctx, clientIDs, event, data); err != nil {
		h.log.Debug().Err(err).Str("event", event).Msg("broadcast failed")
	}
}
