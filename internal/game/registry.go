package game

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/snakeladders/matchserver"
)

const (
	// maxMembers is the hard cap on room occupancy; this server only
	// understands two-player matches.
	maxMembers = 2

	// startSquare is the board square both pieces occupy at match start.
	startSquare = 1
)

// room is the server-side record pairing up to two clients for one match.
// Members are opaque client IDs in join order (first is green, second red),
// never live connection handles. All fields are guarded by the owning
// Registry's mutex; nothing outside the registry reads or writes them.
type room struct {
	id        string
	members   []string
	turnIndex int
	positions []int
}

// Registry is the single authoritative collection of active rooms.
// All mutations to room membership and game state go through it, and every
// compound read-modify-write (most importantly matchmaking) runs under one
// mutex so concurrent clients observe registry operations as atomic.
type Registry struct {
	mu         sync.Mutex
	rooms      map[string]*room
	order      []string          // room IDs in creation order, for oldest-first joinable search
	memberRoom map[string]string // clientID -> roomID reverse index, used on disconnect
	log        zerolog.Logger
}

// NewRegistry creates an empty room registry
func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		rooms:      make(map[string]*room),
		memberRoom: make(map[string]string),
		log:        logger,
	}
}

// JoinResult describes the outcome of a successful Join.
type JoinResult struct {
	RoomID  string
	Color   string   // green for the first member, red for the second
	Members []string // membership snapshot taken after the join
	Paired  bool     // true when this join filled the room
}

// Join attaches the client to the oldest room holding a single member, or
// creates a fresh room when none qualifies. Picking the oldest joinable room
// is a deliberately simple policy, not a fairness guarantee.
//
// The find-or-create scan, the member append and the color decision execute
// under one lock: two concurrent joiners can never both be told they are the
// second player of the same room, and a room can never reach three members.
//
// Returns false when the client already belongs to a room; a member belongs
// to at most one room at a time.
func (r *Registry) Join(clientID string) (JoinResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.memberRoom[clientID]; ok {
		return JoinResult{}, false
	}

	for _, id := range r.order {
		rm := r.rooms[id]
		if len(rm.members) != 1 {
			continue
		}
		rm.members = append(rm.members, clientID)
		r.memberRoom[clientID] = rm.id
		r.log.Info().Str("room_id", rm.id).Str("client_id", clientID).Msg("opponent joined room")
		return JoinResult{
			RoomID:  rm.id,
			Color:   colorForOrder(len(rm.members) - 1),
			Members: append([]string(nil), rm.members...),
			Paired:  len(rm.members) == maxMembers,
		}, true
	}

	rm := &room{
		id:        uuid.New().String(),
		members:   []string{clientID},
		positions: []int{startSquare, startSquare},
	}
	r.rooms[rm.id] = rm
	r.order = append(r.order, rm.id)
	r.memberRoom[clientID] = rm.id
	r.log.Info().Str("room_id", rm.id).Str("client_id", clientID).Msg("room created")

	return JoinResult{
		RoomID:  rm.id,
		Color:   colorForOrder(0),
		Members: append([]string(nil), rm.members...),
	}, true
}

// State is a point-in-time snapshot of a room's relayed game state.
type State struct {
	RoomID    string
	Members   []string
	TurnIndex int
	Positions []int
}

// State returns a snapshot of the room with the given ID.
// Returns false when no such room exists.
func (r *Registry) State(roomID string) (State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomID]
	if !ok {
		return State{}, false
	}
	return State{
		RoomID:    rm.id,
		Members:   append([]string(nil), rm.members...),
		TurnIndex: rm.turnIndex,
		Positions: append([]int(nil), rm.positions...),
	}, true
}

// SetPositions replaces the room's player positions wholesale. The payload is
// opaque to this layer: it is stored and relayed verbatim, never validated.
// Returns the membership snapshot, or false when the room does not exist.
func (r *Registry) SetPositions(roomID string, positions []int) ([]string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomID]
	if !ok {
		return nil, false
	}
	rm.positions = append([]int(nil), positions...)
	return append([]string(nil), rm.members...), true
}

// SetTurn replaces the room's turn index. The index is relayed verbatim and
// not checked against member count or legal turn sequencing.
// Returns the membership snapshot, or false when the room does not exist.
func (r *Registry) SetTurn(roomID string, index int) ([]string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomID]
	if !ok {
		return nil, false
	}
	rm.turnIndex = index
	return append([]string(nil), rm.members...), true
}

// Remove deletes the room with the given ID. Removing an unknown room is a
// no-op, so teardown races stay harmless.
func (r *Registry) Remove(roomID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[roomID]; !ok {
		return false
	}
	r.removeLocked(roomID)
	return true
}

// LeaveResult describes the outcome of removing a client from its room.
type LeaveResult struct {
	RoomID      string
	Remaining   []string // members still in the room after the leave
	RoomRemoved bool     // true when the room emptied and was deleted
}

// Leave removes the client from whatever room it belongs to, deleting the
// room once it empties. The reverse index makes this work without the client
// supplying a room ID, which a disconnect never carries.
//
// Returns false when the client is in no room; calling Leave twice for the
// same client is therefore a no-op, which keeps disconnect handling
// idempotent.
func (r *Registry) Leave(clientID string) (LeaveResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	roomID, ok := r.memberRoom[clientID]
	if !ok {
		return LeaveResult{}, false
	}

	rm := r.rooms[roomID]
	kept := rm.members[:0]
	for _, m := range rm.members {
		if m != clientID {
			kept = append(kept, m)
		}
	}
	rm.members = kept
	delete(r.memberRoom, clientID)

	res := LeaveResult{
		RoomID:    roomID,
		Remaining: append([]string(nil), rm.members...),
	}
	if len(rm.members) == 0 {
		r.removeLocked(roomID)
		res.RoomRemoved = true
	}
	return res, true
}

// RoomContaining returns the ID of the room the client belongs to.
func (r *Registry) RoomContaining(clientID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	roomID, ok := r.memberRoom[clientID]
	return roomID, ok
}

// Len returns the number of active rooms
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}

// removeLocked deletes a room and its member index entries.
// Caller must hold r.mu.
func (r *Registry) removeLocked(roomID string) {
	rm := r.rooms[roomID]
	for _, m := range rm.members {
		delete(r.memberRoom, m)
	}
	delete(r.rooms, roomID)
	for i, id := range r.order {
		if id == roomID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.log.Info().Str("room_id", roomID).Msg("room removed")
}

// colorForOrder maps join order to the piece color the client plays.
func colorForOrder(order int) string {
	if order == 0 {
		return matchserver.ColorGreen
	}
	return matchserver.ColorRed
}
