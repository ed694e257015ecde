package game

// Typed payloads for the wire events, one struct per event carrying data.
// Field names match what the browser client sends and expects; decoding into
// these structs is the only payload validation this layer performs, and it
// happens once at dispatch. Events whose payload fails to decode are dropped.

// RollDicePayload accompanies a rollDice request.
type RollDicePayload struct {
	User       string `json:"user"`
	RoomNumber string `json:"roomNumber"`
}

// DiceRolledPayload is broadcast to both members after a roll. Besides the
// rolled value it carries the room's current turn index and positions so a
// client can resynchronize from any roll.
type DiceRolledPayload struct {
	RoomNumber         string `json:"roomNumber"`
	DiceValue          int    `json:"diceValue"`
	User               string `json:"user"`
	CurrentPlayerIndex int    `json:"currentPlayerIndex"`
	PlayerPositions    []int  `json:"playerPositions"`
}

// UpdatePositionsPayload accompanies an updatePositions request. The
// positions replace the room's stored positions wholesale.
type UpdatePositionsPayload struct {
	UpdatedPositions []int  `json:"updatedPositions"`
	RoomNumber       string `json:"roomNumber"`
}

// UpdateTurnPayload accompanies an updateCurrentPlayerIndex request.
type UpdateTurnPayload struct {
	Index      int    `json:"index"`
	RoomNumber string `json:"roomNumber"`
}

// GameOverPayload accompanies a gameOver request.
type GameOverPayload struct {
	RoomNumber string `json:"roomNumber"`
}
