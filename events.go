package matchserver

// Wire event names. These match the browser client, so renaming any of them
// is a breaking protocol change.
const (
	// Inbound (client -> server)
	EventSearchOpponent  = "searchOpponent"
	EventRollDice        = "rollDice"
	EventUpdatePositions = "updatePositions"
	EventUpdateTurn      = "updateCurrentPlayerIndex"
	EventGameOver        = "gameOver"

	// Outbound (server -> client)
	EventRoomNumber           = "roomNumber"
	EventPlayerColor          = "playerColor"
	EventOpponentFound        = "opponentFound"
	EventDiceRolled           = "diceRolled"
	EventUpdatedPositions     = "updatedPositions"
	EventCurrentTurn          = "currentPlayerIndex"
	EventOpponentDisconnected = "opponentDisconnected"
)

// Player colors, assigned by join order.
const (
	ColorGreen = "green"
	ColorRed   = "red"
)

// Standard error messages
const (
	// Protocol errors
	ErrInvalidMessageFormat = "Invalid message format"

	// Connection errors
	ErrClientNotFound       = "client not found"
	ErrConnectionClosed     = "client connection is closed"
	ErrContextCancelled     = "client context cancelled"
	ErrFailedToEncode       = "failed to encode message"
	ErrServerAlreadyRunning = "server already running"
)
