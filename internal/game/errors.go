package game

// GameError is the reason an intent was rejected. Its value is the tag sent to the client.
// A rejected intent never leaves a partial state change behind.
type GameError string

func (e GameError) Error() string { return string(e) }

const (
	ErrNotPrompted      GameError = "notPrompted"
	ErrInvalidAction    GameError = "invalidAction"
	ErrOutOfTurn        GameError = "outOfTurn"
	ErrConditionsNotMet GameError = "conditionsNotMet"
	ErrWaitingForPrompt GameError = "waitingForPrompt"
	ErrGameFinished     GameError = "gameFinished"
	ErrUnplayableCard   GameError = "unplayableCard"
)
