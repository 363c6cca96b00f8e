// internal/models/lobby.go
package models

import "github.com/google/uuid"

// Lobby is the waiting-room record a game is started from. The lobby flow itself
// (invites, ready checks, host handoff) belongs to another service.
type Lobby struct {
	ID         uuid.UUID `json:"id"`
	HostUserID uuid.UUID `json:"host_user_id"`

	// DeckID references a deck in the card catalog; uuid.Nil selects the standard deck.
	DeckID uuid.UUID `json:"deck_id"`

	// HouseRules holds the raw rule selection as stored by the lobby, parsed by game.ParseRules.
	HouseRules map[string]interface{} `json:"house_rules"`
}

// Participant is one seat of a lobby roster.
type Participant struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Seat     int       `json:"seat"`
}
