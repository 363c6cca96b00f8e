package models

import "github.com/google/uuid"

// GameResult is one player's final standing in a finished game. Score is nil when the
// game was ranked by finishing order.
type GameResult struct {
	PlayerID uuid.UUID `json:"player_id"`
	Rank     int       `json:"rank"`
	Score    *int      `json:"score,omitempty"`
}
