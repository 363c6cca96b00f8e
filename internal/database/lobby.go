package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jason-s-yu/uno/internal/models"
)

// GetLobby fetches a lobby by ID, including the raw house rule selection.
func GetLobby(ctx context.Context, lobbyID uuid.UUID) (*models.Lobby, error) {
	var l models.Lobby
	var deckID *uuid.UUID
	q := `
	SELECT id, host_user_id, deck_id, house_rules
	FROM lobbies
	WHERE id=$1
	`
	err := DB.QueryRow(ctx, q, lobbyID).Scan(&l.ID, &l.HostUserID, &deckID, &l.HouseRules)
	if err != nil {
		return nil, err
	}
	if deckID != nil {
		l.DeckID = *deckID
	}
	if l.HouseRules == nil {
		l.HouseRules = map[string]interface{}{}
	}
	return &l, nil
}

// GetLobbyRoster returns the seated participants of a lobby, ordered by seat.
func GetLobbyRoster(ctx context.Context, lobbyID uuid.UUID) ([]models.Participant, error) {
	q := `
	SELECT lp.user_id, u.username, lp.seat_position
	FROM lobby_participants lp
	JOIN users u ON u.id = lp.user_id
	WHERE lp.lobby_id=$1
	ORDER BY lp.seat_position ASC
	`
	rows, err := DB.Query(ctx, q, lobbyID)
	if err != nil {
		return nil, fmt.Errorf("query roster: %w", err)
	}
	roster, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Participant, error) {
		var p models.Participant
		err := row.Scan(&p.UserID, &p.Username, &p.Seat)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan roster: %w", err)
	}
	return roster, nil
}
