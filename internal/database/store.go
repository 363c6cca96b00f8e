package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/models"
)

// Postgres exposes the package functions as a value, for callers that take the catalog and
// persistence as interfaces.
type Postgres struct{}

func (Postgres) GetLobby(ctx context.Context, lobbyID uuid.UUID) (*models.Lobby, error) {
	return GetLobby(ctx, lobbyID)
}

func (Postgres) GetLobbyRoster(ctx context.Context, lobbyID uuid.UUID) ([]models.Participant, error) {
	return GetLobbyRoster(ctx, lobbyID)
}

func (Postgres) LoadDeck(ctx context.Context, deckID uuid.UUID) ([]models.Card, error) {
	return LoadDeck(ctx, deckID)
}

func (Postgres) SaveGameState(ctx context.Context, gameID, lobbyID uuid.UUID, version int, state []byte) error {
	return SaveGameState(ctx, gameID, lobbyID, version, state)
}

func (Postgres) LoadGameState(ctx context.Context, gameID uuid.UUID) ([]byte, error) {
	return LoadGameState(ctx, gameID)
}

func (Postgres) RecordGameResults(ctx context.Context, gameID, lobbyID uuid.UUID, results []models.GameResult) error {
	return RecordGameResults(ctx, gameID, lobbyID, results)
}

func (Postgres) InsertGameActions(ctx context.Context, actions []ActionRow) error {
	return InsertGameActions(ctx, actions)
}

func (Postgres) MarkGameAbandoned(ctx context.Context, gameID uuid.UUID) (bool, error) {
	return MarkGameAbandoned(ctx, gameID)
}
