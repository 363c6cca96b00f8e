package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jason-s-yu/uno/internal/models"
)

// LoadDeck resolves the cards of a catalog deck. Every row of deck_cards is one physical card.
func LoadDeck(ctx context.Context, deckID uuid.UUID) ([]models.Card, error) {
	q := `
	SELECT c.id, c.symbol, c.color
	FROM deck_cards dc
	JOIN cards c ON c.id = dc.card_id
	WHERE dc.deck_id=$1
	`
	rows, err := DB.Query(ctx, q, deckID)
	if err != nil {
		return nil, fmt.Errorf("query deck %s: %w", deckID, err)
	}
	cards, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Card, error) {
		var c models.Card
		err := row.Scan(&c.ID, &c.Symbol, &c.Color)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan deck %s: %w", deckID, err)
	}

	// a catalog card can appear several times in one deck; each copy gets its own identity
	seen := make(map[uuid.UUID]bool, len(cards))
	for i, c := range cards {
		if !models.ValidSymbol(c.Symbol) {
			return nil, fmt.Errorf("deck %s holds unknown symbol %q", deckID, c.Symbol)
		}
		if seen[c.ID] {
			cards[i].ID = uuid.New()
		}
		seen[cards[i].ID] = true
	}
	return cards, nil
}
