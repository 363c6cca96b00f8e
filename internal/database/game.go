// internal/database/game.go
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jason-s-yu/uno/internal/models"
)

// ErrNoGameState is returned when a game has no live state row.
var ErrNoGameState = errors.New("no live state for game")

// SaveGameState upserts the live state of a running game. A write carrying a version that is
// not newer than the stored one is ignored, so late commits never roll the state back.
func SaveGameState(ctx context.Context, gameID, lobbyID uuid.UUID, version int, state []byte) error {
	return inTx(ctx, func(tx pgx.Tx) error {
		upsertGame := `
			INSERT INTO games (id, lobby_id, status, start_time)
			VALUES ($1, $2, 'in_progress', NOW())
			ON CONFLICT (id) DO NOTHING
		`
		if _, err := tx.Exec(ctx, upsertGame, gameID, lobbyID); err != nil {
			return fmt.Errorf("upsert game: %w", err)
		}
		upsertState := `
			INSERT INTO game_states (game_id, version, state, updated_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (game_id) DO UPDATE
			SET version = EXCLUDED.version, state = EXCLUDED.state, updated_at = NOW()
			WHERE game_states.version < EXCLUDED.version
		`
		if _, err := tx.Exec(ctx, upsertState, gameID, version, state); err != nil {
			return fmt.Errorf("upsert game state: %w", err)
		}
		return nil
	})
}

// LoadGameState returns the last committed live state of a game.
func LoadGameState(ctx context.Context, gameID uuid.UUID) ([]byte, error) {
	var state []byte
	q := `SELECT state FROM game_states WHERE game_id=$1`
	err := DB.QueryRow(ctx, q, gameID).Scan(&state)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoGameState
	}
	if err != nil {
		return nil, fmt.Errorf("load game state: %w", err)
	}
	return state, nil
}

// DeleteGameState removes the live state of a game.
func DeleteGameState(ctx context.Context, gameID uuid.UUID) error {
	_, err := DB.Exec(ctx, `DELETE FROM game_states WHERE game_id=$1`, gameID)
	if err != nil {
		return fmt.Errorf("delete game state: %w", err)
	}
	return nil
}

// RecordGameResults stores the final standings, marks the game completed and drops its live
// state, all in one transaction.
func RecordGameResults(ctx context.Context, gameID, lobbyID uuid.UUID, results []models.GameResult) error {
	err := inTx(ctx, func(tx pgx.Tx) error {
		upsertGame := `
			INSERT INTO games (id, lobby_id, status, start_time, end_time)
			VALUES ($1, $2, 'completed', NOW(), NOW())
			ON CONFLICT (id) DO UPDATE SET status = 'completed', end_time = NOW()
		`
		if _, err := tx.Exec(ctx, upsertGame, gameID, lobbyID); err != nil {
			return err
		}

		for _, r := range results {
			q := `
				INSERT INTO game_results (game_id, player_id, rank, score)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (game_id, player_id)
				DO UPDATE SET rank=$3, score=$4
			`
			if _, err := tx.Exec(ctx, q, gameID, r.PlayerID, r.Rank, r.Score); err != nil {
				return err
			}
		}

		_, err := tx.Exec(ctx, `DELETE FROM game_states WHERE game_id=$1`, gameID)
		return err
	})
	if err != nil {
		return fmt.Errorf("tx record game results: %w", err)
	}
	return nil
}

// ActionRow is one logged engine action as stored by the historian.
type ActionRow struct {
	GameID      uuid.UUID
	ActionIndex int
	ActorUserID uuid.UUID
	ActionType  string
	Payload     interface{}
	Recipient   *uuid.UUID
}

// InsertGameActions writes a batch of actions in one transaction. A game row is created on
// first sight and completed when its endGame action arrives.
func InsertGameActions(ctx context.Context, actions []ActionRow) error {
	return inTx(ctx, func(tx pgx.Tx) error {
		for _, a := range actions {
			if err := insertGameActionTx(ctx, tx, a); err != nil {
				return fmt.Errorf("insertGameActionTx: %w", err)
			}
		}
		return nil
	})
}

func insertGameActionTx(ctx context.Context, tx pgx.Tx, a ActionRow) error {
	upsertGameQ := `
		INSERT INTO games (id, status, start_time)
		VALUES ($1, 'in_progress', NOW())
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := tx.Exec(ctx, upsertGameQ, a.GameID); err != nil {
		return err
	}

	jsonPayload, err := json.Marshal(a.Payload)
	if err != nil {
		return err
	}
	actionInsertQ := `
		INSERT INTO game_actions (
			game_id, action_index, actor_user_id, action_type, action_payload, recipient
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (game_id, action_index) DO NOTHING
	`
	_, err = tx.Exec(ctx, actionInsertQ,
		a.GameID, a.ActionIndex, a.ActorUserID, a.ActionType, jsonPayload, a.Recipient,
	)
	if err != nil {
		return err
	}

	if a.ActionType == "endGame" {
		finalizeQ := `
			UPDATE games
			SET status = 'completed', end_time = NOW()
			WHERE id = $1 AND status = 'in_progress'
		`
		if _, err := tx.Exec(ctx, finalizeQ, a.GameID); err != nil {
			return err
		}
	}
	return nil
}

// MarkGameAbandoned flags a game that is still in progress as abandoned.
// It reports whether a row was changed.
func MarkGameAbandoned(ctx context.Context, gameID uuid.UUID) (bool, error) {
	var changed bool
	err := inTx(ctx, func(tx pgx.Tx) error {
		q := `
			UPDATE games
			SET status = 'abandoned', end_time = NOW()
			WHERE id = $1 AND status = 'in_progress'
		`
		tag, err := tx.Exec(ctx, q, gameID)
		if err != nil {
			return err
		}
		changed = tag.RowsAffected() > 0
		if changed {
			_, err = tx.Exec(ctx, `DELETE FROM game_states WHERE game_id=$1`, gameID)
		}
		return err
	})
	if err != nil {
		return false, fmt.Errorf("mark game %s abandoned: %w", gameID, err)
	}
	return changed, nil
}
