package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/models"
)

// GetUserByID resolves a player identity to its display record.
func GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	q := `
	SELECT id, username, is_ephemeral
	FROM users
	WHERE id=$1
	`
	err := DB.QueryRow(ctx, q, id).Scan(&u.ID, &u.Username, &u.IsEphemeral)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
