package models

import "github.com/google/uuid"

// User is the identity record resolved for a player. Credentials live outside this service.
type User struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	IsEphemeral bool      `json:"is_ephemeral"`
}
