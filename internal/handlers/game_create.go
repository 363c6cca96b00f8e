package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
)

type createGameRequest struct {
	LobbyID uuid.UUID `json:"lobby_id"`
}

type createGameResponse struct {
	GameID  uuid.UUID `json:"game_id"`
	LobbyID uuid.UUID `json:"lobby_id"`
	Created bool      `json:"created"`
}

// CreateGameHandler starts the game of a lobby (POST /game/create). Only the lobby host may
// call it; calling it again returns the game already running.
func CreateGameHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		userID, err := authenticateRequest(r)
		if err != nil {
			http.Error(w, "invalid token", http.StatusForbidden)
			return
		}

		var req createGameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.LobbyID == uuid.Nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		g, created, err := gs.NewUnoGameFromLobby(r.Context(), req.LobbyID, userID)
		if errors.Is(err, ErrNotHost) {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		if err != nil {
			gs.Logger.Warnf("failed to start game for lobby %s: %v", req.LobbyID, err)
			http.Error(w, "could not start game", http.StatusUnprocessableEntity)
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		writeJSON(w, status, createGameResponse{GameID: g.ID, LobbyID: g.LobbyID, Created: created})
	}
}
