package game

import (
	"sync"

	"github.com/google/uuid"
)

// GameStore is the registry of live games. A lobby has at most one live game.
type GameStore struct {
	mu    sync.Mutex
	games map[uuid.UUID]*UnoGame
}

func NewGameStore() *GameStore {
	return &GameStore{
		games: make(map[uuid.UUID]*UnoGame),
	}
}

// AddGame registers a game unless its lobby already has one, in which case the existing
// game is returned with false.
func (s *GameStore) AddGame(game *UnoGame) (*UnoGame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.games {
		if g.LobbyID == game.LobbyID {
			return g, false
		}
	}
	s.games[game.ID] = game
	return game, true
}

func (s *GameStore) GetGame(id uuid.UUID) (*UnoGame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, exists := s.games[id]
	return g, exists
}

func (s *GameStore) DeleteGame(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
}

// GetGameByLobbyID returns the live game started from the given lobby, or nil if none is found.
func (s *GameStore) GetGameByLobbyID(lobbyID uuid.UUID) *UnoGame {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.games {
		if g.LobbyID == lobbyID {
			return g
		}
	}
	return nil
}

// Len returns the number of live games.
func (s *GameStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.games)
}
