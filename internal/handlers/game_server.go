// internal/handlers/game_server.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/game"
	"github.com/jason-s-yu/uno/internal/models"
	"github.com/sirupsen/logrus"
)

// ErrNotHost is returned when someone other than the lobby host tries to start its game.
var ErrNotHost = errors.New("only the lobby host can start the game")

// Catalog resolves what a game is started from.
type Catalog interface {
	GetLobby(ctx context.Context, lobbyID uuid.UUID) (*models.Lobby, error)
	GetLobbyRoster(ctx context.Context, lobbyID uuid.UUID) ([]models.Participant, error)
	LoadDeck(ctx context.Context, deckID uuid.UUID) ([]models.Card, error)
}

// Persistence commits running games and records finished ones.
type Persistence interface {
	SaveGameState(ctx context.Context, gameID, lobbyID uuid.UUID, version int, state []byte) error
	LoadGameState(ctx context.Context, gameID uuid.UUID) ([]byte, error)
	RecordGameResults(ctx context.Context, gameID, lobbyID uuid.UUID, results []models.GameResult) error
}

// GameServer is a high-level struct that holds a reference to a GameStore
// and can create new games from lobbies.
type GameServer struct {
	GameStore   *game.GameStore
	Hub         *Hub
	Catalog     Catalog
	Persistence Persistence
	Logger      *logrus.Logger
}

func NewGameServer(logger *logrus.Logger, catalog Catalog, persistence Persistence) *GameServer {
	return &GameServer{
		GameStore:   game.NewGameStore(),
		Hub:         NewHub(logger),
		Catalog:     catalog,
		Persistence: persistence,
		Logger:      logger,
	}
}

// NewUnoGameFromLobby starts the game of a lobby, or returns the one already running.
// The bool reports whether a new game was created.
func (gs *GameServer) NewUnoGameFromLobby(ctx context.Context, lobbyID, requester uuid.UUID) (*game.UnoGame, bool, error) {
	if g := gs.GameStore.GetGameByLobbyID(lobbyID); g != nil {
		return g, false, nil
	}

	lobby, err := gs.Catalog.GetLobby(ctx, lobbyID)
	if err != nil {
		return nil, false, fmt.Errorf("fetch lobby %s: %w", lobbyID, err)
	}
	if lobby.HostUserID != requester {
		return nil, false, ErrNotHost
	}
	roster, err := gs.Catalog.GetLobbyRoster(ctx, lobbyID)
	if err != nil {
		return nil, false, fmt.Errorf("fetch roster of lobby %s: %w", lobbyID, err)
	}
	rules, err := game.ParseRules(lobby.HouseRules, game.DefaultHouseRules())
	if err != nil {
		return nil, false, fmt.Errorf("lobby %s rules: %w", lobbyID, err)
	}

	deck := models.StandardDeckFor(len(roster), game.HandSize)
	if lobby.DeckID != uuid.Nil {
		cards, err := gs.Catalog.LoadDeck(ctx, lobby.DeckID)
		if err != nil {
			return nil, false, fmt.Errorf("load deck %s: %w", lobby.DeckID, err)
		}
		if len(cards) > 0 {
			deck = cards
		}
	}

	seats := make([]game.Seat, 0, len(roster))
	for _, p := range roster {
		seats = append(seats, game.Seat{ID: p.UserID, Name: p.Username})
	}

	g, _, err := game.NewUnoGame(game.Config{
		LobbyID: lobbyID,
		Players: seats,
		Deck:    deck,
		Rules:   rules,
		Logger:  gs.Logger,
	})
	if err != nil {
		return nil, false, err
	}

	stored, added := gs.GameStore.AddGame(g)
	if !added {
		return stored, false, nil
	}
	gs.attach(g)
	gs.commit(ctx, g)
	gs.Logger.Infof("started game %s for lobby %s with %d players", g.ID, lobbyID, len(seats))
	return g, true, nil
}

// attach routes the game's notifications to the hub.
func (gs *GameServer) attach(g *game.UnoGame) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	id := g.ID
	g.BroadcastFn = func(notes []game.Notification) {
		gs.Hub.Deliver(id, notes)
	}
}

// join registers a connection with the player's syncState as its first message. Both happen
// under the game lock, so no broadcast can slip in between. A finished game is not joined.
func (gs *GameServer) join(g *game.UnoGame, conn *GameConnection) bool {
	joined := false
	g.Subscribe(conn.UserID, func(state game.ObfGameState) {
		if state.Finished {
			return
		}
		userID := conn.UserID
		gs.Hub.Register(state.GameID, conn, game.Notification{Action: game.ActionSyncState, Data: state, User: &userID})
		joined = true
	})
	return joined
}

// loadGame finds a live game, restoring it from its last committed state if this process
// does not hold it.
func (gs *GameServer) loadGame(ctx context.Context, gameID uuid.UUID) (*game.UnoGame, bool) {
	if g, ok := gs.GameStore.GetGame(gameID); ok {
		return g, true
	}
	if gs.Persistence == nil {
		return nil, false
	}
	data, err := gs.Persistence.LoadGameState(ctx, gameID)
	if err != nil {
		gs.Logger.Debugf("no state to restore game %s: %v", gameID, err)
		return nil, false
	}
	var snap game.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		gs.Logger.Warnf("corrupt state for game %s: %v", gameID, err)
		return nil, false
	}
	if snap.Finished {
		return nil, false
	}
	g, err := game.Restore(snap, gs.Logger)
	if err != nil {
		gs.Logger.Warnf("failed to restore game %s: %v", gameID, err)
		return nil, false
	}
	stored, added := gs.GameStore.AddGame(g)
	if added {
		gs.attach(g)
		gs.Logger.Infof("restored game %s at version %d", gameID, snap.Version)
	}
	return stored, true
}

// commit persists the game after an applied intent. A finished game has its results
// recorded and is removed from the store.
func (gs *GameServer) commit(ctx context.Context, g *game.UnoGame) {
	snap := g.Snapshot()
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if snap.Finished {
		gs.GameStore.DeleteGame(snap.ID)
		gs.Hub.CloseGame(snap.ID)
		if gs.Persistence == nil {
			return
		}
		results := make([]models.GameResult, 0, len(snap.Results))
		for _, r := range snap.Results {
			results = append(results, models.GameResult{PlayerID: r.Player, Rank: r.Rank, Score: r.Score})
		}
		if err := gs.Persistence.RecordGameResults(ctx, snap.ID, snap.LobbyID, results); err != nil {
			gs.Logger.Errorf("failed to record results of game %s: %v", snap.ID, err)
		}
		return
	}

	if gs.Persistence == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		gs.Logger.Errorf("failed to marshal state of game %s: %v", snap.ID, err)
		return
	}
	if err := gs.Persistence.SaveGameState(ctx, snap.ID, snap.LobbyID, snap.Version, data); err != nil {
		gs.Logger.Errorf("failed to save state of game %s: %v", snap.ID, err)
	}
}
