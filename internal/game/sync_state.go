// internal/game/sync_state.go
package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/models"
	"github.com/sirupsen/logrus"
)

// ObfPlayerState is one seat as seen by the requesting user. Only the requester's own hand is revealed.
type ObfPlayerState struct {
	PlayerID           uuid.UUID     `json:"playerId"`
	Name               string        `json:"name"`
	HandSize           int           `json:"handSize"`
	AnnouncingLastCard bool          `json:"announcingLastCard"`
	Accusable          bool          `json:"accusable"`
	Eliminated         bool          `json:"eliminated"`
	IsCurrentTurn      bool          `json:"isCurrentTurn"`
	Hand               []models.Card `json:"hand,omitempty"`
}

// ObfGameState is returned by State and sent as syncState on (re)connect.
type ObfGameState struct {
	GameID          uuid.UUID        `json:"gameId"`
	LobbyID         uuid.UUID        `json:"lobbyId"`
	HouseRules      HouseRules       `json:"houseRules"`
	Players         []ObfPlayerState `json:"players"`
	CurrentPlayerID uuid.UUID        `json:"currentPlayerId"`
	TurnID          int              `json:"turn"`
	ClockwiseTurns  bool             `json:"clockwiseTurns"`
	ForcedColor     models.CardColor `json:"forcedColor,omitempty"`
	DiscardTop      *models.Card     `json:"discardTop,omitempty"`
	DiscardSize     int              `json:"discardSize"`
	DrawPileSize    int              `json:"drawPileSize"`
	Prompt          *PromptData      `json:"prompt,omitempty"`
	Finished        bool             `json:"finished"`
	Results         []Result         `json:"results,omitempty"`
}

// State builds a snapshot of the game for the requesting user.
func (g *UnoGame) State(forUser uuid.UUID) ObfGameState {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.state(forUser)
}

// Subscribe runs fn with the user's view of the game while holding the game lock, so no
// broadcast can land between the snapshot and whatever fn registers.
func (g *UnoGame) Subscribe(forUser uuid.UUID, fn func(ObfGameState)) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	fn(g.state(forUser))
}

func (g *UnoGame) state(forUser uuid.UUID) ObfGameState {
	obf := ObfGameState{
		GameID:          g.ID,
		LobbyID:         g.LobbyID,
		HouseRules:      g.HouseRules,
		CurrentPlayerID: g.Players[g.CurrentPlayer].ID,
		TurnID:          g.TurnID,
		ClockwiseTurns:  g.ClockwiseTurns,
		ForcedColor:     g.ForcedColor,
		DiscardSize:     len(g.DiscardPile),
		DrawPileSize:    len(g.DrawPile),
		Finished:        g.Finished,
		Results:         g.Results,
	}
	if len(g.DiscardPile) > 0 {
		top := g.topCard()
		obf.DiscardTop = &top
	}
	if len(g.PromptQueue) > 0 {
		head := g.PromptQueue[0]
		obf.Prompt = &PromptData{Type: head.Type, Player: g.Players[head.Player].ID, Data: head.Data}
	}

	for i, pl := range g.Players {
		ps := ObfPlayerState{
			PlayerID:           pl.ID,
			Name:               pl.Name,
			HandSize:           len(pl.Hand),
			AnnouncingLastCard: pl.AnnouncingLastCard,
			Accusable:          pl.Accusable,
			Eliminated:         g.isEliminated(i),
			IsCurrentTurn:      i == g.CurrentPlayer,
		}
		if pl.ID == forUser {
			ps.Hand = append([]models.Card{}, pl.Hand...)
		}
		obf.Players = append(obf.Players, ps)
	}
	return obf
}

// Snapshot is the complete, unfiltered state of a game, used for persistence.
// Version grows with every logged action so older snapshots never overwrite newer ones.
type Snapshot struct {
	ID                uuid.UUID         `json:"id"`
	LobbyID           uuid.UUID         `json:"lobbyId"`
	Version           int               `json:"version"`
	HouseRules        HouseRules        `json:"houseRules"`
	Players           []Player          `json:"players"`
	DrawPile          []models.Card     `json:"drawPile"`
	DiscardPile       []models.Card     `json:"discardPile"`
	PromptQueue       []Prompt          `json:"promptQueue"`
	EliminatedPlayers []int             `json:"eliminatedPlayers"`
	CurrentPlayer     int               `json:"currentPlayer"`
	ClockwiseTurns    bool              `json:"clockwiseTurns"`
	TurnsToSkip       int               `json:"turnsToSkip"`
	ForcedColor       models.CardColor  `json:"forcedColor,omitempty"`
	TurnID            int               `json:"turnId"`
	StackOrigin       int               `json:"stackOrigin"`
	StackTop          models.CardSymbol `json:"stackTop,omitempty"`
	Finished          bool              `json:"finished"`
	Results           []Result          `json:"results,omitempty"`
}

// Snapshot copies the full game state.
func (g *UnoGame) Snapshot() Snapshot {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	s := Snapshot{
		ID:                g.ID,
		LobbyID:           g.LobbyID,
		Version:           g.actionIndex,
		HouseRules:        g.HouseRules,
		DrawPile:          append([]models.Card(nil), g.DrawPile...),
		DiscardPile:       append([]models.Card(nil), g.DiscardPile...),
		PromptQueue:       append([]Prompt(nil), g.PromptQueue...),
		EliminatedPlayers: append([]int(nil), g.EliminatedPlayers...),
		CurrentPlayer:     g.CurrentPlayer,
		ClockwiseTurns:    g.ClockwiseTurns,
		TurnsToSkip:       g.TurnsToSkip,
		ForcedColor:       g.ForcedColor,
		TurnID:            g.TurnID,
		StackOrigin:       g.StackOrigin,
		StackTop:          g.StackTop,
		Finished:          g.Finished,
		Results:           append([]Result(nil), g.Results...),
	}
	s.HouseRules.GeneralRules = append([]GeneralRule(nil), g.HouseRules.GeneralRules...)
	for _, p := range g.Players {
		cp := *p
		cp.Hand = append([]models.Card(nil), p.Hand...)
		if p.LastDrawn != nil {
			c := *p.LastDrawn
			cp.LastDrawn = &c
		}
		s.Players = append(s.Players, cp)
	}
	return s
}

// Restore rebuilds a running game from a persisted snapshot.
func Restore(s Snapshot, logger logrus.FieldLogger) (*UnoGame, error) {
	if len(s.Players) < MinPlayers || len(s.Players) > MaxPlayers {
		return nil, fmt.Errorf("snapshot of game %s has %d players", s.ID, len(s.Players))
	}
	if s.CurrentPlayer < 0 || s.CurrentPlayer >= len(s.Players) || len(s.DiscardPile) == 0 {
		return nil, fmt.Errorf("snapshot of game %s is inconsistent", s.ID)
	}
	for _, pr := range s.PromptQueue {
		if pr.Player < 0 || pr.Player >= len(s.Players) {
			return nil, fmt.Errorf("snapshot of game %s has a prompt for unknown seat %d", s.ID, pr.Player)
		}
	}
	if err := s.HouseRules.Validate(); err != nil {
		return nil, fmt.Errorf("snapshot of game %s: %w", s.ID, err)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	g := &UnoGame{
		ID:                s.ID,
		LobbyID:           s.LobbyID,
		HouseRules:        s.HouseRules,
		DrawPile:          s.DrawPile,
		DiscardPile:       s.DiscardPile,
		PromptQueue:       s.PromptQueue,
		EliminatedPlayers: s.EliminatedPlayers,
		CurrentPlayer:     s.CurrentPlayer,
		ClockwiseTurns:    s.ClockwiseTurns,
		TurnsToSkip:       s.TurnsToSkip,
		ForcedColor:       s.ForcedColor,
		TurnID:            s.TurnID,
		StackOrigin:       s.StackOrigin,
		StackTop:          s.StackTop,
		Finished:          s.Finished,
		Results:           s.Results,
		log:               logger.WithField("game", s.ID),
		rng:               rand.New(rand.NewSource(time.Now().UnixNano())),
		actionIndex:       s.Version,
	}
	for i := range s.Players {
		p := s.Players[i]
		g.Players = append(g.Players, &p)
	}
	return g, nil
}
