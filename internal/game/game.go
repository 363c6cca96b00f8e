// internal/game/game.go
package game

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/cache"
	"github.com/jason-s-yu/uno/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	MinPlayers = 2
	MaxPlayers = 30
	HandSize   = 7
)

// PromptType is the kind of decision a prompt asks for.
type PromptType string

const (
	PromptChooseColor   PromptType = "chooseColor"
	PromptStackDrawCard PromptType = "stackDrawCard"
	PromptPlayDrawnCard PromptType = "playDrawnCard"
)

// Prompt is a decision owed by one player. Only the head of the queue is ever awaited.
type Prompt struct {
	Type   PromptType `json:"type"`
	Player int        `json:"player"`
	Data   int        `json:"data,omitempty"`
	// Turn is the turn the prompt was issued in.
	Turn int `json:"turn"`
}

// Player is one seat in a game.
type Player struct {
	ID                 uuid.UUID     `json:"id"`
	Name               string        `json:"name"`
	Hand               []models.Card `json:"hand"`
	AnnouncingLastCard bool          `json:"announcingLastCard"`
	Accusable          bool          `json:"accusable"`
	LastDrawn          *models.Card  `json:"lastDrawn,omitempty"`
}

// drawnIndex returns the hand index of the card drawn last, or -1.
func (p *Player) drawnIndex() int {
	if p.LastDrawn == nil {
		return -1
	}
	for i, c := range p.Hand {
		if c.ID == p.LastDrawn.ID {
			return i
		}
	}
	return -1
}

// Seat is a roster entry a game is created from.
type Seat struct {
	ID   uuid.UUID
	Name string
}

// Config holds everything needed to start a game.
type Config struct {
	LobbyID uuid.UUID
	Players []Seat
	Deck    []models.Card
	Rules   HouseRules
	// Seed fixes the shuffle order. Zero seeds from the clock.
	Seed   int64
	Logger logrus.FieldLogger
}

// UnoGame is the state of one running game. All intents are applied under Mu, one at a time.
type UnoGame struct {
	ID      uuid.UUID
	LobbyID uuid.UUID

	HouseRules HouseRules

	Players     []*Player
	DrawPile    []models.Card // top is the last element
	DiscardPile []models.Card // top is the last element
	PromptQueue []Prompt

	EliminatedPlayers []int // in elimination order

	CurrentPlayer  int
	ClockwiseTurns bool
	TurnsToSkip    int
	ForcedColor    models.CardColor // empty when unset
	TurnID         int

	// StackOrigin is the player who started the running draw stack, StackTop the last draw symbol on it.
	StackOrigin int
	StackTop    models.CardSymbol

	Finished bool
	Results  []Result

	Mu sync.Mutex

	// BroadcastFn receives the notifications of every applied intent, in order, while Mu is held.
	BroadcastFn func(notes []Notification)

	log         logrus.FieldLogger
	rng         *rand.Rand
	pending     []Notification
	actionIndex int
}

// NewUnoGame shuffles the deck, deals HandSize cards to every seat and flips the first
// non-wild card onto the discard pile. The returned notifications hold every player's
// private hand, the seed card and the first startTurn.
func NewUnoGame(cfg Config) (*UnoGame, []Notification, error) {
	if len(cfg.Players) < MinPlayers || len(cfg.Players) > MaxPlayers {
		return nil, nil, fmt.Errorf("a game needs between %d and %d players, got %d", MinPlayers, MaxPlayers, len(cfg.Players))
	}
	if err := cfg.Rules.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid house rules: %w", err)
	}
	if len(cfg.Deck) < HandSize*len(cfg.Players)+1 {
		return nil, nil, fmt.Errorf("deck of %d cards is too small for %d players", len(cfg.Deck), len(cfg.Players))
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	id := uuid.New()
	g := &UnoGame{
		ID:             id,
		LobbyID:        cfg.LobbyID,
		HouseRules:     cfg.Rules,
		ClockwiseTurns: true,
		log:            logger.WithField("game", id),
		rng:            rand.New(rand.NewSource(seed)),
	}
	g.HouseRules.GeneralRules = append([]GeneralRule(nil), cfg.Rules.GeneralRules...)

	seen := make(map[uuid.UUID]bool, len(cfg.Players))
	for _, s := range cfg.Players {
		if seen[s.ID] {
			return nil, nil, fmt.Errorf("player %s is seated twice", s.ID)
		}
		seen[s.ID] = true
		g.Players = append(g.Players, &Player{ID: s.ID, Name: s.Name, Hand: make([]models.Card, 0, HandSize)})
	}

	g.DrawPile = append([]models.Card(nil), cfg.Deck...)
	g.shuffle(g.DrawPile)

	for _, p := range g.Players {
		n := len(g.DrawPile)
		p.Hand = append(p.Hand, g.DrawPile[n-HandSize:]...)
		g.DrawPile = g.DrawPile[:n-HandSize]
	}

	seedIdx := -1
	for i := len(g.DrawPile) - 1; i >= 0; i-- {
		if !g.DrawPile[i].IsWild() {
			seedIdx = i
			break
		}
	}
	if seedIdx < 0 {
		return nil, nil, fmt.Errorf("deck holds no non-wild card to start the discard pile")
	}
	first := g.DrawPile[seedIdx]
	g.DrawPile = append(g.DrawPile[:seedIdx], g.DrawPile[seedIdx+1:]...)
	g.DiscardPile = []models.Card{first}

	for i := range g.Players {
		g.emitHand(i)
	}
	g.emit(ActionPlayCard, first, nil)
	g.emit(ActionStartTurn, StartTurnData{Player: g.Players[0].ID, Turn: g.TurnID}, nil)

	g.log.Infof("created with %d players from lobby %s", len(g.Players), g.LobbyID)
	return g, g.flush(uuid.Nil, true), nil
}

// IntentType names a player intent.
type IntentType string

const (
	IntentPlayCard     IntentType = "playCard"
	IntentDrawCard     IntentType = "drawCard"
	IntentAnswerPrompt IntentType = "answerPrompt"
	IntentLastCard     IntentType = "lastCard"
	IntentAccuse       IntentType = "accuse"
	IntentViewHand     IntentType = "viewHand"
)

// Intent is one request from an authenticated player.
type Intent struct {
	Type      IntentType
	HandIndex int
	Answer    interface{}
	Target    uuid.UUID
}

// HandleIntent applies one intent and returns the notifications it produced, in order.
// A rejected intent changes nothing and yields a single error notification for the actor.
func (g *UnoGame) HandleIntent(userID uuid.UUID, in Intent) ([]Notification, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	g.pending = nil
	var err error
	if g.Finished {
		err = ErrGameFinished
	} else {
		switch in.Type {
		case IntentPlayCard:
			err = g.requestPlayCard(userID, in.HandIndex)
		case IntentDrawCard:
			err = g.requestCardDraw(userID)
		case IntentAnswerPrompt:
			err = g.handlePlayerPrompt(userID, in.Answer)
		case IntentLastCard:
			err = g.announceLastCard(userID)
		case IntentAccuse:
			err = g.accuse(userID, in.Target)
		case IntentViewHand:
			err = g.viewHand(userID)
		default:
			err = ErrInvalidAction
		}
	}

	if err != nil {
		g.log.WithField("user", userID).Debugf("rejected %s: %v", in.Type, err)
		g.pending = nil
		g.emitTo(userID, ActionError, err.Error())
		return g.flush(userID, false), err
	}
	return g.flush(userID, true), nil
}

// IsFinished reports whether the game has ended.
func (g *UnoGame) IsFinished() bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.Finished
}

// HasPlayer reports whether the user holds a seat in this game.
func (g *UnoGame) HasPlayer(userID uuid.UUID) bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	_, ok := g.playerIndex(userID)
	return ok
}

func (g *UnoGame) playerIndex(userID uuid.UUID) (int, bool) {
	for i, p := range g.Players {
		if p.ID == userID {
			return i, true
		}
	}
	return -1, false
}

func (g *UnoGame) isEliminated(idx int) bool {
	for _, e := range g.EliminatedPlayers {
		if e == idx {
			return true
		}
	}
	return false
}

func (g *UnoGame) activePlayerCount() int {
	return len(g.Players) - len(g.EliminatedPlayers)
}

// shuffle is an in-place Fisher-Yates shuffle.
func (g *UnoGame) shuffle(cards []models.Card) {
	g.rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// flush hands out the pending notifications and clears them. When record is set every
// notification is pushed to the action log.
func (g *UnoGame) flush(actor uuid.UUID, record bool) []Notification {
	notes := g.pending
	g.pending = nil
	if len(notes) == 0 {
		return nil
	}
	if record {
		g.logActions(actor, notes)
	}
	if g.BroadcastFn != nil {
		g.BroadcastFn(notes)
	}
	return notes
}

// logActions publishes the notifications to the historian queue without blocking the game.
func (g *UnoGame) logActions(actor uuid.UUID, notes []Notification) {
	records := make([]cache.GameActionRecord, 0, len(notes))
	now := time.Now().UnixMilli()
	for _, n := range notes {
		g.actionIndex++
		records = append(records, cache.GameActionRecord{
			GameID:        g.ID,
			ActionIndex:   g.actionIndex,
			ActorUserID:   actor,
			ActionType:    string(n.Action),
			ActionPayload: n.Data,
			Recipient:     n.To,
			Timestamp:     now,
		})
	}
	if cache.Rdb == nil {
		return
	}
	go func(recs []cache.GameActionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		for _, rec := range recs {
			if err := cache.PublishGameAction(ctx, rec); err != nil {
				g.log.Warnf("failed to publish action %d: %v", rec.ActionIndex, err)
				return
			}
		}
	}(records)
}
