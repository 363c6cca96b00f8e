// internal/game/notification.go
package game

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/models"
)

// Action is the tag of an outbound notification.
type Action string

const (
	ActionDraw          Action = "draw"
	ActionLastCard      Action = "lastCard"
	ActionAccuse        Action = "accuse"
	ActionStartTurn     Action = "startTurn"
	ActionError         Action = "error"
	ActionChangeColor   Action = "changeColor"
	ActionPlayCard      Action = "playCard"
	ActionViewHand      Action = "viewHand"
	ActionEndGame       Action = "endGame"
	ActionRequestPrompt Action = "requestPrompt"
	ActionEliminate     Action = "eliminate"
	ActionRefreshDeck   Action = "refreshDeck"
	ActionSyncState     Action = "syncState"
)

// Notification is one outbound event produced while applying an intent.
// A notification with To set is private and is only ever delivered to that player.
type Notification struct {
	Action Action      `json:"action"`
	Data   interface{} `json:"data,omitempty"`
	User   *uuid.UUID  `json:"user,omitempty"`
	To     *uuid.UUID  `json:"-"`
}

// IsPrivate reports whether the notification is addressed to a single player.
func (n Notification) IsPrivate() bool {
	return n.To != nil
}

// DrawData is the public payload of a draw: only the count, never the cards.
type DrawData struct {
	Quantity int `json:"quantity"`
}

// AccuseData names the accused player.
type AccuseData struct {
	Target uuid.UUID `json:"target"`
}

// StartTurnData names the new turn holder.
type StartTurnData struct {
	Player uuid.UUID `json:"player"`
	Turn   int       `json:"turn"`
}

// PromptData is the payload of requestPrompt.
type PromptData struct {
	Type   PromptType `json:"type"`
	Player uuid.UUID  `json:"player"`
	Data   int        `json:"data,omitempty"`
}

// EliminateData names the eliminated player.
type EliminateData struct {
	Player uuid.UUID `json:"player"`
}

// Result is one entry of the ranked endGame list. Score is only set for the scoring end conditions.
type Result struct {
	Player uuid.UUID `json:"player"`
	Name   string    `json:"name"`
	Rank   int       `json:"rank"`
	Score  *int      `json:"score,omitempty"`
}

// Project filters an ordered notification list down to what one recipient may see.
// Public notifications pass through; private ones only reach their addressee. Order is preserved.
func Project(notes []Notification, recipient uuid.UUID) []Notification {
	out := make([]Notification, 0, len(notes))
	for _, n := range notes {
		if n.To != nil && *n.To != recipient {
			continue
		}
		out = append(out, n)
	}
	return out
}

func userRef(id uuid.UUID) *uuid.UUID {
	return &id
}

func (g *UnoGame) emit(action Action, data interface{}, user *uuid.UUID) {
	g.pending = append(g.pending, Notification{Action: action, Data: data, User: user})
}

func (g *UnoGame) emitTo(to uuid.UUID, action Action, data interface{}) {
	g.pending = append(g.pending, Notification{Action: action, Data: data, User: userRef(to), To: userRef(to)})
}

// emitHand sends a player their current hand.
func (g *UnoGame) emitHand(idx int) {
	p := g.Players[idx]
	g.emitTo(p.ID, ActionViewHand, append([]models.Card(nil), p.Hand...))
}

func (g *UnoGame) emitPrompt() {
	if len(g.PromptQueue) == 0 {
		return
	}
	head := g.PromptQueue[0]
	g.emit(ActionRequestPrompt, PromptData{
		Type:   head.Type,
		Player: g.Players[head.Player].ID,
		Data:   head.Data,
	}, nil)
}
