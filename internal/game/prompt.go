package game

import (
	"encoding/json"
	"math"

	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/models"
)

// handlePlayerPrompt answers the prompt at the head of the queue.
func (g *UnoGame) handlePlayerPrompt(userID uuid.UUID, answer interface{}) error {
	if len(g.PromptQueue) == 0 {
		return ErrNotPrompted
	}
	head := g.PromptQueue[0]
	if g.Players[head.Player].ID != userID {
		return ErrOutOfTurn
	}

	var err error
	switch head.Type {
	case PromptChooseColor:
		err = g.resolveColorChoice(head, answer)
	case PromptStackDrawCard:
		err = g.resolveStack(head, answer)
	case PromptPlayDrawnCard:
		err = g.resolveDrawnCard(head, answer)
	default:
		err = ErrInvalidAction
	}
	if err != nil {
		return err
	}

	g.PromptQueue = append([]Prompt(nil), g.PromptQueue[1:]...)
	if g.Finished {
		return nil
	}

	// a color choice left over from an earlier turn does not end the current one
	ownsTurn := head.Player == g.CurrentPlayer &&
		!(head.Type == PromptChooseColor && head.Turn != g.TurnID)
	if ownsTurn && (len(g.PromptQueue) == 0 || g.PromptQueue[0].Player != g.CurrentPlayer) {
		g.advanceTurn()
		return nil
	}
	g.emitPrompt()
	return nil
}

func (g *UnoGame) resolveColorChoice(head Prompt, answer interface{}) error {
	s, ok := answer.(string)
	if !ok {
		return ErrInvalidAction
	}
	color, ok := models.ParseColor(s)
	if !ok {
		return ErrInvalidAction
	}
	g.ForcedColor = color
	g.emit(ActionChangeColor, color, userRef(g.Players[head.Player].ID))
	return nil
}

// resolveStack either passes the stack on with a counter card or makes the target draw it.
func (g *UnoGame) resolveStack(head Prompt, answer interface{}) error {
	p := g.Players[head.Player]
	idx, ok := answerIndex(answer)
	if !ok || idx < 0 || idx >= len(p.Hand) || !g.isCounterPossible() {
		g.drawCard(head.Player, head.Data)
		return nil
	}
	card := p.Hand[idx]
	if !g.validateCounter(card) {
		return ErrUnplayableCard
	}

	reverse := card.Symbol == models.SymbolReverse
	target := g.nextPlayerIndex(head.Player, reverse)

	g.playCard(head.Player, idx, false)
	if g.Finished {
		return nil
	}
	if reverse {
		g.ClockwiseTurns = !g.ClockwiseTurns
	}
	if drawQuantity(card.Symbol) > 0 {
		g.StackTop = card.Symbol
	}

	next := Prompt{Type: PromptStackDrawCard, Player: target, Data: head.Data + drawQuantity(card.Symbol), Turn: g.TurnID}
	rest := append([]Prompt{next}, g.PromptQueue[1:]...)
	g.PromptQueue = append(g.PromptQueue[:1], rest...)

	if card.IsWild() {
		if !g.retargetColorChoice() {
			g.PromptQueue = append(g.PromptQueue, Prompt{Type: PromptChooseColor, Player: head.Player, Turn: g.TurnID})
		}
	} else {
		g.dropColorChoice()
	}
	return nil
}

// resolveDrawnCard plays the drawn card or applies the draw rule for declining it.
func (g *UnoGame) resolveDrawnCard(head Prompt, answer interface{}) error {
	play, ok := answer.(bool)
	if !ok {
		return ErrInvalidAction
	}
	p := g.Players[head.Player]
	if play {
		idx := p.drawnIndex()
		if idx < 0 || !g.canPlay(head.Player, p.Hand[idx]) {
			return ErrUnplayableCard
		}
		g.playCard(head.Player, idx, true)
		return nil
	}

	switch g.HouseRules.Draw {
	case DrawPunishment:
		g.drawCard(head.Player, 1)
	case DrawUntilPlay:
		drawn := g.drawCard(head.Player, 1)
		if drawn > 0 && !g.Finished && !g.isEliminated(head.Player) {
			g.offerDrawnCard(head.Player)
		}
	}
	return nil
}

// answerIndex reads a hand index from a decoded answer. JSON numbers arrive as float64.
func answerIndex(answer interface{}) (int, bool) {
	switch v := answer.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}
