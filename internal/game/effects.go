package game

import (
	"github.com/jason-s-yu/uno/internal/models"
)

// resolveEffect applies the effect of a card the current player just played.
func (g *UnoGame) resolveEffect(card models.Card) {
	switch card.Symbol {
	case models.SymbolDraw2, models.SymbolDraw4:
		qty := drawQuantity(card.Symbol)
		next := g.nextPlayerIndex(g.CurrentPlayer, false)
		if g.isCounterPossible() {
			g.StackOrigin = g.CurrentPlayer
			g.StackTop = card.Symbol
			g.PromptQueue = append(g.PromptQueue, Prompt{Type: PromptStackDrawCard, Player: next, Data: qty, Turn: g.TurnID})
		} else {
			g.drawCard(next, qty)
			// an eliminated target has no turn left to lose
			if !g.isEliminated(next) {
				g.TurnsToSkip = 1
			}
		}
	case models.SymbolSkip:
		g.TurnsToSkip = 1
	case models.SymbolReverse:
		g.ClockwiseTurns = !g.ClockwiseTurns
		if g.activePlayerCount() == 2 {
			g.TurnsToSkip = 1
		}
	}

	if card.IsWild() && !g.Finished {
		g.PromptQueue = append(g.PromptQueue, Prompt{Type: PromptChooseColor, Player: g.CurrentPlayer, Turn: g.TurnID})
	}
}

// retargetColorChoice hands any pending color choice to the player who started the stack.
// It reports whether one was pending.
func (g *UnoGame) retargetColorChoice() bool {
	found := false
	for i := range g.PromptQueue {
		if g.PromptQueue[i].Type == PromptChooseColor {
			g.PromptQueue[i].Player = g.StackOrigin
			found = true
		}
	}
	return found
}

// dropColorChoice removes pending color choices behind the queue head.
func (g *UnoGame) dropColorChoice() {
	kept := g.PromptQueue[:1]
	for _, pr := range g.PromptQueue[1:] {
		if pr.Type != PromptChooseColor {
			kept = append(kept, pr)
		}
	}
	g.PromptQueue = kept
}
