package game

import (
	"github.com/jason-s-yu/uno/internal/models"
)

func (g *UnoGame) topCard() models.Card {
	return g.DiscardPile[len(g.DiscardPile)-1]
}

// activeColor is the color the next play has to follow.
func (g *UnoGame) activeColor() models.CardColor {
	if g.ForcedColor != "" {
		return g.ForcedColor
	}
	return g.topCard().Color
}

// isCardPlayable checks a card against the discard top and any forced color.
func (g *UnoGame) isCardPlayable(card models.Card) bool {
	if card.IsWild() {
		return true
	}
	if g.ForcedColor != "" {
		return card.Color == g.ForcedColor
	}
	top := g.topCard()
	return card.Color == top.Color || card.Symbol == top.Symbol
}

// isAbleToInterject reports whether the card may be played out of turn: it has to be an
// exact copy of the discard top.
func (g *UnoGame) isAbleToInterject(card models.Card) bool {
	if !g.HouseRules.Has(RuleInterjections) || card.IsWild() {
		return false
	}
	top := g.topCard()
	return card.Symbol == top.Symbol && card.Color == top.Color
}

// isCounterPossible reports whether draw effects become a stackDrawCard prompt.
func (g *UnoGame) isCounterPossible() bool {
	return g.HouseRules.DrawCardStacking != StackingNone ||
		g.HouseRules.Has(RuleReverseCounter) ||
		g.HouseRules.Has(RuleSkipCounter)
}

// violatesRestrictedDraw4 reports whether a draw-4 is being played while the player still
// holds another card of the active color.
func (g *UnoGame) violatesRestrictedDraw4(playerIdx int, card models.Card) bool {
	if card.Symbol != models.SymbolDraw4 || !g.HouseRules.Has(RuleRestrictedDraw4) {
		return false
	}
	color := g.activeColor()
	for _, c := range g.Players[playerIdx].Hand {
		if c.ID != card.ID && !c.IsWild() && c.Color == color {
			return true
		}
	}
	return false
}

// canPlay is the full check for a normal play by the given player.
func (g *UnoGame) canPlay(playerIdx int, card models.Card) bool {
	return g.isCardPlayable(card) && !g.violatesRestrictedDraw4(playerIdx, card)
}

func (g *UnoGame) hasPlayableCard(playerIdx int) bool {
	for _, c := range g.Players[playerIdx].Hand {
		if g.canPlay(playerIdx, c) {
			return true
		}
	}
	return false
}

// validateCounter checks whether a card may be put on the running draw stack.
func (g *UnoGame) validateCounter(card models.Card) bool {
	switch card.Symbol {
	case models.SymbolDraw2, models.SymbolDraw4:
		switch g.HouseRules.DrawCardStacking {
		case StackingFlat:
			return card.Symbol == g.StackTop
		case StackingProgressive:
			return !(card.Symbol == models.SymbolDraw2 && g.StackTop == models.SymbolDraw4)
		case StackingAll:
			return true
		}
		return false
	case models.SymbolReverse:
		return g.HouseRules.Has(RuleReverseCounter) && g.counterColorMatches(card)
	case models.SymbolSkip:
		return g.HouseRules.Has(RuleSkipCounter) && g.counterColorMatches(card)
	}
	return false
}

// counterColorMatches follows the active color. A wild draw-4 whose color is not chosen
// yet accepts any color.
func (g *UnoGame) counterColorMatches(card models.Card) bool {
	if g.ForcedColor == "" && g.topCard().IsWild() {
		return true
	}
	return g.isCardPlayable(card)
}

func drawQuantity(s models.CardSymbol) int {
	switch s {
	case models.SymbolDraw2:
		return 2
	case models.SymbolDraw4:
		return 4
	}
	return 0
}
