package game

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/models"
)

// requestPlayCard plays a card from the actor's hand, in turn or as an interjection.
func (g *UnoGame) requestPlayCard(userID uuid.UUID, handIndex int) error {
	if len(g.PromptQueue) > 0 {
		return ErrWaitingForPrompt
	}
	idx, ok := g.playerIndex(userID)
	if !ok {
		return ErrInvalidAction
	}
	if idx != g.CurrentPlayer && !g.HouseRules.Has(RuleInterjections) {
		return ErrOutOfTurn
	}
	p := g.Players[idx]
	if handIndex < 0 || handIndex >= len(p.Hand) {
		return ErrInvalidAction
	}
	card := p.Hand[handIndex]
	if !g.canPlay(idx, card) {
		return ErrUnplayableCard
	}
	if idx != g.CurrentPlayer {
		if !g.isAbleToInterject(card) {
			return ErrOutOfTurn
		}
		g.log.Debugf("player %s interjects with %s", p.ID, card)
		g.CurrentPlayer = idx
	}

	g.playCard(idx, handIndex, true)
	g.continueAfterPlay()
	return nil
}

// playCard moves a card from a hand onto the discard pile. Callers validate first.
func (g *UnoGame) playCard(playerIdx, handIndex int, triggerEffect bool) models.Card {
	p := g.Players[playerIdx]
	card := p.Hand[handIndex]
	p.Hand = append(p.Hand[:handIndex], p.Hand[handIndex+1:]...)
	g.DiscardPile = append(g.DiscardPile, card)
	g.emit(ActionPlayCard, card, userRef(p.ID))

	if triggerEffect {
		g.resolveEffect(card)
	}
	if g.Finished {
		return card
	}

	if g.ForcedColor != "" {
		g.ForcedColor = ""
		g.emit(ActionChangeColor, nil, nil)
	}

	if len(p.Hand) == 0 {
		if g.HouseRules.EndCondition == EndLastManStanding {
			g.eliminatePlayer(playerIdx)
		} else {
			g.endGame()
		}
	}
	return card
}

// requestCardDraw draws one card for the turn holder and asks whether to play it.
func (g *UnoGame) requestCardDraw(userID uuid.UUID) error {
	idx, ok := g.playerIndex(userID)
	if !ok {
		return ErrInvalidAction
	}
	if idx != g.CurrentPlayer {
		return ErrOutOfTurn
	}
	if len(g.PromptQueue) > 0 {
		return ErrWaitingForPrompt
	}

	drawn := g.drawCard(idx, 1)
	if g.Finished {
		return nil
	}
	if drawn == 0 || g.isEliminated(idx) {
		g.advanceTurn()
		return nil
	}
	g.offerDrawnCard(idx)
	g.emitPrompt()
	return nil
}

// offerDrawnCard remembers the card a player just drew by choice and asks whether to play it.
// Penalty draws never change which card is on offer.
func (g *UnoGame) offerDrawnCard(idx int) {
	p := g.Players[idx]
	card := p.Hand[len(p.Hand)-1]
	p.LastDrawn = &card
	g.PromptQueue = append(g.PromptQueue, Prompt{Type: PromptPlayDrawnCard, Player: idx, Turn: g.TurnID})
}

// drawCard moves up to quantity cards from the draw pile into a hand, recycling the
// discard pile when the draw pile runs dry. It returns how many cards were actually drawn.
func (g *UnoGame) drawCard(playerIdx, quantity int) int {
	p := g.Players[playerIdx]
	drawn := 0
	for i := 0; i < quantity; i++ {
		if len(g.DrawPile) == 0 {
			g.recycleDiscard()
		}
		n := len(g.DrawPile)
		if n == 0 {
			g.log.Warnf("draw pile exhausted, %s drew %d of %d", p.ID, drawn, quantity)
			break
		}
		card := g.DrawPile[n-1]
		g.DrawPile = g.DrawPile[:n-1]
		p.Hand = append(p.Hand, card)
		drawn++
	}

	g.emit(ActionDraw, DrawData{Quantity: drawn}, userRef(p.ID))
	if drawn == 0 {
		return 0
	}
	g.emitHand(playerIdx)

	if p.AnnouncingLastCard {
		p.AnnouncingLastCard = false
		g.emit(ActionLastCard, false, userRef(p.ID))
	}
	if g.HouseRules.EndCondition == EndScoreAfterFirstWinMercy && len(p.Hand) >= MercyHandLimit {
		g.eliminatePlayer(playerIdx)
	}
	return drawn
}

// recycleDiscard turns everything but the discard top into a fresh draw pile.
func (g *UnoGame) recycleDiscard() {
	n := len(g.DiscardPile)
	if n <= 1 {
		return
	}
	top := g.DiscardPile[n-1]
	g.DrawPile = append(g.DrawPile, g.DiscardPile[:n-1]...)
	g.DiscardPile = []models.Card{top}
	g.shuffle(g.DrawPile)
	g.emit(ActionRefreshDeck, len(g.DrawPile), nil)
}

// announceLastCard records the "last card" call of a turn holder about to play down to one card.
func (g *UnoGame) announceLastCard(userID uuid.UUID) error {
	idx, ok := g.playerIndex(userID)
	if !ok {
		return ErrInvalidAction
	}
	if idx != g.CurrentPlayer {
		return ErrOutOfTurn
	}
	p := g.Players[idx]
	if len(p.Hand) != 2 || p.AnnouncingLastCard || !g.hasPlayableCard(idx) {
		return ErrConditionsNotMet
	}
	p.AnnouncingLastCard = true
	g.emit(ActionLastCard, true, userRef(p.ID))
	return nil
}

// accuse penalizes a player who ended their turn on one card without announcing it.
func (g *UnoGame) accuse(userID, target uuid.UUID) error {
	idx, ok := g.playerIndex(userID)
	if !ok {
		return ErrInvalidAction
	}
	t, ok := g.playerIndex(target)
	if !ok || t == idx {
		return ErrInvalidAction
	}
	if !g.Players[t].Accusable {
		return ErrConditionsNotMet
	}
	g.Players[t].Accusable = false
	g.emit(ActionAccuse, AccuseData{Target: target}, userRef(userID))
	g.drawCard(t, 2)
	return nil
}

func (g *UnoGame) viewHand(userID uuid.UUID) error {
	idx, ok := g.playerIndex(userID)
	if !ok {
		return ErrInvalidAction
	}
	g.emitHand(idx)
	return nil
}
