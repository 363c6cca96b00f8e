package game

import (
	"sort"
)

// eliminatePlayer takes a player out of rotation. Any cards they still hold go back into the
// draw pile. The game ends once fewer than two players remain.
func (g *UnoGame) eliminatePlayer(idx int) {
	if g.isEliminated(idx) {
		return
	}
	p := g.Players[idx]
	g.EliminatedPlayers = append(g.EliminatedPlayers, idx)
	p.AnnouncingLastCard = false
	p.Accusable = false
	p.LastDrawn = nil
	g.emit(ActionEliminate, EliminateData{Player: p.ID}, userRef(p.ID))
	g.log.Infof("player %s eliminated (%d/%d)", p.ID, len(g.EliminatedPlayers), len(g.Players))

	if len(p.Hand) > 0 {
		g.DrawPile = append(g.DrawPile, p.Hand...)
		p.Hand = nil
		g.shuffle(g.DrawPile)
		g.emit(ActionRefreshDeck, len(g.DrawPile), nil)
	}

	if g.activePlayerCount() < 2 {
		g.endGame()
	}
}

// endGame finishes the game and ranks the players according to the end condition.
func (g *UnoGame) endGame() {
	if g.Finished {
		return
	}
	g.Finished = true

	switch g.HouseRules.EndCondition {
	case EndLastManStanding:
		g.Results = g.finishingOrder()
	default:
		g.Results = g.scoreResults(g.HouseRules.EndCondition == EndScoreAfterFirstWinMercy)
	}

	g.emit(ActionEndGame, g.Results, nil)
	g.log.WithField("results", len(g.Results)).Info("game finished")
}

// finishingOrder ranks players in the order they went out; whoever still holds cards is last.
func (g *UnoGame) finishingOrder() []Result {
	order := append([]int(nil), g.EliminatedPlayers...)
	for i := range g.Players {
		if !g.isEliminated(i) {
			order = append(order, i)
		}
	}
	results := make([]Result, 0, len(order))
	for rank, idx := range order {
		p := g.Players[idx]
		results = append(results, Result{Player: p.ID, Name: p.Name, Rank: rank + 1})
	}
	return results
}

// scoreResults sums every hand and ranks ascending, lowest first. Equal scores share a rank.
func (g *UnoGame) scoreResults(excludeEliminated bool) []Result {
	redZero := g.HouseRules.Has(RuleRedZeroOfDeath)
	results := make([]Result, 0, len(g.Players))
	for i, p := range g.Players {
		if excludeEliminated && g.isEliminated(i) {
			continue
		}
		score := 0
		for _, c := range p.Hand {
			score += c.Score(redZero)
		}
		s := score
		results = append(results, Result{Player: p.ID, Name: p.Name, Score: &s})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return *results[i].Score < *results[j].Score
	})
	for i := range results {
		if i > 0 && *results[i].Score == *results[i-1].Score {
			results[i].Rank = results[i-1].Rank
		} else {
			results[i].Rank = i + 1
		}
	}
	return results
}
