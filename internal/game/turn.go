package game

// nextPlayerIndex walks from the given seat in the turn direction, wrapping around, and
// returns the first seat still holding cards. reverse flips the direction for this lookup only.
// If no other seat holds cards, from is returned.
func (g *UnoGame) nextPlayerIndex(from int, reverse bool) int {
	step := -1
	if g.ClockwiseTurns != reverse {
		step = 1
	}
	n := len(g.Players)
	idx := from
	for i := 0; i < n; i++ {
		idx = ((idx+step)%n + n) % n
		if len(g.Players[idx].Hand) > 0 {
			return idx
		}
	}
	return from
}

// advanceTurn hands the turn on, consuming any pending skips.
func (g *UnoGame) advanceTurn() {
	for _, p := range g.Players {
		p.Accusable = false
	}
	leaving := g.Players[g.CurrentPlayer]
	if len(leaving.Hand) == 1 && !leaving.AnnouncingLastCard {
		leaving.Accusable = true
	}
	leaving.LastDrawn = nil

	for i := 0; i <= g.TurnsToSkip; i++ {
		g.CurrentPlayer = g.nextPlayerIndex(g.CurrentPlayer, false)
	}
	g.TurnsToSkip = 0
	g.TurnID++

	g.emit(ActionStartTurn, StartTurnData{Player: g.Players[g.CurrentPlayer].ID, Turn: g.TurnID}, nil)
	g.emitPrompt()
}

// continueAfterPlay either waits on a prompt the turn holder still owes or ends the turn.
func (g *UnoGame) continueAfterPlay() {
	if g.Finished {
		return
	}
	if len(g.PromptQueue) > 0 && g.PromptQueue[0].Player == g.CurrentPlayer {
		g.emitPrompt()
		return
	}
	g.advanceTurn()
}
