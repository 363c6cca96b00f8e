package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultPlayers(results []Result) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(results))
	for _, r := range results {
		out = append(out, r.Player)
	}
	return out
}

func TestScenarioLastManStanding(t *testing.T) {
	g, _ := setupTestGame(t, 3, withRules(DrawNone, StackingNone, EndLastManStanding))
	rig(g, c("R0"), filler(5), cards("R1"), cards("R2"), cards("G5", "G6"))

	notes := act(t, g, 0, play(0))
	assert.Equal(t, []Action{ActionPlayCard, ActionEliminate, ActionStartTurn}, actions(notes))
	assert.Equal(t, EliminateData{Player: g.Players[0].ID}, notes[1].Data)
	assert.False(t, g.Finished)
	assert.Equal(t, 1, g.CurrentPlayer)

	notes = act(t, g, 1, play(0))
	assert.Equal(t, []Action{ActionPlayCard, ActionEliminate, ActionEndGame}, actions(notes))
	require.True(t, g.Finished)

	require.Len(t, g.Results, 3)
	assert.Equal(t, []uuid.UUID{g.Players[0].ID, g.Players[1].ID, g.Players[2].ID}, resultPlayers(g.Results))
	for i, r := range g.Results {
		assert.Equal(t, i+1, r.Rank)
		assert.Nil(t, r.Score)
	}
	assert.Equal(t, g.Results, notes[2].Data)
}

func TestScoreAfterFirstWin(t *testing.T) {
	g, _ := setupTestGame(t, 3, DefaultHouseRules())
	rig(g, c("R0"), filler(5), cards("R1"), cards("R5", "WC"), cards("G9", "B3"))

	notes := act(t, g, 0, play(0))
	assert.Equal(t, []Action{ActionPlayCard, ActionEndGame}, actions(notes))
	require.True(t, g.Finished)

	require.Len(t, g.Results, 3)
	assert.Equal(t, []uuid.UUID{g.Players[0].ID, g.Players[2].ID, g.Players[1].ID}, resultPlayers(g.Results))
	assert.Equal(t, 0, *g.Results[0].Score)
	assert.Equal(t, 12, *g.Results[1].Score)
	assert.Equal(t, 55, *g.Results[2].Score)
	assert.Equal(t, []int{1, 2, 3}, []int{g.Results[0].Rank, g.Results[1].Rank, g.Results[2].Rank})
}

func TestScoreTiesShareRank(t *testing.T) {
	g, _ := setupTestGame(t, 3, DefaultHouseRules())
	rig(g, c("R0"), filler(5), cards("R1"), cards("G3"), cards("B3"))

	act(t, g, 0, play(0))
	require.Len(t, g.Results, 3)
	assert.Equal(t, 1, g.Results[0].Rank)
	assert.Equal(t, 2, g.Results[1].Rank)
	assert.Equal(t, 2, g.Results[2].Rank)
	assert.Equal(t, g.Players[1].ID, g.Results[1].Player, "ties keep seat order")
}

func TestRedZeroOfDeath(t *testing.T) {
	g, _ := setupTestGame(t, 3, withRules(DrawNone, StackingNone, EndScoreAfterFirstWin, RuleRedZeroOfDeath))
	rig(g, c("R5"), filler(5), cards("R1"), cards("R0"), cards("B0", "B9"))

	act(t, g, 0, play(0))
	require.Len(t, g.Results, 3)
	assert.Equal(t, g.Players[1].ID, g.Results[2].Player)
	assert.Equal(t, 125, *g.Results[2].Score)
	assert.Equal(t, 9, *g.Results[1].Score)
}

func TestMercyElimination(t *testing.T) {
	g, _ := setupTestGame(t, 3, withRules(DrawNone, StackingNone, EndScoreAfterFirstWinMercy))
	rig(g, c("R0"), filler(10), cards("R+2", "G5"), filler(23), cards("Y1", "Y2"))

	notes := act(t, g, 0, play(0))

	assert.Equal(t, []Action{
		ActionPlayCard, ActionDraw, ActionViewHand, ActionEliminate, ActionRefreshDeck, ActionStartTurn,
	}, actions(notes))
	assert.Equal(t, []int{1}, g.EliminatedPlayers)
	assert.Empty(t, g.Players[1].Hand)
	assert.Len(t, g.DrawPile, 33, "the eliminated hand goes back into the draw pile")
	assert.Equal(t, 2, g.CurrentPlayer)
	assert.False(t, g.Finished)

	_, err := g.HandleIntent(g.Players[1].ID, draw())
	assert.ErrorIs(t, err, ErrOutOfTurn)
}

func TestMercyScoringSkipsEliminated(t *testing.T) {
	g, _ := setupTestGame(t, 3, withRules(DrawNone, StackingNone, EndScoreAfterFirstWinMercy))
	rig(g, c("R0"), filler(5), cards("R1"), nil, cards("G5", "G6"))
	g.EliminatedPlayers = []int{1}

	act(t, g, 0, play(0))
	require.True(t, g.Finished)
	assert.Equal(t, []uuid.UUID{g.Players[0].ID, g.Players[2].ID}, resultPlayers(g.Results))
}

func TestMercyEliminationEndsTwoPlayerGame(t *testing.T) {
	g, _ := setupTestGame(t, 2, withRules(DrawNone, StackingNone, EndScoreAfterFirstWinMercy))
	rig(g, c("R0"), filler(10), cards("R+2", "G5"), filler(24))

	notes := act(t, g, 0, play(0))
	assert.Equal(t, ActionEndGame, notes[len(notes)-1].Action)
	require.True(t, g.Finished)
	require.Len(t, g.Results, 1)
	assert.Equal(t, g.Players[0].ID, g.Results[0].Player)
}
