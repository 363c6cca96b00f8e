package game

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestProjectHidesOtherPlayersPrivateNotes(t *testing.T) {
	alice, bob := uuid.New(), uuid.New()
	notes := []Notification{
		{Action: ActionDraw, Data: DrawData{Quantity: 1}, User: &alice},
		{Action: ActionViewHand, Data: "alice's hand", User: &alice, To: &alice},
		{Action: ActionViewHand, Data: "bob's hand", User: &bob, To: &bob},
		{Action: ActionStartTurn, Data: StartTurnData{Player: bob, Turn: 1}},
	}

	forAlice := Project(notes, alice)
	assert.Equal(t, []Action{ActionDraw, ActionViewHand, ActionStartTurn}, actions(forAlice))
	assert.Equal(t, "alice's hand", forAlice[1].Data)

	forBob := Project(notes, bob)
	assert.Equal(t, "bob's hand", forBob[1].Data)

	forSpectator := Project(notes, uuid.New())
	assert.Equal(t, []Action{ActionDraw, ActionStartTurn}, actions(forSpectator))
}

func TestGameProjectionKeepsHandsPrivate(t *testing.T) {
	g, _ := setupTestGame(t, 3, DefaultHouseRules())
	rig(g, c("R0"), filler(5), cards("R1", "G7"), cards("B1", "B2"), cards("Y1", "Y2"))
	act(t, g, 0, play(0))

	notes := act(t, g, 2, Intent{Type: IntentAccuse, Target: g.Players[0].ID})
	for _, n := range Project(notes, g.Players[1].ID) {
		assert.NotEqual(t, ActionViewHand, n.Action)
	}
	assert.Len(t, Project(notes, g.Players[0].ID), 3)
}

func TestPrivateNotificationOmitsRecipientInJSON(t *testing.T) {
	id := uuid.New()
	n := Notification{Action: ActionViewHand, Data: []string{}, User: &id, To: &id}
	data, err := json.Marshal(n)
	assert.NoError(t, err)
	assert.NotContains(t, string(data), "\"to\"")
	assert.Contains(t, string(data), "\"user\"")
}
