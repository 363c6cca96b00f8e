package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameStoreOneGamePerLobby(t *testing.T) {
	s := NewGameStore()
	g1, _ := setupTestGame(t, 2, DefaultHouseRules())
	g2, _ := setupTestGame(t, 2, DefaultHouseRules())
	g2.LobbyID = g1.LobbyID

	got, added := s.AddGame(g1)
	require.True(t, added)
	assert.Same(t, g1, got)

	got, added = s.AddGame(g2)
	assert.False(t, added)
	assert.Same(t, g1, got, "the running game is returned")
	assert.Equal(t, 1, s.Len())

	found, ok := s.GetGame(g1.ID)
	require.True(t, ok)
	assert.Same(t, g1, found)
	assert.Same(t, g1, s.GetGameByLobbyID(g1.LobbyID))
	assert.Nil(t, s.GetGameByLobbyID(uuid.New()))

	s.DeleteGame(g1.ID)
	_, ok = s.GetGame(g1.ID)
	assert.False(t, ok)
	assert.Zero(t, s.Len())
}
