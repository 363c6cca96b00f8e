package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/auth"
	"github.com/jason-s-yu/uno/internal/game"
	"github.com/jason-s-yu/uno/internal/models"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	lobby  models.Lobby
	roster []models.Participant
}

func (f *fakeCatalog) GetLobby(_ context.Context, lobbyID uuid.UUID) (*models.Lobby, error) {
	if lobbyID != f.lobby.ID {
		return nil, errors.New("lobby not found")
	}
	l := f.lobby
	return &l, nil
}

func (f *fakeCatalog) GetLobbyRoster(_ context.Context, _ uuid.UUID) ([]models.Participant, error) {
	return f.roster, nil
}

func (f *fakeCatalog) LoadDeck(_ context.Context, _ uuid.UUID) ([]models.Card, error) {
	return models.StandardDeck(), nil
}

type fakePersistence struct {
	mu       sync.Mutex
	states   map[uuid.UUID][]byte
	versions map[uuid.UUID]int
	results  map[uuid.UUID][]models.GameResult
}

func newFakePersistence() *fakePersistence {
	return &fakePersistence{
		states:   make(map[uuid.UUID][]byte),
		versions: make(map[uuid.UUID]int),
		results:  make(map[uuid.UUID][]models.GameResult),
	}
}

func (f *fakePersistence) SaveGameState(_ context.Context, gameID, _ uuid.UUID, version int, state []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if version <= f.versions[gameID] && f.states[gameID] != nil {
		return nil
	}
	f.states[gameID] = state
	f.versions[gameID] = version
	return nil
}

func (f *fakePersistence) LoadGameState(_ context.Context, gameID uuid.UUID) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.states[gameID]
	if !ok {
		return nil, errors.New("no state")
	}
	return data, nil
}

func (f *fakePersistence) RecordGameResults(_ context.Context, gameID, _ uuid.UUID, results []models.GameResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[gameID] = results
	delete(f.states, gameID)
	return nil
}

func (f *fakePersistence) version(gameID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.versions[gameID]
}

func newTestLobby(players int) *fakeCatalog {
	cat := &fakeCatalog{lobby: models.Lobby{ID: uuid.New()}}
	for i := 0; i < players; i++ {
		cat.roster = append(cat.roster, models.Participant{UserID: uuid.New(), Username: "p", Seat: i})
	}
	cat.lobby.HostUserID = cat.roster[0].UserID
	return cat
}

func newTestServer(t *testing.T, cat *fakeCatalog, store *fakePersistence) *GameServer {
	t.Helper()
	require.NoError(t, auth.Init(""))
	logger, _ := test.NewNullLogger()
	return NewGameServer(logger, cat, store)
}

func TestNewUnoGameFromLobby(t *testing.T) {
	cat := newTestLobby(3)
	cat.lobby.HouseRules = map[string]interface{}{"drawCardStacking": "all"}
	store := newFakePersistence()
	gs := newTestServer(t, cat, store)
	ctx := context.Background()

	_, _, err := gs.NewUnoGameFromLobby(ctx, cat.lobby.ID, cat.roster[1].UserID)
	assert.ErrorIs(t, err, ErrNotHost)

	g, created, err := gs.NewUnoGameFromLobby(ctx, cat.lobby.ID, cat.roster[0].UserID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, game.StackingAll, g.HouseRules.DrawCardStacking)
	assert.Len(t, g.Players, 3)
	assert.Equal(t, 5, store.version(g.ID), "the initial state is committed")

	again, created, err := gs.NewUnoGameFromLobby(ctx, cat.lobby.ID, cat.roster[0].UserID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, g, again)

	_, _, err = gs.NewUnoGameFromLobby(ctx, uuid.New(), cat.roster[0].UserID)
	assert.Error(t, err)
}

func TestNewUnoGameFromLobbyLargeRoster(t *testing.T) {
	cat := newTestLobby(16)
	gs := newTestServer(t, cat, newFakePersistence())

	g, created, err := gs.NewUnoGameFromLobby(context.Background(), cat.lobby.ID, cat.roster[0].UserID)
	require.NoError(t, err)
	assert.True(t, created)
	require.Len(t, g.Players, 16)

	st := g.State(cat.roster[0].UserID)
	assert.Equal(t, 216-16*game.HandSize-1, st.DrawPileSize)
}

func TestNewUnoGameFromLobbyRejectsBadRules(t *testing.T) {
	cat := newTestLobby(2)
	cat.lobby.HouseRules = map[string]interface{}{"draw": "sometimes"}
	gs := newTestServer(t, cat, newFakePersistence())

	_, _, err := gs.NewUnoGameFromLobby(context.Background(), cat.lobby.ID, cat.roster[0].UserID)
	assert.Error(t, err)
	assert.Zero(t, gs.GameStore.Len())
}

func TestLoadGameRestoresCommittedState(t *testing.T) {
	cat := newTestLobby(2)
	store := newFakePersistence()
	gs := newTestServer(t, cat, store)
	ctx := context.Background()

	g, _, err := gs.NewUnoGameFromLobby(ctx, cat.lobby.ID, cat.roster[0].UserID)
	require.NoError(t, err)

	// a second process only has the committed state
	other := newTestServer(t, cat, store)
	restored, ok := other.loadGame(ctx, g.ID)
	require.True(t, ok)
	assert.NotSame(t, g, restored)
	assert.Equal(t, g.ID, restored.ID)
	assert.Equal(t, g.Players[1].Hand, restored.Players[1].Hand)

	again, ok := other.loadGame(ctx, g.ID)
	require.True(t, ok)
	assert.Same(t, restored, again)

	_, ok = other.loadGame(ctx, uuid.New())
	assert.False(t, ok)
}

func TestCommitRecordsFinishedGame(t *testing.T) {
	cat := newTestLobby(2)
	store := newFakePersistence()
	gs := newTestServer(t, cat, store)
	ctx := context.Background()

	g, _, err := gs.NewUnoGameFromLobby(ctx, cat.lobby.ID, cat.roster[0].UserID)
	require.NoError(t, err)

	g.Mu.Lock()
	g.CurrentPlayer = 0
	g.Players[0].Hand = []models.Card{models.NewCard(models.SymbolOne, models.ColorRed)}
	g.DiscardPile = []models.Card{models.NewCard(models.SymbolZero, models.ColorRed)}
	g.Mu.Unlock()

	_, err = g.HandleIntent(g.Players[0].ID, game.Intent{Type: game.IntentPlayCard, HandIndex: 0})
	require.NoError(t, err)
	gs.commit(ctx, g)

	assert.Zero(t, gs.GameStore.Len(), "finished games leave the store")
	store.mu.Lock()
	defer store.mu.Unlock()
	require.Len(t, store.results[g.ID], 2)
	assert.Equal(t, g.Players[0].ID, store.results[g.ID][0].PlayerID)
	assert.Equal(t, 1, store.results[g.ID][0].Rank)
	require.NotNil(t, store.results[g.ID][0].Score)
	assert.Zero(t, *store.results[g.ID][0].Score)
	assert.Nil(t, store.states[g.ID])
}

func TestJoinSkipsFinishedGame(t *testing.T) {
	cat := newTestLobby(2)
	gs := newTestServer(t, cat, newFakePersistence())
	g, _, err := gs.NewUnoGameFromLobby(context.Background(), cat.lobby.ID, cat.roster[0].UserID)
	require.NoError(t, err)

	guest := newGameConnection(cat.roster[1].UserID, func() {})
	require.True(t, gs.join(g, guest))
	assert.Equal(t, 1, gs.Hub.Connections(g.ID))
	first := <-guest.OutChan
	assert.Equal(t, game.ActionSyncState, first.Action)

	g.Mu.Lock()
	g.CurrentPlayer = 0
	g.Players[0].Hand = []models.Card{models.NewCard(models.SymbolOne, models.ColorRed)}
	g.DiscardPile = []models.Card{models.NewCard(models.SymbolZero, models.ColorRed)}
	g.Mu.Unlock()
	_, err = g.HandleIntent(g.Players[0].ID, game.Intent{Type: game.IntentPlayCard, HandIndex: 0})
	require.NoError(t, err)

	// the game has ended but has not been committed yet
	host := newGameConnection(cat.roster[0].UserID, func() {})
	assert.False(t, gs.join(g, host))
	assert.Equal(t, 1, gs.Hub.Connections(g.ID), "the host is not registered")
	select {
	case n := <-host.OutChan:
		t.Fatalf("unexpected %s for a finished game", n.Action)
	default:
	}
}

func postCreate(t *testing.T, h http.Handler, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/game/create", bytes.NewReader(data))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateGameHandler(t *testing.T) {
	cat := newTestLobby(2)
	gs := newTestServer(t, cat, newFakePersistence())
	h := CreateGameHandler(gs)

	hostToken, err := auth.CreateJWT(cat.roster[0].UserID)
	require.NoError(t, err)
	guestToken, err := auth.CreateJWT(cat.roster[1].UserID)
	require.NoError(t, err)

	rec := postCreate(t, h, "", createGameRequest{LobbyID: cat.lobby.ID})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = postCreate(t, h, hostToken, map[string]string{"lobby_id": "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postCreate(t, h, guestToken, createGameRequest{LobbyID: cat.lobby.ID})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = postCreate(t, h, hostToken, createGameRequest{LobbyID: uuid.New()})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = postCreate(t, h, hostToken, createGameRequest{LobbyID: cat.lobby.ID})
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp createGameResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Created)
	assert.Equal(t, cat.lobby.ID, resp.LobbyID)

	rec = postCreate(t, h, hostToken, createGameRequest{LobbyID: cat.lobby.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	var again createGameResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &again))
	assert.Equal(t, resp.GameID, again.GameID)
	assert.False(t, again.Created)

	req := httptest.NewRequest(http.MethodGet, "/game/create", nil)
	getRec := httptest.NewRecorder()
	h.ServeHTTP(getRec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, getRec.Code)
}
