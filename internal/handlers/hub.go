// internal/handlers/hub.go
package handlers

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/game"
	"github.com/sirupsen/logrus"
)

// outBufferSize bounds how far a connection may fall behind before it is dropped.
const outBufferSize = 64

// GameConnection is one player's socket in one game. Everything sent to the player goes
// through OutChan and is written by a single writePump, so order is preserved.
type GameConnection struct {
	UserID  uuid.UUID
	OutChan chan game.Notification
	Cancel  context.CancelFunc

	closeOnce sync.Once
}

func newGameConnection(userID uuid.UUID, cancel context.CancelFunc) *GameConnection {
	return &GameConnection{
		UserID:  userID,
		OutChan: make(chan game.Notification, outBufferSize),
		Cancel:  cancel,
	}
}

// close stops accepting messages; the writer drains what is queued and exits.
func (c *GameConnection) close() {
	c.closeOnce.Do(func() { close(c.OutChan) })
}

// Hub tracks the open game connections and fans projected notifications out to them.
type Hub struct {
	mu     sync.Mutex
	games  map[uuid.UUID]map[uuid.UUID]*GameConnection
	logger logrus.FieldLogger
}

func NewHub(logger logrus.FieldLogger) *Hub {
	return &Hub{
		games:  make(map[uuid.UUID]map[uuid.UUID]*GameConnection),
		logger: logger,
	}
}

// Register adds a connection for a player, queueing first ahead of anything delivered later.
// An older connection of the same player is closed.
func (h *Hub) Register(gameID uuid.UUID, conn *GameConnection, first ...game.Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, n := range first {
		h.send(conn, n)
	}
	conns, ok := h.games[gameID]
	if !ok {
		conns = make(map[uuid.UUID]*GameConnection)
		h.games[gameID] = conns
	}
	if old, exists := conns[conn.UserID]; exists && old != conn {
		h.logger.Infof("player %s reconnected to game %s, dropping previous connection", conn.UserID, gameID)
		old.close()
		old.Cancel()
	}
	conns[conn.UserID] = conn
}

// Unregister removes a connection if it is still the player's current one.
func (h *Hub) Unregister(gameID uuid.UUID, conn *GameConnection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.games[gameID]
	if !ok {
		return
	}
	if cur, exists := conns[conn.UserID]; exists && cur == conn {
		delete(conns, conn.UserID)
		conn.close()
	}
	if len(conns) == 0 {
		delete(h.games, gameID)
	}
}

// Deliver sends every recipient its projection of the notifications. It never blocks:
// a connection whose buffer is full is dropped and has to reconnect for a fresh syncState.
func (h *Hub) Deliver(gameID uuid.UUID, notes []game.Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, conn := range h.games[gameID] {
		for _, n := range game.Project(notes, userID) {
			if !h.send(conn, n) {
				h.logger.Warnf("player %s in game %s is too slow, dropping connection", userID, gameID)
				delete(h.games[gameID], userID)
				conn.close()
				conn.Cancel()
				break
			}
		}
	}
}

// SendTo queues a message for one player.
func (h *Hub) SendTo(gameID, userID uuid.UUID, n game.Notification) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	conn, ok := h.games[gameID][userID]
	if !ok {
		return false
	}
	return h.send(conn, n)
}

func (h *Hub) send(conn *GameConnection, n game.Notification) bool {
	select {
	case conn.OutChan <- n:
		return true
	default:
		return false
	}
}

// CloseGame closes every connection of a game once their queued messages are written.
func (h *Hub) CloseGame(gameID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, conn := range h.games[gameID] {
		conn.close()
	}
	delete(h.games, gameID)
}

// Connections returns how many players of a game are connected.
func (h *Hub) Connections(gameID uuid.UUID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.games[gameID])
}

// writePump writes queued messages in order and pings the client periodically.
func writePump(ctx context.Context, c *websocket.Conn, conn *GameConnection, logger logrus.FieldLogger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-conn.OutChan:
			if !ok {
				c.Close(websocket.StatusNormalClosure, "game over")
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				logger.Warnf("failed to marshal %s for player %v: %v", msg.Action, conn.UserID, err)
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logger.Warnf("failed to write to websocket for player %v: %v", conn.UserID, err)
				conn.Cancel()
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				logger.Warnf("failed to ping player %v: %v, assuming disconnect", conn.UserID, err)
				conn.Cancel()
				return
			}
		}
	}
}
