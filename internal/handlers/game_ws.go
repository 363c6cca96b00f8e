// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/game"
	"github.com/jason-s-yu/uno/internal/middleware"
	"github.com/sirupsen/logrus"
)

// IntentMessage is an incoming WebSocket message during a game.
type IntentMessage struct {
	Type string `json:"type"`

	// Index is the hand slot for playCard.
	Index int `json:"index"`

	// Answer is the prompt answer: a color string, a hand index or a boolean.
	Answer interface{} `json:"answer,omitempty"`

	// Target is the accused player for accuse.
	Target string `json:"target,omitempty"`
}

func (m IntentMessage) intent() game.Intent {
	in := game.Intent{
		Type:      game.IntentType(m.Type),
		HandIndex: m.Index,
		Answer:    m.Answer,
	}
	if m.Target != "" {
		if id, err := uuid.Parse(m.Target); err == nil {
			in.Target = id
		}
	}
	return in
}

// GameWSHandler upgrades the HTTP connection to WebSocket for a specific game instance.
// It authenticates the user, verifies they hold a seat, sends them a syncState and then
// applies their intents one message at a time.
func GameWSHandler(logger *logrus.Logger, gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pathParts := strings.Split(strings.TrimPrefix(r.URL.Path, "/game/ws/"), "/")
		if len(pathParts) < 1 || pathParts[0] == "" {
			http.Error(w, "Missing game_id in path (/game/ws/{game_id})", http.StatusBadRequest)
			return
		}
		gameID, err := uuid.Parse(pathParts[0])
		if err != nil {
			http.Error(w, "Invalid game_id format", http.StatusBadRequest)
			return
		}

		g, ok := gs.loadGame(r.Context(), gameID)
		if !ok {
			http.Error(w, "Game not found", http.StatusNotFound)
			return
		}
		if g.IsFinished() {
			http.Error(w, "Game has already ended", http.StatusGone)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"game"},
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			logger.Warnf("WebSocket accept error for game %s: %v", gameID, err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "Internal server error during handler exit.")

		if c.Subprotocol() != "game" {
			c.Close(BadSubprotocolError, "Client must use the 'game' subprotocol.")
			return
		}

		userID, err := authenticateRequest(r)
		if err != nil {
			logger.Warnf("authentication failed for game %s: %v", gameID, err)
			c.Close(InvalidAuthTokenError, "Authentication failed.")
			return
		}
		if !g.HasPlayer(userID) {
			logger.Warnf("user %s is not a player in game %s", userID, gameID)
			c.Close(NotInGameError, "You are not a player in this game.")
			return
		}
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		conn := newGameConnection(userID, cancel)

		if !gs.join(g, conn) {
			c.Close(GameFinishedError, "Game has already ended.")
			return
		}

		go writePump(ctx, c, conn, logger.WithFields(logrus.Fields{"game": gameID, "user": userID}))

		err = readGameMessages(ctx, c, gs, g, conn, logger)

		gs.Hub.Unregister(gameID, conn)
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, err)
	}
}

// readGameMessages reads intents until the connection closes. Each intent is applied under
// the game lock; its notifications reach every connection through the hub.
func readGameMessages(ctx context.Context, c *websocket.Conn, gs *GameServer, g *game.UnoGame, conn *GameConnection, logger *logrus.Logger) error {
	log := logger.WithFields(logrus.Fields{"game": g.ID, "user": conn.UserID})
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if msgType != websocket.MessageText {
			log.Warnf("ignoring non-text message type %d", msgType)
			continue
		}

		var msg IntentMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Warnf("invalid JSON received: %v", err)
			gs.Hub.SendTo(g.ID, conn.UserID, game.Notification{Action: game.ActionError, Data: string(game.ErrInvalidAction)})
			continue
		}

		if msg.Type == "ping" {
			gs.Hub.SendTo(g.ID, conn.UserID, game.Notification{Action: "pong"})
			continue
		}

		log.Debugf("received %s", msg.Type)
		if _, err := g.HandleIntent(conn.UserID, msg.intent()); err != nil {
			// already reported to the player as an error notification
			continue
		}
		gs.commit(ctx, g)
	}
}
