// internal/handlers/ws_codes.go
package handlers

import "github.com/coder/websocket"

// Custom WebSocket close codes used within the game handlers.
const (
	BadSubprotocolError   websocket.StatusCode = 3000 // Client connected with an unsupported subprotocol.
	InvalidAuthTokenError websocket.StatusCode = 3001 // Provided auth token was invalid or expired.
	NotInGameError        websocket.StatusCode = 3002 // Authenticated user holds no seat in the game.
	GameFinishedError     websocket.StatusCode = 3003 // The game ended before the connection joined it.
)
