package router

import (
	"github.com/labstack/echo/v4"

	"marketchat/internal/adapter/api/handler"
)

// SetupWebSocketRouter registers the realtime endpoint. Authentication
// happens inside the connection lifecycle, not as route middleware, because
// the token travels as a query parameter and a failed check must still
// reach the client as an in-band event.
func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler) {
	e.GET("/ws", wsHandler.HandleWebSocket)
}
