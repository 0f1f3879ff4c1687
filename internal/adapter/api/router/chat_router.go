package router

import (
	"github.com/labstack/echo/v4"

	"marketchat/internal/adapter/api/handler"
	"marketchat/internal/adapter/api/middleware"
)

// SetupChatRouter registers the room and message endpoints.
func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, authMiddleware *middleware.AuthMiddleware) {
	roomGroup := e.Group("/v1/rooms")
	roomGroup.Use(authMiddleware.Authenticate)

	roomGroup.GET("", chatHandler.ListRooms)
	roomGroup.GET("/:id/messages", chatHandler.RoomMessages)
	roomGroup.PUT("/:id/read", chatHandler.MarkRead)
}
