package handler

import (
	"github.com/labstack/echo/v4"

	"marketchat/internal/usecase"
	"marketchat/pkg/response"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type markReadRequest struct {
	MessageIDs []string `json:"message_ids" validate:"required,min=1"`
}

// ListRooms returns the authenticated user's rooms, oldest-updated first.
func (h *ChatHandler) ListRooms(c echo.Context) error {
	userID := c.Get("uid").(string)

	rooms, err := h.chatUseCase.ListRooms(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, rooms)
}

// RoomMessages returns a room's messages in creation order. Fetching also
// settles delivery for messages the caller had not received live.
func (h *ChatHandler) RoomMessages(c echo.Context) error {
	roomID := c.Param("id")
	userID := c.Get("uid").(string)

	messages, err := h.chatUseCase.RoomMessages(c.Request().Context(), userID, roomID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

// MarkRead stamps the listed messages READ.
func (h *ChatHandler) MarkRead(c echo.Context) error {
	roomID := c.Param("id")
	userID := c.Get("uid").(string)

	var req markReadRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.chatUseCase.MarkMessagesRead(c.Request().Context(), userID, roomID, req.MessageIDs); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "read"})
}
