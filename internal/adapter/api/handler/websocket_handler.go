package handler

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/google/uuid"
	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	ws "marketchat/internal/infrastructure/websocket"
	"marketchat/internal/usecase"
	"marketchat/pkg/errors"
	"marketchat/pkg/logger"
)

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Restrict this in production
	},
}

// eventHandler processes one inbound wire event for a client.
type eventHandler func(ctx context.Context, client *ws.Client, data json.RawMessage)

type WebSocketHandler struct {
	manager      *ws.Manager
	connectionUC *usecase.ConnectionUseCase
	chatUC       *usecase.ChatUseCase
	handlers     map[string]eventHandler
}

func NewWebSocketHandler(manager *ws.Manager, connectionUC *usecase.ConnectionUseCase, chatUC *usecase.ChatUseCase) *WebSocketHandler {
	h := &WebSocketHandler{
		manager:      manager,
		connectionUC: connectionUC,
		chatUC:       chatUC,
	}

	// Explicit dispatch table: event name to handler, each wrapped in the
	// guard chain it needs.
	h.handlers = map[string]eventHandler{
		ws.EventSendMessage: h.requireAuth(h.handleSendMessage),
	}

	return h
}

// HandleWebSocket upgrades the connection, runs the authentication
// lifecycle, and pumps events until the peer goes away. A failed token
// check does not drop the socket; the client just stays unauthenticated
// and gets the generic error notification.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	rawToken := c.QueryParam("token")

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return errors.Internal("Failed to upgrade connection", err)
	}

	client := &ws.Client{
		ConnectionID: uuid.New().String(),
		Conn:         conn,
		Send:         make(chan []byte, 256),
	}

	h.manager.Register <- client
	go client.WritePump()

	ctx := c.Request().Context()
	if event, err := h.connectionUC.Connect(ctx, rawToken, client.ConnectionID); err != nil {
		logger.Warn("ws connect failed on %s: %v", client.ConnectionID, err)
		h.sendEvent(client, ws.EventError, ws.ErrorPayload{Message: "Token expired"})
	} else {
		client.UserID = event.UserID
		h.sendEvent(client, ws.EventConnected, ws.ConnectedPayload{
			Message:  "Connected successfully",
			UserID:   event.UserID,
			SocketID: event.ConnectionID,
		})
	}

	client.ReadPump(h.manager, h.receive)

	// The socket is gone; recover the identity from the token and release
	// the presence mapping. An expired token here is routine.
	if event, err := h.connectionUC.Disconnect(context.Background(), rawToken, client.ConnectionID); err != nil {
		logger.Warn("ws disconnect failed on %s: %v", client.ConnectionID, err)
	} else {
		logger.Info("ws disconnected: user %s socket %s", event.UserID, event.ConnectionID)
	}

	return nil
}

func (h *WebSocketHandler) receive(client *ws.Client, payload []byte) {
	var envelope ws.Envelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		logger.Warn("ws: malformed frame from %s: %v", client.ConnectionID, err)
		h.sendEvent(client, ws.EventError, ws.ErrorPayload{Message: "Invalid message format"})
		return
	}

	handle, ok := h.handlers[envelope.Event]
	if !ok {
		logger.Warn("ws: unknown event %q from %s", envelope.Event, client.ConnectionID)
		h.sendEvent(client, ws.EventError, ws.ErrorPayload{Message: "Unknown event"})
		return
	}

	handle(context.Background(), client, envelope.Data)
}

// requireAuth rejects events from connections whose token never verified.
func (h *WebSocketHandler) requireAuth(next eventHandler) eventHandler {
	return func(ctx context.Context, client *ws.Client, data json.RawMessage) {
		if client.UserID == "" {
			h.sendEvent(client, ws.EventError, ws.ErrorPayload{Message: "Token expired"})
			return
		}
		next(ctx, client, data)
	}
}

func (h *WebSocketHandler) handleSendMessage(ctx context.Context, client *ws.Client, data json.RawMessage) {
	var payload ws.SendMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		h.sendEvent(client, ws.EventError, ws.ErrorPayload{Message: "Invalid send_message payload"})
		return
	}

	result, err := h.chatUC.Send(ctx, client.UserID, client.ConnectionID, usecase.SendMessageInput{
		ProductID:   payload.ProductServiceID,
		ReceiverID:  payload.ReceiverID,
		ChatContext: payload.ChatContext,
		Body:        payload.Message,
	})
	if err != nil {
		logger.Warn("ws: send from %s failed: %v", client.UserID, err)
		h.sendEvent(client, ws.EventError, ws.ErrorPayload{Message: errorMessage(err)})
		return
	}

	h.sendEvent(client, ws.EventMessageSent, ws.MessageSentPayload{
		MessageID:      result.Message.ID,
		RoomID:         result.Room.ID,
		DeliveryStatus: string(result.Message.DeliveryStatus),
	})
}

func (h *WebSocketHandler) sendEvent(client *ws.Client, event string, payload interface{}) {
	data, err := ws.Marshal(event, payload)
	if err != nil {
		logger.Error("ws: failed to encode %s event for %s: %v", event, client.ConnectionID, err)
		return
	}
	h.manager.SendToConnection(client.ConnectionID, data)
}

func errorMessage(err error) string {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return "Failed to send message"
}
