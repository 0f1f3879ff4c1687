package websocket

import "encoding/json"

// Wire event names. Inbound events arrive as Envelope frames; outbound
// events are built with Marshal.
const (
	EventConnected      = "connected"
	EventDisconnected   = "disconnected"
	EventError          = "error"
	EventSendMessage    = "send_message"
	EventReceiveMessage = "receive_message"
	EventMessageSent    = "message_sent"
)

// Envelope frames every event on the wire.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type ConnectedPayload struct {
	Message  string `json:"message"`
	UserID   string `json:"userId"`
	SocketID string `json:"socketId"`
}

type DisconnectedPayload struct {
	Message  string `json:"message"`
	UserID   string `json:"userId"`
	SocketID string `json:"socketId"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type SendMessagePayload struct {
	ProductServiceID string `json:"productServiceId"`
	ReceiverID       string `json:"receiverId"`
	RoomID           string `json:"roomId,omitempty"`
	ChatContext      string `json:"chatContext"`
	Message          string `json:"message"`
	// ReceiverSocketID selects a target connection on the client side; it is
	// never trusted as an identity. Delivery resolves the receiver through
	// the presence store.
	ReceiverSocketID string `json:"receiverSocketId,omitempty"`
}

type ReceiveMessagePayload struct {
	ProductServiceID string `json:"productServiceId"`
	SenderID         string `json:"senderId"`
	SenderSocketID   string `json:"senderSocketId"`
	RoomID           string `json:"roomId"`
	ChatContext      string `json:"chatContext"`
	Message          string `json:"message"`
	MessageID        string `json:"messageId"`
	DeliveryStatus   string `json:"deliveryStatus"`
}

type MessageSentPayload struct {
	MessageID      string `json:"messageId"`
	RoomID         string `json:"roomId"`
	DeliveryStatus string `json:"deliveryStatus"`
}

// Marshal frames a payload as an outbound event.
func Marshal(event string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}
