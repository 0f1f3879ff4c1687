package entity

import "time"

// DeliveryStatus is the lifecycle stage of a message. Transitions only move
// forward: SENT -> DELIVERED -> READ.
type DeliveryStatus string

const (
	StatusSent      DeliveryStatus = "SENT"
	StatusDelivered DeliveryStatus = "DELIVERED"
	StatusRead      DeliveryStatus = "READ"
)

const ContentTypeText = "TEXT"

func (s DeliveryStatus) Valid() bool {
	switch s {
	case StatusSent, StatusDelivered, StatusRead:
		return true
	}
	return false
}

func (s DeliveryStatus) rank() int {
	switch s {
	case StatusSent:
		return 0
	case StatusDelivered:
		return 1
	case StatusRead:
		return 2
	}
	return -1
}

// CanTransitionTo reports whether moving from s to next is a forward
// transition. READ is terminal.
func (s DeliveryStatus) CanTransitionTo(next DeliveryStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	return next.rank() > s.rank()
}

// Message is an append-only chat record. Content is immutable after
// creation; only the delivery state and read timestamp ever change.
type Message struct {
	ID             string         `json:"id" firestore:"id"`
	RoomID         string         `json:"room_id" firestore:"roomId"`
	SenderID       string         `json:"sender_id" firestore:"senderId"`
	ReceiverID     string         `json:"receiver_id" firestore:"receiverId"`
	ContentType    string         `json:"content_type" firestore:"contentType"`
	Body           string         `json:"message" firestore:"message"`
	Attachments    []string       `json:"attachments" firestore:"attachments"`
	DeliveryStatus DeliveryStatus `json:"delivery_status" firestore:"deliveryStatus"`
	CreatedAt      time.Time      `json:"created_at" firestore:"createdAt"`
	UpdatedAt      time.Time      `json:"updated_at" firestore:"updatedAt"`
	ReadAt         *time.Time     `json:"read_at,omitempty" firestore:"readAt,omitempty"`
}
