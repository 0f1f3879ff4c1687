package entity

import "time"

// Room groups every message exchanged between a sender/receiver pair about
// one product. Created on the first message of the conversation; the latest
// message body is denormalized onto it for room listings.
type Room struct {
	ID            string    `json:"id" firestore:"id"`
	SenderID      string    `json:"sender_id" firestore:"senderId"`
	ReceiverID    string    `json:"receiver_id" firestore:"receiverId"`
	ProductID     string    `json:"product_id" firestore:"productId"`
	ChatContext   string    `json:"chat_context" firestore:"chatContext"`
	LatestMessage string    `json:"latest_message" firestore:"latestMessage"`
	CreatedAt     time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt     time.Time `json:"updated_at" firestore:"updatedAt"`
}

// HasParticipant reports whether the user is one of the two room members.
func (r *Room) HasParticipant(userID string) bool {
	return r.SenderID == userID || r.ReceiverID == userID
}

// Counterpart returns the other participant of the room.
func (r *Room) Counterpart(userID string) string {
	if r.SenderID == userID {
		return r.ReceiverID
	}
	return r.SenderID
}

// RoomSummary is the room-list projection: the room joined with the display
// names of both participants and the product's image URLs.
type RoomSummary struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	ProductImages []string  `json:"product_images"`
	ChatContext   string    `json:"chat_context"`
	LatestMessage string    `json:"latest_message"`
	SenderID      string    `json:"sender_id"`
	SenderName    string    `json:"sender_name"`
	ReceiverID    string    `json:"receiver_id"`
	ReceiverName  string    `json:"receiver_name"`
	UpdatedAt     time.Time `json:"updated_at"`
}
