package entity

import "time"

// User is the profile slice this service reads. Profile CRUD is owned by the
// user-management service; here the record matters for presence
// (ConnectionID) and for joining display names into room listings.
type User struct {
	ID        string `json:"id" firestore:"id"`
	FirstName string `json:"first_name" firestore:"firstName"`
	LastName  string `json:"last_name" firestore:"lastName"`
	Email     string `json:"email,omitempty" firestore:"email,omitempty"`

	// ConnectionID is the live websocket connection currently mapped to this
	// user, or empty when offline. Last writer wins.
	ConnectionID string `json:"connection_id,omitempty" firestore:"connectionId,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// DisplayName renders the name shown next to a room summary.
func (u *User) DisplayName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
