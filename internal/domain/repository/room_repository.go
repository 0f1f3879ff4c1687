package repository

import (
	"context"

	"marketchat/internal/domain/entity"
)

type RoomRepository interface {
	// GetByParticipants is an exact-direction lookup; callers needing
	// direction-agnostic matching probe both orderings.
	GetByParticipants(ctx context.Context, senderID, receiverID, productID string) (*entity.Room, error)
	GetByID(ctx context.Context, id string) (*entity.Room, error)
	// Create inserts unconditionally; duplicate-room prevention is the
	// caller's check-then-create responsibility.
	Create(ctx context.Context, room *entity.Room) error
	UpdateLatestMessage(ctx context.Context, roomID, summary string) error
	// ListByUserID returns every room the user participates in, ascending by
	// last-update time.
	ListByUserID(ctx context.Context, userID string) ([]*entity.Room, error)
}
