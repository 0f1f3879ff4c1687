package repository

import (
	"context"
	"time"

	"marketchat/internal/domain/entity"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	// UpdateStatus applies a delivery-state transition. Backward transitions
	// are ignored rather than applied; an unknown message id is a logged
	// no-op.
	UpdateStatus(ctx context.Context, messageID string, status entity.DeliveryStatus) error
	// MarkManyRead stamps readAt and forces READ on exactly the given ids.
	// Idempotent.
	MarkManyRead(ctx context.Context, messageIDs []string, readAt time.Time) error
	// ListByRoom returns the room's messages ascending by creation time.
	ListByRoom(ctx context.Context, roomID string) ([]*entity.Message, error)
}
