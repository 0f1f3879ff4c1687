package repository

import (
	"context"

	"marketchat/internal/domain/entity"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetMany(ctx context.Context, ids []string) (map[string]*entity.User, error)
	// UpdateConnectionID maps the user to a live connection. Last writer wins.
	UpdateConnectionID(ctx context.Context, userID, connectionID string) error
	// ClearConnectionID removes the mapping only while it still points at
	// connectionID, so a delayed disconnect cannot clobber a newer session.
	ClearConnectionID(ctx context.Context, userID, connectionID string) error
}
