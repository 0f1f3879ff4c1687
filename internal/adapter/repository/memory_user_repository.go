package repository

import (
	"context"
	"sync"
	"time"

	"marketchat/internal/domain/entity"
	"marketchat/pkg/errors"
)

type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*entity.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[string]*entity.User),
	}
}

// Seed loads fixture users into the store.
func (r *MemoryUserRepository) Seed(users ...*entity.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range users {
		cp := *user
		r.users[user.ID] = &cp
	}
}

func (r *MemoryUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	cp := *user
	return &cp, nil
}

func (r *MemoryUserRepository) GetMany(ctx context.Context, ids []string) (map[string]*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make(map[string]*entity.User, len(ids))
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			cp := *user
			users[id] = &cp
		}
	}
	return users, nil
}

func (r *MemoryUserRepository) UpdateConnectionID(ctx context.Context, userID, connectionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return errors.NotFound("User", nil)
	}

	user.ConnectionID = connectionID
	user.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryUserRepository) ClearConnectionID(ctx context.Context, userID, connectionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return errors.NotFound("User", nil)
	}

	if user.ConnectionID != connectionID {
		return nil
	}

	user.ConnectionID = ""
	user.UpdatedAt = time.Now()
	return nil
}
