package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"marketchat/internal/domain/entity"
	"marketchat/pkg/errors"
	"marketchat/pkg/logger"
)

// MemoryRoomRepository is the deterministic in-process counterpart of the
// Firestore store, used in tests and local development.
type MemoryRoomRepository struct {
	mu    sync.RWMutex
	rooms map[string]*entity.Room
}

func NewMemoryRoomRepository() *MemoryRoomRepository {
	return &MemoryRoomRepository{
		rooms: make(map[string]*entity.Room),
	}
}

func (r *MemoryRoomRepository) GetByParticipants(ctx context.Context, senderID, receiverID, productID string) (*entity.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, room := range r.rooms {
		if room.SenderID == senderID && room.ReceiverID == receiverID && room.ProductID == productID {
			cp := *room
			return &cp, nil
		}
	}
	return nil, errors.NotFound("Room", nil)
}

func (r *MemoryRoomRepository) GetByID(ctx context.Context, id string) (*entity.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[id]
	if !ok {
		return nil, errors.NotFound("Room", nil)
	}
	cp := *room
	return &cp, nil
}

func (r *MemoryRoomRepository) Create(ctx context.Context, room *entity.Room) error {
	if room.ID == "" {
		room.ID = uuid.New().String()
	}

	now := time.Now()
	room.CreatedAt = now
	room.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *room
	r.rooms[room.ID] = &cp
	return nil
}

func (r *MemoryRoomRepository) UpdateLatestMessage(ctx context.Context, roomID, summary string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		logger.Warn("UpdateLatestMessage: room %s not found, skipping summary update", roomID)
		return nil
	}

	room.LatestMessage = summary
	room.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryRoomRepository) ListByUserID(ctx context.Context, userID string) ([]*entity.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var rooms []*entity.Room
	for _, room := range r.rooms {
		if room.HasParticipant(userID) {
			cp := *room
			rooms = append(rooms, &cp)
		}
	}

	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].UpdatedAt.Before(rooms[j].UpdatedAt)
	})

	return rooms, nil
}
