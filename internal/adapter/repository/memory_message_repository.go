package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"marketchat/internal/domain/entity"
	"marketchat/pkg/logger"
)

type MemoryMessageRepository struct {
	mu       sync.RWMutex
	messages map[string]*entity.Message
	seq      map[string]int // insertion order, tiebreak for equal timestamps
	nextSeq  int
}

func NewMemoryMessageRepository() *MemoryMessageRepository {
	return &MemoryMessageRepository{
		messages: make(map[string]*entity.Message),
		seq:      make(map[string]int),
	}
}

func (r *MemoryMessageRepository) Create(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}

	now := time.Now()
	message.CreatedAt = now
	message.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *message
	r.messages[message.ID] = &cp
	r.seq[message.ID] = r.nextSeq
	r.nextSeq++
	return nil
}

func (r *MemoryMessageRepository) UpdateStatus(ctx context.Context, messageID string, newStatus entity.DeliveryStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	message, ok := r.messages[messageID]
	if !ok {
		logger.Warn("UpdateStatus: message %s not found, skipping", messageID)
		return nil
	}

	if !message.DeliveryStatus.CanTransitionTo(newStatus) {
		logger.Debug("UpdateStatus: ignoring %s -> %s for message %s", message.DeliveryStatus, newStatus, messageID)
		return nil
	}

	message.DeliveryStatus = newStatus
	message.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryMessageRepository) MarkManyRead(ctx context.Context, messageIDs []string, readAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range messageIDs {
		message, ok := r.messages[id]
		if !ok {
			logger.Warn("MarkManyRead: message %s not found, skipping", id)
			continue
		}
		ra := readAt
		message.DeliveryStatus = entity.StatusRead
		message.ReadAt = &ra
		message.UpdatedAt = time.Now()
	}

	return nil
}

func (r *MemoryMessageRepository) ListByRoom(ctx context.Context, roomID string) ([]*entity.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var messages []*entity.Message
	for _, message := range r.messages {
		if message.RoomID == roomID {
			cp := *message
			messages = append(messages, &cp)
		}
	}

	sort.Slice(messages, func(i, j int) bool {
		if messages[i].CreatedAt.Equal(messages[j].CreatedAt) {
			return r.seq[messages[i].ID] < r.seq[messages[j].ID]
		}
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})

	return messages, nil
}
