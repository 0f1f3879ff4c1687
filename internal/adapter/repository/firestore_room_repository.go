package repository

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"marketchat/internal/domain/entity"
	"marketchat/internal/domain/repository"
	"marketchat/pkg/errors"
	"marketchat/pkg/logger"
)

type firestoreRoomRepository struct {
	client *firestore.Client
}

func NewFirestoreRoomRepository(client *firestore.Client) repository.RoomRepository {
	return &firestoreRoomRepository{
		client: client,
	}
}

func (r *firestoreRoomRepository) GetByParticipants(ctx context.Context, senderID, receiverID, productID string) (*entity.Room, error) {
	query := r.client.Collection("rooms").
		Where("senderId", "==", senderID).
		Where("receiverId", "==", receiverID).
		Where("productId", "==", productID).
		Limit(1)

	iter := query.Documents(ctx)
	doc, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("Room", nil)
		}
		return nil, errors.Internal("Failed to query room", err)
	}

	var room entity.Room
	if err := doc.DataTo(&room); err != nil {
		return nil, errors.Internal("Failed to parse room data", err)
	}

	return &room, nil
}

func (r *firestoreRoomRepository) GetByID(ctx context.Context, id string) (*entity.Room, error) {
	doc, err := r.client.Collection("rooms").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Room", nil)
		}
		return nil, errors.Internal("Failed to get room", err)
	}

	var room entity.Room
	if err := doc.DataTo(&room); err != nil {
		return nil, errors.Internal("Failed to parse room data", err)
	}

	return &room, nil
}

func (r *firestoreRoomRepository) Create(ctx context.Context, room *entity.Room) error {
	if room.ID == "" {
		room.ID = uuid.New().String()
	}

	now := time.Now()
	room.CreatedAt = now
	room.UpdatedAt = now

	_, err := r.client.Collection("rooms").Doc(room.ID).Set(ctx, room)
	if err != nil {
		return errors.Internal("Failed to create room", err)
	}

	return nil
}

func (r *firestoreRoomRepository) UpdateLatestMessage(ctx context.Context, roomID, summary string) error {
	_, err := r.client.Collection("rooms").Doc(roomID).Update(ctx, []firestore.Update{
		{Path: "latestMessage", Value: summary},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			// Unknown room id is recorded, not fatal.
			logger.Warn("UpdateLatestMessage: room %s not found, skipping summary update", roomID)
			return nil
		}
		return errors.Internal("Failed to update room summary", err)
	}

	return nil
}

func (r *firestoreRoomRepository) ListByUserID(ctx context.Context, userID string) ([]*entity.Room, error) {
	var rooms []*entity.Room

	// The schema stores the pair directionally, so a user's rooms are the
	// union of both sides.
	for _, field := range []string{"senderId", "receiverId"} {
		iter := r.client.Collection("rooms").Where(field, "==", userID).Documents(ctx)
		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				logger.Error("Firestore error while listing rooms for user %s: %v", userID, err)
				return nil, errors.Internal("Failed to list rooms", err)
			}

			var room entity.Room
			if err := doc.DataTo(&room); err != nil {
				logger.Error("Error parsing room data for user %s: %v", userID, err)
				continue
			}
			rooms = append(rooms, &room)
		}
	}

	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].UpdatedAt.Before(rooms[j].UpdatedAt)
	})

	return rooms, nil
}
