package repository

import (
	"context"
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

type firestoreMessageRepository struct {
	client *firestore.Client
}

func NewFirestoreMessageRepository(client *firestore.Client) repository.MessageRepository {
	return &firestoreMessageRepository{
		client: client,
	}
}

func (r *firestoreMessageRepository) Create(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}

	now := time.Now()
	message.CreatedAt = now
	message.UpdatedAt = now

	_, err := r.client.Collection("messages").Doc(message.ID).Set(ctx, message)
	if err != nil {
		return errors.Internal("Failed to create message", err)
	}

	return nil
}

func (r *firestoreMessageRepository) UpdateStatus(ctx context.Context, messageID string, newStatus entity.DeliveryStatus) error {
	docRef := r.client.Collection("messages").Doc(messageID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			return err
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			return err
		}

		if !message.DeliveryStatus.CanTransitionTo(newStatus) {
			// Backward transitions are ignored rather than applied.
			logger.Debug("UpdateStatus: ignoring %s -> %s for message %s", message.DeliveryStatus, newStatus, messageID)
			return nil
		}

		return tx.Update(docRef, []firestore.Update{
			{Path: "deliveryStatus", Value: newStatus},
			{Path: "updatedAt", Value: time.Now()},
		})
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			logger.Warn("UpdateStatus: message %s not found, skipping", messageID)
			return nil
		}
		return errors.Internal("Failed to update message status", err)
	}

	return nil
}

func (r *firestoreMessageRepository) MarkManyRead(ctx context.Context, messageIDs []string, readAt time.Time) error {
	for _, id := range messageIDs {
		_, err := r.client.Collection("messages").Doc(id).Update(ctx, []firestore.Update{
			{Path: "deliveryStatus", Value: entity.StatusRead},
			{Path: "readAt", Value: readAt},
			{Path: "updatedAt", Value: time.Now()},
		})
		if err != nil {
			if status.Code(err) == codes.NotFound {
				logger.Warn("MarkManyRead: message %s not found, skipping", id)
				continue
			}
			return errors.Internal("Failed to mark message as read", err)
		}
	}

	return nil
}

func (r *firestoreMessageRepository) ListByRoom(ctx context.Context, roomID string) ([]*entity.Message, error) {
	query := r.client.Collection("messages").
		Where("roomId", "==", roomID).
		OrderBy("createdAt", firestore.Asc)

	iter := query.Documents(ctx)
	var messages []*entity.Message

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.Error("Firestore error while iterating messages for room %s: %v", roomID, err)
			return nil, errors.Internal("Failed to list messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			logger.Error("Error parsing message data for room %s: %v", roomID, err)
			return nil, errors.Internal("Failed to parse message data", err)
		}

		messages = append(messages, &message)
	}

	return messages, nil
}
