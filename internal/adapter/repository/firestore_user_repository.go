package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"marketchat/internal/domain/entity"
	"marketchat/internal/domain/repository"
	"marketchat/pkg/errors"
	"marketchat/pkg/logger"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.client.Collection("users").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("User", nil)
		}
		return nil, errors.Internal("Failed to get user", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}

	return &user, nil
}

func (r *firestoreUserRepository) GetMany(ctx context.Context, ids []string) (map[string]*entity.User, error) {
	users := make(map[string]*entity.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, r.client.Collection("users").Doc(id))
	}

	docs, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, errors.Internal("Failed to fetch users", err)
	}

	for _, doc := range docs {
		if !doc.Exists() {
			continue
		}
		var user entity.User
		if err := doc.DataTo(&user); err != nil {
			logger.Error("Error parsing user data for %s: %v", doc.Ref.ID, err)
			continue
		}
		users[user.ID] = &user
	}

	return users, nil
}

func (r *firestoreUserRepository) UpdateConnectionID(ctx context.Context, userID, connectionID string) error {
	_, err := r.client.Collection("users").Doc(userID).Update(ctx, []firestore.Update{
		{Path: "connectionId", Value: connectionID},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("User", nil)
		}
		return errors.Internal("Failed to update connection id", err)
	}

	return nil
}

func (r *firestoreUserRepository) ClearConnectionID(ctx context.Context, userID, connectionID string) error {
	docRef := r.client.Collection("users").Doc(userID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			return err
		}

		var user entity.User
		if err := doc.DataTo(&user); err != nil {
			return err
		}

		// A newer connection may already own the mapping; a delayed
		// disconnect must not clear it.
		if user.ConnectionID != connectionID {
			return nil
		}

		return tx.Update(docRef, []firestore.Update{
			{Path: "connectionId", Value: ""},
			{Path: "updatedAt", Value: time.Now()},
		})
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("User", nil)
		}
		return errors.Internal("Failed to clear connection id", err)
	}

	return nil
}
