package usecase

import (
	"context"
	"time"

	"marketchat/internal/domain/entity"
	"marketchat/internal/domain/repository"
	"marketchat/pkg/errors"
	"marketchat/pkg/logger"
)

// TokenVerifier is the credential-verification collaborator. Implemented by
// the Firebase adapter in production and by fakes in tests.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

type ConnectionUseCase struct {
	verifier      TokenVerifier
	userRepo      repository.UserRepository
	verifyTimeout time.Duration
}

func NewConnectionUseCase(verifier TokenVerifier, userRepo repository.UserRepository, verifyTimeout time.Duration) *ConnectionUseCase {
	if verifyTimeout <= 0 {
		verifyTimeout = 5 * time.Second
	}
	return &ConnectionUseCase{
		verifier:      verifier,
		userRepo:      userRepo,
		verifyTimeout: verifyTimeout,
	}
}

type ConnectedEvent struct {
	UserID       string
	ConnectionID string
}

type DisconnectedEvent struct {
	UserID       string
	ConnectionID string
}

// Connect authenticates a fresh connection and maps the user to it in the
// presence store. An invalid or expired token is a recoverable event, never
// a fault; whether to drop the socket afterwards is the caller's call.
func (uc *ConnectionUseCase) Connect(ctx context.Context, rawToken, connectionID string) (*ConnectedEvent, error) {
	connID, err := entity.ParseConnectionID(connectionID)
	if err != nil {
		return nil, err
	}

	userID, err := uc.verifyIdentity(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	if err := uc.userRepo.UpdateConnectionID(ctx, userID, connID); err != nil {
		logger.Error("Connect: failed to update presence for user %s: %v", userID, err)
		return nil, errors.Internal("Failed to register connection", err)
	}

	logger.Info("Connect: user %s online on connection %s", userID, connID)
	return &ConnectedEvent{UserID: userID, ConnectionID: connID}, nil
}

// Disconnect re-verifies the token to recover the identity, then clears the
// presence mapping only while it still points at this connection. A token
// that expired mid-session is the common case here.
func (uc *ConnectionUseCase) Disconnect(ctx context.Context, rawToken, connectionID string) (*DisconnectedEvent, error) {
	connID, err := entity.ParseConnectionID(connectionID)
	if err != nil {
		return nil, err
	}

	userID, err := uc.verifyIdentity(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	if err := uc.userRepo.ClearConnectionID(ctx, userID, connID); err != nil {
		logger.Error("Disconnect: failed to clear presence for user %s: %v", userID, err)
		return nil, errors.Internal("Failed to clear connection", err)
	}

	logger.Info("Disconnect: user %s offline from connection %s", userID, connID)
	return &DisconnectedEvent{UserID: userID, ConnectionID: connID}, nil
}

func (uc *ConnectionUseCase) verifyIdentity(ctx context.Context, rawToken string) (string, error) {
	vctx, cancel := context.WithTimeout(ctx, uc.verifyTimeout)
	defer cancel()

	subject, err := uc.verifier.VerifyToken(vctx, rawToken)
	if err != nil {
		return "", errors.Unauthorized("Token expired", err)
	}

	userID, err := entity.ParseUserID(subject)
	if err != nil {
		// A malformed subject gets the same generic notification as a bad
		// token so the two checks are indistinguishable to the client.
		return "", errors.Unauthorized("Token expired", err)
	}

	return userID, nil
}
