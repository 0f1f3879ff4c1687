package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"marketchat/internal/adapter/repository"
	"marketchat/internal/domain/entity"
	"marketchat/pkg/errors"
)

// fakeVerifier maps raw tokens to subjects; anything unmapped fails the
// way an expired credential would.
type fakeVerifier struct {
	subjects map[string]string
}

func (v *fakeVerifier) VerifyToken(ctx context.Context, token string) (string, error) {
	subject, ok := v.subjects[token]
	if !ok {
		return "", fmt.Errorf("invalid token")
	}
	return subject, nil
}

func newConnectionFixture(t *testing.T) (*ConnectionUseCase, *repository.MemoryUserRepository) {
	t.Helper()

	userRepo := repository.NewMemoryUserRepository()
	userRepo.Seed(&entity.User{ID: "user-1", FirstName: "Ada"})

	verifier := &fakeVerifier{subjects: map[string]string{
		"good-token":  "user-1",
		"bad-subject": "not a/valid id",
	}}

	return NewConnectionUseCase(verifier, userRepo, time.Second), userRepo
}

func TestConnectMapsPresence(t *testing.T) {
	uc, userRepo := newConnectionFixture(t)
	ctx := context.Background()

	event, err := uc.Connect(ctx, "good-token", "conn-1")
	assert.NoError(t, err)
	assert.Equal(t, "user-1", event.UserID)
	assert.Equal(t, "conn-1", event.ConnectionID)

	user, err := userRepo.GetByID(ctx, "user-1")
	assert.NoError(t, err)
	assert.Equal(t, "conn-1", user.ConnectionID)
}

func TestConnectRejectsInvalidToken(t *testing.T) {
	uc, userRepo := newConnectionFixture(t)
	ctx := context.Background()

	_, err := uc.Connect(ctx, "forged", "conn-1")
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))

	var appErr *errors.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Token expired", appErr.Message)

	user, err := userRepo.GetByID(ctx, "user-1")
	assert.NoError(t, err)
	assert.Empty(t, user.ConnectionID)
}

func TestConnectRejectsMalformedSubject(t *testing.T) {
	uc, _ := newConnectionFixture(t)

	// A bad subject reads the same as a bad token from the outside.
	_, err := uc.Connect(context.Background(), "bad-subject", "conn-1")
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))

	var appErr *errors.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Token expired", appErr.Message)
}

func TestDisconnectClearsPresence(t *testing.T) {
	uc, userRepo := newConnectionFixture(t)
	ctx := context.Background()

	_, err := uc.Connect(ctx, "good-token", "conn-1")
	assert.NoError(t, err)

	event, err := uc.Disconnect(ctx, "good-token", "conn-1")
	assert.NoError(t, err)
	assert.Equal(t, "user-1", event.UserID)

	user, err := userRepo.GetByID(ctx, "user-1")
	assert.NoError(t, err)
	assert.Empty(t, user.ConnectionID)
}

func TestStaleDisconnectKeepsNewerConnection(t *testing.T) {
	uc, userRepo := newConnectionFixture(t)
	ctx := context.Background()

	_, err := uc.Connect(ctx, "good-token", "conn-old")
	assert.NoError(t, err)
	_, err = uc.Connect(ctx, "good-token", "conn-new")
	assert.NoError(t, err)

	// The old socket tears down after the reconnect already won.
	_, err = uc.Disconnect(ctx, "good-token", "conn-old")
	assert.NoError(t, err)

	user, err := userRepo.GetByID(ctx, "user-1")
	assert.NoError(t, err)
	assert.Equal(t, "conn-new", user.ConnectionID)
}

func TestConnectRejectsEmptyConnectionID(t *testing.T) {
	uc, _ := newConnectionFixture(t)

	_, err := uc.Connect(context.Background(), "good-token", "  ")
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))
}
