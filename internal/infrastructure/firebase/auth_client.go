package firebase

import (
	"context"

	"firebase.google.com/go/v4/auth"
)

// AuthClient adapts the Firebase credential verifier. Token issuance lives
// with the identity service; this side only verifies.
type AuthClient struct {
	client *auth.Client
}

func NewAuthClient(client *auth.Client) *AuthClient {
	return &AuthClient{
		client: client,
	}
}

// VerifyToken validates a bearer token and returns the subject identifier.
func (f *AuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", err
	}

	return result.UID, nil
}
