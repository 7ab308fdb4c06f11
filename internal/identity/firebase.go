package identity

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// TokenClient is the subset of *auth.Client used for verification.
type TokenClient interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseVerifier verifies Firebase ID tokens.
type FirebaseVerifier struct {
	client       TokenClient
	checkRevoked bool
}

// NewFirebaseVerifier wraps an auth client.
func NewFirebaseVerifier(client TokenClient, checkRevoked bool) *FirebaseVerifier {
	return &FirebaseVerifier{client: client, checkRevoked: checkRevoked}
}

// NewFirebaseAuthClient builds an auth client from the Admin SDK. An empty
// credentialsFile falls back to application default credentials.
func NewFirebaseAuthClient(ctx context.Context, projectID, credentialsFile string) (*auth.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("identity: init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("identity: init firebase auth: %w", err)
	}
	return client, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	var (
		decoded *auth.Token
		err     error
	)
	if v.checkRevoked {
		decoded, err = v.client.VerifyIDTokenAndCheckRevoked(ctx, token)
	} else {
		decoded, err = v.client.VerifyIDToken(ctx, token)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return &Identity{
		UID:    decoded.UID,
		Email:  claimString(decoded.Claims, "email"),
		Name:   claimString(decoded.Claims, "name"),
		Claims: decoded.Claims,
	}, nil
}
