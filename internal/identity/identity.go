// Package identity verifies bearer credentials issued by an identity provider.
package identity

import (
	"context"
	"errors"
)

// ErrInvalidToken is returned for any credential that fails verification.
var ErrInvalidToken = errors.New("identity: invalid token")

// Identity is the decoded caller.
type Identity struct {
	UID    string
	Email  string
	Name   string
	Claims map[string]any
}

// Verifier checks a bearer credential and returns the caller it identifies.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

func claimString(claims map[string]any, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
