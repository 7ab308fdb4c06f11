// Package secrets resolves API keys from Secret Manager or the environment
// and caches them in process.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNotFound is returned when a provider has no value for a secret.
var ErrNotFound = errors.New("secrets: not found")

// Provider fetches the current value of a named secret.
type Provider interface {
	Get(ctx context.Context, name string) (string, error)
}

// EnvProvider reads secrets from environment variables of the same name.
type EnvProvider struct{}

func (EnvProvider) Get(_ context.Context, name string) (string, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return v, nil
}

// Fallback tries each provider in order and returns the first value found.
type Fallback []Provider

func (f Fallback) Get(ctx context.Context, name string) (string, error) {
	var errs []error
	for _, p := range f {
		v, err := p.Get(ctx, name)
		if err == nil {
			return v, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		errs = append(errs, err)
	}
	return "", errors.Join(errs...)
}
