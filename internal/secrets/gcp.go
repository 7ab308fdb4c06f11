package secrets

import (
	"context"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// GCPProvider reads the latest version of secrets from Google Secret Manager.
type GCPProvider struct {
	client    *secretmanager.Client
	projectID string
}

func NewGCPProvider(ctx context.Context, projectID string) (*GCPProvider, error) {
	if projectID == "" {
		return nil, fmt.Errorf("secrets: project id is required")
	}
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("secrets: new secret manager client: %w", err)
	}
	return &GCPProvider{client: client, projectID: projectID}, nil
}

// VersionName returns the resource name of the latest version of a secret.
func VersionName(projectID, name string) string {
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, name)
}

func (p *GCPProvider) Get(ctx context.Context, name string) (string, error) {
	resp, err := p.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: VersionName(p.projectID, name),
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return "", fmt.Errorf("secrets: access %s: %w", name, err)
	}
	return strings.TrimSpace(string(resp.GetPayload().GetData())), nil
}

func (p *GCPProvider) Close() error {
	return p.client.Close()
}
