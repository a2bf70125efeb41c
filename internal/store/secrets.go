package store

import (
	"context"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/depack/cashflow-backend/internal/errs"
)

// Secret path
// projects/{project}/secrets/{prefix}-api-key/versions/latest

// apiKeyStore resolves the dashboard API key from Secret Manager. The key
// guards the HTTP surface when auth is enabled; rotation happens by adding a
// new secret version.
type apiKeyStore struct {
	client    *secretmanager.Client
	projectID string
	prefix    string
}

func NewAPIKeyStore(client *secretmanager.Client, projectID string) *apiKeyStore {
	return &apiKeyStore{
		client:    client,
		projectID: projectID,
		prefix:    "cashflow-dashboard",
	}
}

func (s *apiKeyStore) secretName() string {
	return fmt.Sprintf("projects/%s/secrets/%s-api-key", s.projectID, s.prefix)
}

func (s *apiKeyStore) GetAPIKey(ctx context.Context) (string, error) {
	res, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("%s/versions/latest", s.secretName()),
	})
	if status.Code(err) == codes.NotFound {
		return "", errs.NewNotFoundError(fmt.Sprintf("secret %s-api-key has no versions", s.prefix))
	}
	if err != nil {
		return "", err
	}
	return string(res.Payload.Data), nil
}
