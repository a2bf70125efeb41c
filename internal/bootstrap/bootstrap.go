package bootstrap

import (
	"context"
	"log/slog"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"

	vertexclient "github.com/depack/cashflow-backend/internal/client/vertex"
	"github.com/depack/cashflow-backend/internal/config"
	"github.com/depack/cashflow-backend/internal/store"
	"github.com/depack/cashflow-backend/pkg/logger"
)

type Bootstrap struct {
	Log    *slog.Logger
	Vertex *vertexclient.Adapter
	APIKey string
}

// Run wires the process-level clients. The advisor is optional: without a
// project id the service runs with optimization disabled rather than
// refusing to start.
func Run(cfg *config.Config) (*Bootstrap, error) {
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)
	bs.APIKey = cfg.APIKey

	if cfg.ProjectID != "" {
		vertex, err := vertexclient.NewAdapter(applicationCtx, bs.Log, cfg.ProjectID, cfg.Region, cfg.VertexModel)
		if err != nil {
			return bs, err
		}
		bs.Vertex = vertex
	} else {
		bs.Log.Warn("PROJECTID not set; optimization advisor disabled")
	}

	if cfg.UseSecretAPIKey && cfg.ProjectID != "" {
		client, err := secretmanager.NewClient(applicationCtx)
		if err != nil {
			return bs, err
		}
		defer client.Close()

		key, err := store.NewAPIKeyStore(client, cfg.ProjectID).GetAPIKey(applicationCtx)
		if err != nil {
			return bs, err
		}
		bs.APIKey = key
	}

	return bs, nil
}
