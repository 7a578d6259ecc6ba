package cli

import (
	"context"
	"fmt"

	"github.com/compozy/chatwoot-nodes/engine/credential"
	"github.com/compozy/chatwoot-nodes/engine/node"
	"github.com/compozy/chatwoot-nodes/engine/node/attachment"
	"github.com/compozy/chatwoot-nodes/engine/node/declarative"
	"github.com/compozy/chatwoot-nodes/engine/node/openapi"
	"github.com/compozy/chatwoot-nodes/engine/transport"
	"github.com/compozy/chatwoot-nodes/pkg/config"
	"go.opentelemetry.io/otel"
)

const meterName = "github.com/compozy/chatwoot-nodes"

// newRegistry wires every node against the configuration in ctx.
func newRegistry(ctx context.Context) (*node.Registry, error) {
	cfg := config.FromContext(ctx)
	metrics, err := node.NewMetrics(otel.Meter(meterName))
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	client := transport.New(transport.OptionsFromConfig(cfg))
	store := credential.NewConfigStore()
	catalog, err := openapi.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load API catalog: %w", err)
	}
	registry := node.NewRegistry(metrics)
	for _, def := range []node.Definition{
		attachment.Definition(client, store),
		declarative.Definition(catalog, client, store),
	} {
		if err := registry.Register(def); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
