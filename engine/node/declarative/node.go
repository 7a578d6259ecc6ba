// Package declarative runs operations of the API catalog as a generic node.
package declarative

import (
	"context"

	"github.com/compozy/chatwoot-nodes/engine/credential"
	"github.com/compozy/chatwoot-nodes/engine/node"
	"github.com/compozy/chatwoot-nodes/engine/node/openapi"
	"github.com/compozy/chatwoot-nodes/engine/transport"
	"github.com/compozy/chatwoot-nodes/pkg/logger"
)

const NodeID = "chatwoot.api"

// Sender performs JSON API calls.
type Sender interface {
	Send(ctx context.Context, request *transport.Request) (*transport.Response, error)
}

// Executor runs catalog operations item by item.
type Executor struct {
	catalog *openapi.Catalog
	sender  Sender
}

func NewExecutor(catalog *openapi.Catalog, sender Sender) *Executor {
	return &Executor{catalog: catalog, sender: sender}
}

// Process runs every item against its requested operation. The failure
// policy matches the attachment relay.
func (e *Executor) Process(
	ctx context.Context,
	items []node.Item,
	creds credential.Credentials,
	failFast bool,
) ([]node.Result, error) {
	baseURL, err := creds.BaseURL()
	if err != nil {
		return nil, node.Configuration(err, nil)
	}
	auth := creds.Authenticator()
	return node.Each(ctx, items, failFast, func(ctx context.Context, index int, item node.Item) (any, error) {
		op, err := operationOf(e.catalog, item.JSON)
		if err != nil {
			return nil, err
		}
		req, err := BuildRequest(baseURL, op, item.JSON)
		if err != nil {
			return nil, node.Validation(err, map[string]any{"operation": op.ID})
		}
		req.Auth = auth
		logger.FromContext(ctx).Debug("Calling API operation", "item_index", index, "operation", op.ID)
		resp, err := e.sender.Send(ctx, req)
		if err != nil {
			return nil, node.APIError(err, "call "+op.ID)
		}
		payload, err := node.DecodeJSON(resp.Body)
		if err != nil {
			return nil, node.Upstream(err, map[string]any{"status": resp.StatusCode})
		}
		return payload, nil
	})
}

// Definition returns the generic API node over catalog.
func Definition(catalog *openapi.Catalog, sender Sender, store credential.Store) node.Definition {
	executor := NewExecutor(catalog, sender)
	return node.Definition{
		ID:          NodeID,
		Name:        "Chatwoot",
		Description: "Call any operation of the Chatwoot application API.",
		Credentials: []string{"chatwootApi"},
		Properties:  properties(catalog),
		Execute: func(ctx context.Context, exec *node.Execution) ([]node.Result, error) {
			creds, err := store.Resolve(ctx, exec.Credential)
			if err != nil {
				return nil, node.Configuration(err, map[string]any{"credential": exec.Credential})
			}
			return executor.Process(ctx, exec.Items, creds, !exec.ContinueOnFail)
		},
	}
}

func properties(catalog *openapi.Catalog) []node.Property {
	resources := node.Property{Name: "resource", DisplayName: "Resource", Type: "options", Required: true}
	for _, r := range catalog.Resources() {
		resources.Options = append(resources.Options, node.Option{Name: r, Value: r})
	}
	operations := node.Property{Name: "operation", DisplayName: "Operation", Type: "options", Required: true}
	for _, op := range catalog.Operations() {
		operations.Options = append(operations.Options, node.Option{Name: op.Resource + ": " + op.Name, Value: op.ID})
	}
	return []node.Property{resources, operations}
}
