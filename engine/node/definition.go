// Package node defines workflow nodes, the item protocol they speak and the
// registry that runs them.
package node

import (
	"context"

	"github.com/compozy/chatwoot-nodes/engine/schema"
)

// ExecuteFunc runs a node over one batch of items.
type ExecuteFunc func(ctx context.Context, exec *Execution) ([]Result, error)

// Option is one allowed value of an enumerated property.
type Option struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Property describes one parameter a node accepts from its items.
type Property struct {
	Name string `json:"name"`
	// WireName is the name sent to the API when it differs from Name.
	WireName    string   `json:"wireName,omitempty"`
	DisplayName string   `json:"displayName"`
	Type        string   `json:"type"`
	In          string   `json:"in,omitempty"`
	Required    bool     `json:"required,omitempty"`
	Description string   `json:"description,omitempty"`
	Default     any      `json:"default,omitempty"`
	Options     []Option `json:"options,omitempty"`
}

// Definition is a node the registry can run.
type Definition struct {
	ID          string
	Name        string
	Description string
	// Credentials lists the credential types the node authenticates with.
	Credentials []string
	InputSchema *schema.Schema
	Properties  []Property
	Execute     ExecuteFunc
}
