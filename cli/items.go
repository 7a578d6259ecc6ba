package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/compozy/chatwoot-nodes/engine/core"
	"github.com/compozy/chatwoot-nodes/engine/node"
	"github.com/goccy/go-yaml"
)

// readItems loads items from path, or from stdin when path is "-". The file
// holds a YAML or JSON list; each entry is either {json: {...}} or the item
// parameters themselves.
func readItems(path string, stdin io.Reader) ([]node.Item, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read items: %w", err)
	}
	return parseItems(data)
}

func parseItems(data []byte) ([]node.Item, error) {
	var raw []map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse items: %w", err)
	}
	items := make([]node.Item, 0, len(raw))
	for _, entry := range raw {
		items = append(items, node.Item{JSON: core.Input(unwrapItem(entry))})
	}
	return items, nil
}

func unwrapItem(entry map[string]any) map[string]any {
	if len(entry) != 1 {
		return entry
	}
	if inner, ok := entry["json"].(map[string]any); ok {
		return inner
	}
	return entry
}
