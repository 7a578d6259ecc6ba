package node

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeJSON decodes an API response body. An empty body yields an empty object.
func DecodeJSON(body []byte) (any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]any{}, nil
	}
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("API returned a non-JSON response: %w", err)
	}
	return payload, nil
}
