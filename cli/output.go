package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/tidwall/pretty"
)

// Output format constants
const (
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
)

func writeOutput(w io.Writer, format string, v any) error {
	switch format {
	case OutputFormatJSON, "":
		return writeJSON(w, v)
	case OutputFormatYAML:
		plain, err := toPlain(v)
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(plain)
		if err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = w.Write(pretty.Pretty(data))
	return err
}

// toPlain round-trips v through JSON so YAML output honors json tags and
// custom marshalers such as redacted secrets.
func toPlain(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode output: %w", err)
	}
	var plain any
	if err := json.Unmarshal(data, &plain); err != nil {
		return nil, fmt.Errorf("failed to encode output: %w", err)
	}
	return plain, nil
}
