package attachment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

const (
	labelContentAttributes = "Content Attributes"
	labelTemplateParams    = "Template Params"
)

// ParseJSONField normalizes a field that accepts either structured JSON or a
// JSON string. The bool result is false when the field is absent.
func ParseJSONField(label string, value any) (any, bool, error) {
	switch v := value.(type) {
	case nil:
		return nil, false, nil
	case string:
		if v == "" {
			return nil, false, nil
		}
		var parsed any
		if err := json.Unmarshal([]byte(strings.TrimSpace(v)), &parsed); err != nil {
			return nil, false, fmt.Errorf("%s must be valid JSON: %w", label, err)
		}
		return parsed, true, nil
	case map[string]any, []any:
		return v, true, nil
	}
	switch reflect.TypeOf(value).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return value, true, nil
	default:
		return nil, false, fmt.Errorf("%s must be a JSON object, array or JSON string, got %T", label, value)
	}
}

// encodeJSON serializes v without HTML escaping and without a trailing newline.
func encodeJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
