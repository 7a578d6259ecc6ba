package declarative

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/compozy/chatwoot-nodes/engine/core"
	"github.com/compozy/chatwoot-nodes/engine/node"
	"github.com/compozy/chatwoot-nodes/engine/node/openapi"
	"github.com/compozy/chatwoot-nodes/engine/transport"
)

var ErrMissingParameter = errors.New("missing required parameter")

// BuildRequest renders op for one item. Path and query parameters and JSON
// body fields are read from input by property name.
func BuildRequest(baseURL string, op *openapi.Operation, input core.Input) (*transport.Request, error) {
	path := op.Path
	query := url.Values{}
	body := map[string]any{}
	for i := range op.Properties {
		prop := &op.Properties[i]
		value, ok := lookup(input, prop.Name)
		if !ok {
			if prop.Required {
				return nil, fmt.Errorf("%w: %s", ErrMissingParameter, prop.Name)
			}
			continue
		}
		wire := prop.WireName
		if wire == "" {
			wire = prop.Name
		}
		switch prop.In {
		case openapi.InPath:
			path = strings.ReplaceAll(path, "{"+wire+"}", url.PathEscape(formatValue(value)))
		case openapi.InQuery:
			addQuery(query, wire, value)
		case openapi.InBody:
			body[wire] = value
		}
	}
	if strings.Contains(path, "{") {
		return nil, fmt.Errorf("%w: unresolved path %s", ErrMissingParameter, path)
	}
	req := &transport.Request{
		Method: op.Method,
		URL:    strings.TrimRight(baseURL, "/") + path,
		Query:  query,
	}
	if len(body) > 0 {
		req.Body = body
	}
	return req, nil
}

// lookup treats nil and empty strings as absent.
func lookup(input core.Input, name string) (any, bool) {
	value := input.Prop(name)
	if value == nil {
		return nil, false
	}
	if s, ok := value.(string); ok && s == "" {
		return nil, false
	}
	return value, true
}

func addQuery(query url.Values, name string, value any) {
	switch v := value.(type) {
	case []any:
		for _, elem := range v {
			query.Add(name, formatValue(elem))
		}
	case []string:
		for _, elem := range v {
			query.Add(name, elem)
		}
	default:
		query.Add(name, formatValue(value))
	}
}

func formatValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}

// operationOf resolves the operation an item asks for, either by resource and
// operation name or by operation ID alone.
func operationOf(catalog *openapi.Catalog, input core.Input) (*openapi.Operation, error) {
	resource, _ := input.Prop("resource").(string)
	name, _ := input.Prop("operation").(string)
	if name == "" {
		return nil, node.Validation(errors.New("operation is required"), nil)
	}
	op, ok := catalog.Lookup(resource, name)
	if !ok {
		op, ok = catalog.Get(name)
	}
	if !ok {
		return nil, node.Validation(
			fmt.Errorf("unknown operation %q of resource %q", name, resource),
			map[string]any{"resource": resource, "operation": name},
		)
	}
	return &op, nil
}
