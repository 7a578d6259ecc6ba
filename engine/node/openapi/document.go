package openapi

import "strings"

// document is the subset of an OpenAPI 3 document the catalog reads.
type document struct {
	OpenAPI    string              `yaml:"openapi"`
	Paths      map[string]pathItem `yaml:"paths"`
	Components components          `yaml:"components"`
}

type components struct {
	Schemas    map[string]*schemaObject `yaml:"schemas"`
	Parameters map[string]*parameter    `yaml:"parameters"`
}

type pathItem struct {
	Parameters []*parameter `yaml:"parameters"`
	Get        *operation   `yaml:"get"`
	Post       *operation   `yaml:"post"`
	Put        *operation   `yaml:"put"`
	Patch      *operation   `yaml:"patch"`
	Delete     *operation   `yaml:"delete"`
}

func (p pathItem) operations() map[string]*operation {
	ops := map[string]*operation{}
	for method, op := range map[string]*operation{
		"GET":    p.Get,
		"POST":   p.Post,
		"PUT":    p.Put,
		"PATCH":  p.Patch,
		"DELETE": p.Delete,
	} {
		if op != nil {
			ops[method] = op
		}
	}
	return ops
}

type operation struct {
	OperationID string       `yaml:"operationId"`
	Summary     string       `yaml:"summary"`
	Description string       `yaml:"description"`
	Tags        []string     `yaml:"tags"`
	Parameters  []*parameter `yaml:"parameters"`
	RequestBody *requestBody `yaml:"requestBody"`
}

type parameter struct {
	Ref         string        `yaml:"$ref"`
	Name        string        `yaml:"name"`
	In          string        `yaml:"in"`
	Required    bool          `yaml:"required"`
	Description string        `yaml:"description"`
	Schema      *schemaObject `yaml:"schema"`
}

type requestBody struct {
	Ref      string               `yaml:"$ref"`
	Required bool                 `yaml:"required"`
	Content  map[string]mediaType `yaml:"content"`
}

type mediaType struct {
	Schema *schemaObject `yaml:"schema"`
}

type schemaObject struct {
	Ref         string                   `yaml:"$ref"`
	Type        string                   `yaml:"type"`
	Description string                   `yaml:"description"`
	Enum        []any                    `yaml:"enum"`
	Default     any                      `yaml:"default"`
	Required    []string                 `yaml:"required"`
	Properties  map[string]*schemaObject `yaml:"properties"`
	Items       *schemaObject            `yaml:"items"`
}

// refName returns the component name of a local reference such as
// "#/components/schemas/Contact".
func refName(ref, section string) (string, bool) {
	prefix := "#/components/" + section + "/"
	if !strings.HasPrefix(ref, prefix) {
		return "", false
	}
	return strings.TrimPrefix(ref, prefix), true
}
