// Package openapi builds declarative node operations from an OpenAPI
// document and lets callers patch the generated metadata.
package openapi

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/compozy/chatwoot-nodes/engine/node"
	"github.com/goccy/go-yaml"
	"github.com/gosimple/slug"
)

// Parameter locations.
const (
	InPath  = "path"
	InQuery = "query"
	InBody  = "body"
)

var (
	ErrInvalidDocument  = errors.New("invalid openapi document")
	ErrUnresolvedRef    = errors.New("unresolved reference")
	ErrDuplicateID      = errors.New("duplicate operation id")
	ErrTransformNoMatch = errors.New("transform matched no operation")
)

// Operation is one API call exposed as a declarative node operation.
type Operation struct {
	ID          string
	Resource    string
	Name        string
	Method      string
	Path        string
	Description string
	Properties  []node.Property
	// key is the source-derived operation name the ID is built from.
	key string
}

// Property returns the property called name.
func (o *Operation) Property(name string) (*node.Property, bool) {
	for i := range o.Properties {
		if o.Properties[i].Name == name {
			return &o.Properties[i], true
		}
	}
	return nil, false
}

func (o *Operation) refreshID() {
	o.ID = OperationID(o.Resource, o.key)
}

// OperationID builds the stable identifier of an operation.
func OperationID(resource, name string) string {
	return slug.Make(resource) + "." + slug.Make(name)
}

// Catalog is the ordered set of operations parsed from one document.
type Catalog struct {
	operations []Operation
	index      map[string]int
}

// Parse reads an OpenAPI 3 document in YAML or JSON form.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if !strings.HasPrefix(doc.OpenAPI, "3.") {
		return nil, fmt.Errorf("%w: unsupported openapi version %q", ErrInvalidDocument, doc.OpenAPI)
	}
	b := builder{doc: &doc}
	ops := make([]Operation, 0, len(doc.Paths))
	for path, item := range doc.Paths {
		for method, raw := range item.operations() {
			op, err := b.operation(path, method, item.Parameters, raw)
			if err != nil {
				return nil, fmt.Errorf("%s %s: %w", method, path, err)
			}
			ops = append(ops, op)
		}
	}
	return newCatalog(ops)
}

func newCatalog(ops []Operation) (*Catalog, error) {
	sort.Slice(ops, func(i, j int) bool { return ops[i].ID < ops[j].ID })
	index := make(map[string]int, len(ops))
	for i, op := range ops {
		if _, exists := index[op.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, op.ID)
		}
		index[op.ID] = i
	}
	return &Catalog{operations: ops, index: index}, nil
}

// Operations returns every operation ordered by ID.
func (c *Catalog) Operations() []Operation {
	return append([]Operation(nil), c.operations...)
}

// Get returns the operation with the given ID.
func (c *Catalog) Get(id string) (Operation, bool) {
	i, ok := c.index[id]
	if !ok {
		return Operation{}, false
	}
	return c.operations[i], true
}

// Lookup finds an operation by resource and operation name.
func (c *Catalog) Lookup(resource, name string) (Operation, bool) {
	return c.Get(OperationID(resource, name))
}

// Resources returns the distinct resource names in ID order.
func (c *Catalog) Resources() []string {
	seen := map[string]bool{}
	var out []string
	for _, op := range c.operations {
		if !seen[op.Resource] {
			seen[op.Resource] = true
			out = append(out, op.Resource)
		}
	}
	return out
}

// Apply runs transforms in order and returns the patched catalog. The
// receiver is left untouched.
func (c *Catalog) Apply(transforms ...Transform) (*Catalog, error) {
	ops := make([]Operation, len(c.operations))
	for i, op := range c.operations {
		op.Properties = append([]node.Property(nil), op.Properties...)
		ops[i] = op
	}
	for _, t := range transforms {
		matched := 0
		for i := range ops {
			ok, err := t.apply(&ops[i])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", t.name, err)
			}
			if ok {
				matched++
			}
		}
		if matched == 0 {
			return nil, fmt.Errorf("%w: %s", ErrTransformNoMatch, t.name)
		}
	}
	return newCatalog(ops)
}

type builder struct {
	doc *document
}

func (b builder) operation(path, method string, shared []*parameter, raw *operation) (Operation, error) {
	key := raw.OperationID
	if key == "" {
		key = raw.Summary
	}
	if key == "" {
		key = strings.ToLower(method) + " " + path
	}
	name := raw.Summary
	if name == "" {
		name = key
	}
	op := Operation{
		Resource:    resourceOf(path, raw.Tags),
		Name:        name,
		Method:      method,
		Path:        path,
		Description: raw.Description,
		key:         key,
	}
	op.refreshID()
	params := append(append([]*parameter(nil), shared...), raw.Parameters...)
	for _, p := range params {
		resolved, err := b.parameter(p)
		if err != nil {
			return Operation{}, err
		}
		if resolved.In != InPath && resolved.In != InQuery {
			continue
		}
		prop := b.property(resolved.Name, resolved.Schema)
		prop.In = resolved.In
		prop.Required = resolved.Required || resolved.In == InPath
		if resolved.Description != "" {
			prop.Description = resolved.Description
		}
		op.Properties = upsert(op.Properties, prop)
	}
	if raw.RequestBody != nil && method != http.MethodGet {
		props, err := b.body(raw.RequestBody)
		if err != nil {
			return Operation{}, err
		}
		for _, prop := range props {
			op.Properties = upsert(op.Properties, prop)
		}
	}
	return op, nil
}

func (b builder) parameter(p *parameter) (*parameter, error) {
	if p.Ref == "" {
		return p, nil
	}
	name, ok := refName(p.Ref, "parameters")
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvedRef, p.Ref)
	}
	resolved, ok := b.doc.Components.Parameters[name]
	if !ok || resolved == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvedRef, p.Ref)
	}
	return resolved, nil
}

func (b builder) schema(s *schemaObject) (*schemaObject, error) {
	seen := map[string]bool{}
	for s != nil && s.Ref != "" {
		if seen[s.Ref] {
			return nil, fmt.Errorf("%w: cyclic %s", ErrUnresolvedRef, s.Ref)
		}
		seen[s.Ref] = true
		name, ok := refName(s.Ref, "schemas")
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnresolvedRef, s.Ref)
		}
		next, ok := b.doc.Components.Schemas[name]
		if !ok || next == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnresolvedRef, s.Ref)
		}
		s = next
	}
	return s, nil
}

func (b builder) body(rb *requestBody) ([]node.Property, error) {
	media, ok := rb.Content["application/json"]
	if !ok || media.Schema == nil {
		return nil, nil
	}
	s, err := b.schema(media.Schema)
	if err != nil {
		return nil, err
	}
	required := map[string]bool{}
	for _, name := range s.Required {
		required[name] = true
	}
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	props := make([]node.Property, 0, len(names))
	for _, name := range names {
		field, err := b.schema(s.Properties[name])
		if err != nil {
			return nil, err
		}
		prop := b.property(name, field)
		prop.In = InBody
		prop.Required = required[name]
		props = append(props, prop)
	}
	return props, nil
}

func (b builder) property(name string, s *schemaObject) node.Property {
	prop := node.Property{Name: name, WireName: name, DisplayName: displayName(name), Type: "string"}
	resolved, err := b.schema(s)
	if err != nil || resolved == nil {
		return prop
	}
	prop.Description = resolved.Description
	prop.Default = resolved.Default
	switch resolved.Type {
	case "integer", "number":
		prop.Type = "number"
	case "boolean":
		prop.Type = "boolean"
	case "object", "array":
		prop.Type = "json"
	}
	if len(resolved.Enum) > 0 {
		prop.Type = "options"
		for _, v := range resolved.Enum {
			value := fmt.Sprint(v)
			prop.Options = append(prop.Options, node.Option{Name: displayName(value), Value: value})
		}
	}
	return prop
}

func upsert(props []node.Property, prop node.Property) []node.Property {
	for i := range props {
		if props[i].Name == prop.Name && props[i].In == prop.In {
			props[i] = prop
			return props
		}
	}
	return append(props, prop)
}

// resourceOf picks the first tag, or the last literal path segment.
func resourceOf(path string, tags []string) string {
	if len(tags) > 0 && strings.TrimSpace(tags[0]) != "" {
		return strings.TrimSpace(tags[0])
	}
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if s := segments[i]; s != "" && !strings.HasPrefix(s, "{") {
			return s
		}
	}
	return "default"
}

// displayName turns snake_case or kebab-case names into title case words.
func displayName(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	for i, w := range words {
		if w == "id" {
			words[i] = "ID"
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
