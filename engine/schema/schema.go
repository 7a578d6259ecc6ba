package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/kaptinlin/jsonschema"
)

// -----------------------------------------------------------------------------
// Schema
// -----------------------------------------------------------------------------

type Schema map[string]any
type Result = jsonschema.EvaluationResult

func (s *Schema) String() string {
	bytes, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return string(bytes)
}

func (s *Schema) Compile() (*jsonschema.Schema, error) {
	if s == nil {
		return nil, nil
	}
	bytes, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile(bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return schema, nil
}

func (s *Schema) Validate(_ context.Context, value any) (*Result, error) {
	schema, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	if schema == nil {
		return nil, nil
	}
	return evaluate(schema, value)
}

// Compiled is a schema compiled once and evaluated many times.
type Compiled struct {
	schema *jsonschema.Schema
}

// MustCompile compiles s or panics; for package-level schemas only.
func (s *Schema) MustCompile() *Compiled {
	compiled, err := s.Compile()
	if err != nil {
		panic(err)
	}
	return &Compiled{schema: compiled}
}

// Validate evaluates value against the compiled schema. A nil receiver accepts everything.
func (c *Compiled) Validate(value any) error {
	if c == nil || c.schema == nil {
		return nil
	}
	normalized, err := normalize(value)
	if err != nil {
		return err
	}
	_, err = evaluate(c.schema, normalized)
	return err
}

// normalize round-trips value through JSON so Go-typed numbers, structs and
// typed maps reach the evaluator as plain JSON values.
func normalize(value any) (any, error) {
	bytes, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode value for validation: %w", err)
	}
	var out any
	if err := json.Unmarshal(bytes, &out); err != nil {
		return nil, fmt.Errorf("failed to decode value for validation: %w", err)
	}
	return out, nil
}

func evaluate(schema *jsonschema.Schema, value any) (*Result, error) {
	result := schema.Validate(value)
	if result.Valid {
		return result, nil
	}
	return nil, fmt.Errorf("schema validation failed: %s", describeErrors(result))
}

func describeErrors(result *Result) string {
	keys := make([]string, 0, len(result.Errors))
	for key := range result.Errors {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", key, result.Errors[key]))
	}
	if len(parts) == 0 {
		return "invalid value"
	}
	return strings.Join(parts, "; ")
}
