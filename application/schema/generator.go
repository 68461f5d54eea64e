// Package schema generates JSON schemas for command requests and responses.
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"

	"github.com/wheelkit/wheelhost/hostfuncs"
)

// CommandSchema holds the request and response schemas of one command.
// Either is nil when the command was registered without type information.
type CommandSchema struct {
	Name     string          `json:"name"`
	Request  json.RawMessage `json:"request,omitempty"`
	Response json.RawMessage `json:"response,omitempty"`
}

// GenerateSchema creates a JSON schema from a Go value.
// It uses the `invopop/jsonschema` library to reflect on the type
// and generate a standard JSON Schema (Draft 2020-12).
func GenerateSchema(v interface{}) ([]byte, error) {
	if v == nil {
		return nil, fmt.Errorf("cannot generate schema for nil value")
	}

	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	reflector := jsonschema.Reflector{
		// Expand struct definitions inline; only named structs have a definition to expand
		ExpandedStruct: t.Kind() == reflect.Struct && t.Name() != "",
	}
	schema := reflector.Reflect(v)

	jsonBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	return jsonBytes, nil
}

// ForCommand describes the named command of registry.
func ForCommand(registry *hostfuncs.HandlerRegistry, name string) (*CommandSchema, error) {
	cmd, ok := registry.Describe(name)
	if !ok {
		return nil, fmt.Errorf("unknown command: %s", name)
	}

	out := &CommandSchema{Name: name}
	if cmd.Request != nil {
		req, err := GenerateSchema(cmd.Request)
		if err != nil {
			return nil, fmt.Errorf("request schema of %s: %w", name, err)
		}
		out.Request = req
	}
	if cmd.Response != nil {
		resp, err := GenerateSchema(cmd.Response)
		if err != nil {
			return nil, fmt.Errorf("response schema of %s: %w", name, err)
		}
		out.Response = resp
	}
	return out, nil
}
