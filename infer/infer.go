// Package infer derives JSON schemas from Go types and handler signatures.
//
// Schemas are derived exactly once, when a capability is registered, by
// reflecting over the handler's declared input and output types through
// github.com/google/jsonschema-go. Nothing in this package runs at request
// time: the registry holds the finished schema and the dispatcher only reads
// it.
//
// A struct field is required unless its json tag carries omitempty (the
// presence of omitempty is how a Go handler declares "this parameter has a
// default"). Field types map to JSON Schema the obvious way: string→string,
// int*→integer, float*→number, bool→boolean, and anything the generator
// cannot name degrades to an unconstrained schema rather than failing the
// registration.
package infer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// FromType generates a JSON schema for the type T.
func FromType[T any]() (*jsonschema.Schema, error) {
	return jsonschema.For[T](nil)
}

// FromFunc generates input and output JSON schemas from a handler signature.
// The handler must have the shape func(context.Context, In) (Out, error).
//
// Example:
//
//	func getWeather(ctx context.Context, req WeatherParams) (WeatherReport, error) {
//	    // handler code
//	}
//
//	input, output, err := infer.FromFunc(getWeather)
func FromFunc[In any, Out any](fn func(context.Context, In) (Out, error)) (*jsonschema.Schema, *jsonschema.Schema, error) {
	inputSchema, err := jsonschema.For[In](nil)
	if err != nil {
		return nil, nil, fmt.Errorf("generating input schema: %w", err)
	}

	outputSchema, err := jsonschema.For[Out](nil)
	if err != nil {
		return nil, nil, fmt.Errorf("generating output schema: %w", err)
	}

	return inputSchema, outputSchema, nil
}

// FromFuncInput generates only the input schema from a handler signature.
func FromFuncInput[In any, Out any](fn func(context.Context, In) (Out, error)) (*jsonschema.Schema, error) {
	return jsonschema.For[In](nil)
}

// ToMap converts a jsonschema.Schema to its map representation by round-tripping
// through JSON. The round trip matters: jsonschema.Schema has custom marshalling
// and marshalling-then-unmarshalling is the only way to observe exactly what a
// client will see.
func ToMap(s *jsonschema.Schema) (map[string]interface{}, error) {
	if s == nil {
		return nil, fmt.Errorf("cannot convert nil schema to map")
	}

	data, err := s.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}

	return result, nil
}

// Normalize adjusts a schema map so it is safe to publish over the wire and to
// validate call arguments against:
//
//   - "required" is always an array, never null or absent. Some MCP clients
//     reject a null required list.
//   - "type" defaults to "object" when absent.
//   - "additionalProperties" is removed so that arguments a client sends beyond
//     the declared parameters pass through to the handler instead of failing
//     validation.
//
// The input map is not modified; a deep copy is returned.
func Normalize(schema map[string]interface{}) map[string]interface{} {
	if schema == nil {
		return map[string]interface{}{
			"type":     "object",
			"required": []string{},
		}
	}

	data, err := json.Marshal(schema)
	if err != nil {
		return schema
	}

	var normalized map[string]interface{}
	if err := json.Unmarshal(data, &normalized); err != nil {
		return schema
	}

	if required, exists := normalized["required"]; !exists || required == nil {
		normalized["required"] = []string{}
	}
	if _, exists := normalized["type"]; !exists {
		normalized["type"] = "object"
	}
	delete(normalized, "additionalProperties")

	return normalized
}
