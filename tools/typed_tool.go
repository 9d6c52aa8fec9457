package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jtuffin/starmcp/args"
	"github.com/jtuffin/starmcp/infer"
)

// TypedTool adapts a strongly typed handler to the Tool interface. The input
// and output schemas are derived from the handler's signature exactly once,
// when the tool is constructed; request-time work is limited to decoding the
// arguments into In.
type TypedTool[In, Out any] struct {
	spec    *ToolSpec
	handler func(context.Context, In) (Out, error)
}

func (t *TypedTool[In, Out]) Spec() *ToolSpec {
	return t.spec
}

func (t *TypedTool[In, Out]) Execute(ctx context.Context, raw json.RawMessage) (any, error) {
	var input In
	if len(raw) > 0 {
		parsed, err := args.To[In](raw)
		if err != nil {
			return nil, NewInvalidParamsError(fmt.Sprintf("failed to parse arguments: %v", err))
		}
		input = parsed
	}
	return t.handler(ctx, input)
}

// ToolOption configures a ToolSpec during construction.
type ToolOption func(*ToolSpec)

// WithCustomSchema replaces the inferred parameter schema with an explicitly
// declared one.
func WithCustomSchema(schema map[string]interface{}) ToolOption {
	return func(spec *ToolSpec) {
		spec.Parameters = schema
	}
}

// NewTool creates a TypedTool with schemas inferred from the handler
// signature. It panics if schema generation fails, failing fast at startup.
// For explicit error handling use NewToolWithError.
//
// Example:
//
//	tool := tools.NewTool(
//	    "get_weather",
//	    "Get current weather for a location",
//	    getWeather,
//	)
func NewTool[In, Out any](
	name,
	description string,
	handler func(context.Context, In) (Out, error),
	opts ...ToolOption,
) Tool {
	tool, err := NewToolWithError[In, Out](name, description, handler, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create tool %q: %v", name, err))
	}
	return tool
}

// NewToolWithError creates a TypedTool with schemas inferred from the handler
// signature, returning an error instead of panicking on failure.
func NewToolWithError[In, Out any](
	name,
	description string,
	handler func(context.Context, In) (Out, error),
	opts ...ToolOption,
) (Tool, error) {

	inputSchema, outputSchema, err := infer.FromFunc(handler)
	if err != nil {
		return nil, fmt.Errorf("failed to generate schema from handler function: %w", err)
	}

	inputSchemaMap, err := infer.ToMap(inputSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to convert input schema to map: %w", err)
	}

	outputSchemaMap, err := infer.ToMap(outputSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to convert output schema to map: %w", err)
	}

	spec := &ToolSpec{
		Name:        name,
		Description: description,
		Parameters:  infer.Normalize(inputSchemaMap),
		Output:      outputSchemaMap,
	}

	for _, opt := range opts {
		opt(spec)
	}

	return &TypedTool[In, Out]{
		spec:    spec,
		handler: handler,
	}, nil
}
