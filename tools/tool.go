// Package tools defines the tool capability: a named, invocable handler with a
// machine-checkable parameter schema.
//
// Most tools are created with NewTool, which wraps a typed handler and derives
// its input and output schemas from the handler's signature at registration
// time:
//
//	type WeatherParams struct {
//	    Location string `json:"location"`
//	}
//
//	type WeatherReport struct {
//	    Temperature int    `json:"temperature"`
//	    Condition   string `json:"condition"`
//	}
//
//	func getWeather(ctx context.Context, req WeatherParams) (WeatherReport, error) {
//	    // implementation
//	}
//
//	tool := tools.NewTool(
//	    "get_weather",
//	    "Get current weather for a location",
//	    getWeather,
//	)
//
// For full control over the schema, implement the Tool interface directly:
//
//	type myTool struct{}
//
//	func (t *myTool) Spec() *tools.ToolSpec {
//	    return &tools.ToolSpec{
//	        Name:        "my_tool",
//	        Description: "Does something useful",
//	        Parameters:  map[string]interface{}{ /* JSON schema */ },
//	    }
//	}
//
//	func (t *myTool) Execute(ctx context.Context, args json.RawMessage) (any, error) {
//	    // implementation
//	}
//
// NewTool panics on schema generation errors, failing fast at startup. Use
// NewToolWithError for explicit error handling.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

// Tool is the interface every tool capability implements.
type Tool interface {
	// Spec returns the tool's name, description and parameter schema.
	Spec() *ToolSpec

	// Execute runs the tool with the raw JSON arguments from a tools/call
	// request. The returned value becomes the JSON-RPC result verbatim.
	Execute(ctx context.Context, args json.RawMessage) (any, error)
}

// ToolSpec describes a tool to clients. Parameters and Output are JSON schema
// maps, typically derived once at registration time via the infer package.
type ToolSpec struct {
	Name        string                 `json:"name,omitempty"`
	Description string                 `json:"description,omitempty"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
	Output      map[string]interface{} `json:"output,omitempty"`
}

const maxToolNameLength = 64

// Validate checks that a tool's spec is complete enough to register.
func Validate(t Tool) error {
	if t == nil {
		return fmt.Errorf("tool cannot be nil")
	}
	m := t.Spec()
	if m.Name == "" {
		return fmt.Errorf("tool spec must include a non-empty name")
	}

	if len(m.Name) > maxToolNameLength {
		return fmt.Errorf("tool name must not exceed %d characters", maxToolNameLength)
	}

	for _, char := range m.Name {
		if (char >= 'a' && char <= 'z') ||
			(char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') ||
			char == '_' || char == '-' {
			continue
		}
		return fmt.Errorf("tool name must contain only alphanumeric characters, underscores, or hyphens")
	}

	if m.Description == "" {
		return fmt.Errorf("tool spec description cannot be empty")
	}

	if m.Parameters == nil {
		return fmt.Errorf("tool spec parameters cannot be nil")
	}

	return nil
}
