package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jtuffin/starmcp/infer"
	"github.com/jtuffin/starmcp/prompts"
	"github.com/jtuffin/starmcp/resources"
	"github.com/jtuffin/starmcp/tools"
)

// JSON-RPC 2.0 message structures
// See: https://www.jsonrpc.org/specification

// JSONRPCRequest represents a JSON-RPC 2.0 request. The ID is kept as raw JSON
// so string and number ids are echoed back byte-exact.
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// JSONRPCResponse represents a JSON-RPC 2.0 response. Exactly one of Result or
// Error is set. A nil ID marshals as null, which is the required id for
// responses to unparseable requests.
type JSONRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Standard JSON-RPC error codes
const (
	ParseError     = -32700
	InvalidRequest = -32600
	MethodNotFound = -32601
	InvalidParams  = -32602
	InternalError  = -32603
)

// MCP method names
const (
	MethodInitialize    = "initialize"
	MethodToolsList     = "tools/list"
	MethodToolsCall     = "tools/call"
	MethodResourcesList = "resources/list"
	MethodResourcesRead = "resources/read"
	MethodPromptsList   = "prompts/list"
	MethodPromptsGet    = "prompts/get"
)

// InitializeParams represents MCP initialize request parameters.
type InitializeParams struct {
	ProtocolVersion string     `json:"protocolVersion,omitempty"`
	ClientInfo      ClientInfo `json:"clientInfo,omitempty"`
}

// ClientInfo identifies the MCP client.
type ClientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeResult is the static server metadata returned by initialize.
type InitializeResult struct {
	Name         string             `json:"name"`
	Version      string             `json:"version"`
	Capabilities ServerCapabilities `json:"capabilities"`
}

// ServerCapabilities lists the capability categories the server supports.
type ServerCapabilities struct {
	Tools     CategoryCapability `json:"tools"`
	Resources CategoryCapability `json:"resources"`
	Prompts   CategoryCapability `json:"prompts"`
}

// CategoryCapability describes one capability category.
type CategoryCapability struct {
	ListChanged bool `json:"listChanged"`
}

// ToolsListResult is the response for tools/list.
type ToolsListResult struct {
	Tools []ToolDescription `json:"tools"`
}

// ToolDescription describes one tool in MCP format.
type ToolDescription struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// ToolsCallParams are the parameters for tools/call.
type ToolsCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// ResourcesListResult is the response for resources/list.
type ResourcesListResult struct {
	Resources []ResourceDescription `json:"resources"`
}

// ResourceDescription describes one resource.
type ResourceDescription struct {
	URI         string `json:"uri"`
	Description string `json:"description"`
}

// ResourcesReadParams are the parameters for resources/read.
type ResourcesReadParams struct {
	URI string `json:"uri"`
}

// PromptsListResult is the response for prompts/list.
type PromptsListResult struct {
	Prompts []PromptDescription `json:"prompts"`
}

// PromptDescription describes one prompt.
type PromptDescription struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// PromptsGetParams are the parameters for prompts/get.
type PromptsGetParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments,omitempty"`
}

// PromptsGetResult is the response for prompts/get.
type PromptsGetResult struct {
	Prompt string `json:"prompt"`
}

// Dispatcher routes JSON-RPC 2.0 messages to the capability registry. Both
// transports consume the same HandleMessage contract; no protocol logic lives
// in the adapters.
type Dispatcher struct {
	server *Server
}

// NewDispatcher creates a dispatcher bound to a server's registry.
func NewDispatcher(server *Server) *Dispatcher {
	return &Dispatcher{server: server}
}

// HandleMessage processes one JSON-RPC message and returns the response
// envelope, or nil for notifications. Every failure mode, from malformed
// input to a panicking handler, is converted into a well-formed error
// envelope; this method never panics and never returns a half-built response.
func (d *Dispatcher) HandleMessage(ctx context.Context, data []byte) *JSONRPCResponse {
	if !json.Valid(data) {
		return errorResponse(nil, ParseError, "Parse error", "request is not valid JSON")
	}

	// A loosely typed probe separates "not JSON at all" (-32700, handled
	// above) from "JSON that is not a JSON-RPC request" (-32600), and
	// recovers the id from partially valid input when possible.
	var probe struct {
		JSONRPC json.RawMessage `json:"jsonrpc"`
		ID      json.RawMessage `json:"id"`
		Method  json.RawMessage `json:"method"`
		Params  json.RawMessage `json:"params"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return errorResponse(nil, InvalidRequest, "Invalid Request", err.Error())
	}

	id := probe.ID
	if isNotification(id) {
		id = nil
	}

	if !bytes.Equal(probe.JSONRPC, []byte(`"2.0"`)) {
		return errorResponse(id, InvalidRequest, "Invalid Request", `jsonrpc must be the string "2.0"`)
	}

	var method string
	if err := json.Unmarshal(probe.Method, &method); err != nil || method == "" {
		return errorResponse(id, InvalidRequest, "Invalid Request", "method must be a non-empty string")
	}

	if id == nil {
		// Notification: no response regardless of outcome.
		d.server.logger.Info("received notification", "method", method)
		return nil
	}

	result, rpcErr := d.route(ctx, method, probe.Params)

	if rpcErr != nil {
		return &JSONRPCResponse{JSONRPC: "2.0", ID: id, Error: rpcErr}
	}
	return &JSONRPCResponse{JSONRPC: "2.0", ID: id, Result: result}
}

// isNotification reports whether a raw id marks the request as a notification.
func isNotification(id json.RawMessage) bool {
	return len(id) == 0 || bytes.Equal(id, []byte("null"))
}

func errorResponse(id json.RawMessage, code int, message string, data interface{}) *JSONRPCResponse {
	return &JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &RPCError{Code: code, Message: message, Data: data},
	}
}

// route matches the method against the built-ins and invokes the matching
// handler.
func (d *Dispatcher) route(ctx context.Context, method string, params json.RawMessage) (interface{}, *RPCError) {
	switch method {
	case MethodInitialize:
		return d.handleInitialize(ctx, params)
	case MethodToolsList:
		return d.handleToolsList(ctx)
	case MethodToolsCall:
		return d.handleToolsCall(ctx, params)
	case MethodResourcesList:
		return d.handleResourcesList(ctx)
	case MethodResourcesRead:
		return d.handleResourcesRead(ctx, params)
	case MethodPromptsList:
		return d.handlePromptsList(ctx)
	case MethodPromptsGet:
		return d.handlePromptsGet(ctx, params)
	default:
		return nil, &RPCError{
			Code:    MethodNotFound,
			Message: fmt.Sprintf("Method not found: %s", method),
		}
	}
}

// handleInitialize returns static server metadata. It has no side effects and
// may be called any number of times.
func (d *Dispatcher) handleInitialize(ctx context.Context, params json.RawMessage) (interface{}, *RPCError) {
	var initParams InitializeParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &initParams); err != nil {
			return nil, &RPCError{
				Code:    InvalidParams,
				Message: "Invalid initialize parameters",
				Data:    err.Error(),
			}
		}
	}

	if initParams.ClientInfo.Name != "" {
		d.server.logger.Info("MCP client connected",
			"client", initParams.ClientInfo.Name,
			"version", initParams.ClientInfo.Version)
	}

	return InitializeResult{
		Name:    d.server.name,
		Version: d.server.version,
		Capabilities: ServerCapabilities{
			Tools:     CategoryCapability{ListChanged: false},
			Resources: CategoryCapability{ListChanged: false},
			Prompts:   CategoryCapability{ListChanged: false},
		},
	}, nil
}

func (d *Dispatcher) handleToolsList(ctx context.Context) (interface{}, *RPCError) {
	registered := d.server.Tools()
	toolList := make([]ToolDescription, 0, len(registered))
	for _, tool := range registered {
		spec := tool.Spec()
		toolList = append(toolList, ToolDescription{
			Name:        spec.Name,
			Description: spec.Description,
			InputSchema: infer.Normalize(spec.Parameters),
		})
	}

	return ToolsListResult{Tools: toolList}, nil
}

func (d *Dispatcher) handleToolsCall(ctx context.Context, params json.RawMessage) (interface{}, *RPCError) {
	var callParams ToolsCallParams
	if len(params) == 0 {
		return nil, &RPCError{Code: InvalidParams, Message: "Missing tools/call parameters"}
	}
	if err := json.Unmarshal(params, &callParams); err != nil {
		return nil, &RPCError{
			Code:    InvalidParams,
			Message: "Invalid tools/call parameters",
			Data:    err.Error(),
		}
	}
	if callParams.Name == "" {
		return nil, &RPCError{Code: InvalidParams, Message: "Missing tool name"}
	}

	tool, err := d.server.LookupTool(callParams.Name)
	if err != nil {
		return nil, &RPCError{
			Code:    InvalidParams,
			Message: fmt.Sprintf("Tool not found: %s", callParams.Name),
			Data:    map[string]string{"name": callParams.Name},
		}
	}

	if rpcErr := validateArguments(tool.Spec().Parameters, callParams.Arguments); rpcErr != nil {
		return nil, rpcErr
	}

	d.server.logger.Info("executing tool", "tool", callParams.Name)

	out, err := invokeTool(ctx, tool, callParams.Arguments)
	if err != nil {
		var toolErr *tools.Error
		if errors.As(err, &toolErr) {
			// Reserved-range codes are protocol-level outcomes chosen by
			// the tool itself and pass through untouched.
			if toolErr.Code >= -32768 && toolErr.Code <= -32000 {
				return nil, &RPCError{
					Code:    toolErr.Code,
					Message: toolErr.Message,
					Data:    toolErr.Data,
				}
			}
		}

		d.server.logger.Error("tool execution failed",
			"tool", callParams.Name,
			"error", err.Error(),
			"arguments", string(callParams.Arguments))

		return nil, &RPCError{
			Code:    InternalError,
			Message: fmt.Sprintf("Tool execution failed: %s", callParams.Name),
			Data:    err.Error(),
		}
	}

	return out, nil
}

// invokeTool runs the tool, converting a panic inside the handler into an
// error so it cannot escape past the dispatcher boundary.
func invokeTool(ctx context.Context, t tools.Tool, rawArgs json.RawMessage) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool panicked: %v", r)
		}
	}()
	return t.Execute(ctx, rawArgs)
}

// validateArguments checks call arguments against the tool's inferred input
// schema before the handler runs. A missing required parameter or a type
// mismatch is rejected here; properties the schema does not declare pass
// through untouched.
func validateArguments(schema map[string]interface{}, rawArgs json.RawMessage) *RPCError {
	if len(schema) == 0 {
		return nil
	}

	if len(bytes.TrimSpace(rawArgs)) == 0 {
		rawArgs = json.RawMessage(`{}`)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(infer.Normalize(schema)),
		gojsonschema.NewBytesLoader(rawArgs),
	)
	if err != nil {
		return &RPCError{
			Code:    InvalidParams,
			Message: "Invalid tool arguments",
			Data:    err.Error(),
		}
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, verr := range result.Errors() {
			details = append(details, verr.String())
		}
		return &RPCError{
			Code:    InvalidParams,
			Message: "Invalid tool arguments",
			Data:    details,
		}
	}

	return nil
}

func (d *Dispatcher) handleResourcesList(ctx context.Context) (interface{}, *RPCError) {
	registered := d.server.Resources()
	resourceList := make([]ResourceDescription, 0, len(registered))
	for _, r := range registered {
		resourceList = append(resourceList, ResourceDescription{
			URI:         r.URIPattern(),
			Description: r.Description(),
		})
	}

	return ResourcesListResult{Resources: resourceList}, nil
}

func (d *Dispatcher) handleResourcesRead(ctx context.Context, params json.RawMessage) (interface{}, *RPCError) {
	var readParams ResourcesReadParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &readParams); err != nil {
			return nil, &RPCError{
				Code:    InvalidParams,
				Message: "Invalid resources/read parameters",
				Data:    err.Error(),
			}
		}
	}
	if readParams.URI == "" {
		return nil, &RPCError{Code: InvalidParams, Message: "Missing resource uri"}
	}

	resource, vars, err := d.server.LookupResource(readParams.URI)
	if err != nil {
		return nil, &RPCError{
			Code:    InvalidParams,
			Message: fmt.Sprintf("Resource not found: %s", readParams.URI),
			Data:    map[string]string{"uri": readParams.URI},
		}
	}

	d.server.logger.Info("reading resource", "uri", readParams.URI)

	out, err := readResource(ctx, resource, resources.ReadRequest{URI: readParams.URI, Vars: vars})
	if err != nil {
		d.server.logger.Error("resource read failed",
			"uri", readParams.URI,
			"error", err.Error())
		return nil, &RPCError{
			Code:    InternalError,
			Message: fmt.Sprintf("Resource read failed: %s", readParams.URI),
			Data:    err.Error(),
		}
	}

	return out, nil
}

func readResource(ctx context.Context, r *resources.Resource, req resources.ReadRequest) (out any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("resource handler panicked: %v", rec)
		}
	}()
	return r.Read(ctx, req)
}

func (d *Dispatcher) handlePromptsList(ctx context.Context) (interface{}, *RPCError) {
	registered := d.server.Prompts()
	promptList := make([]PromptDescription, 0, len(registered))
	for _, p := range registered {
		promptList = append(promptList, PromptDescription{
			Name:        p.Name(),
			Description: p.Description(),
		})
	}

	return PromptsListResult{Prompts: promptList}, nil
}

func (d *Dispatcher) handlePromptsGet(ctx context.Context, params json.RawMessage) (interface{}, *RPCError) {
	var getParams PromptsGetParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &getParams); err != nil {
			return nil, &RPCError{
				Code:    InvalidParams,
				Message: "Invalid prompts/get parameters",
				Data:    err.Error(),
			}
		}
	}
	if getParams.Name == "" {
		return nil, &RPCError{Code: InvalidParams, Message: "Missing prompt name"}
	}

	prompt, err := d.server.LookupPrompt(getParams.Name)
	if err != nil {
		return nil, &RPCError{
			Code:    InvalidParams,
			Message: fmt.Sprintf("Prompt not found: %s", getParams.Name),
			Data:    map[string]string{"name": getParams.Name},
		}
	}

	text, err := renderPrompt(ctx, prompt, getParams.Arguments)
	if err != nil {
		d.server.logger.Error("prompt rendering failed",
			"prompt", getParams.Name,
			"error", err.Error())
		return nil, &RPCError{
			Code:    InternalError,
			Message: fmt.Sprintf("Prompt rendering failed: %s", getParams.Name),
			Data:    err.Error(),
		}
	}

	return PromptsGetResult{Prompt: text}, nil
}

func renderPrompt(ctx context.Context, p *prompts.Prompt, promptArgs map[string]any) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("prompt handler panicked: %v", rec)
		}
	}()
	return p.Render(ctx, promptArgs)
}
