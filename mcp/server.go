// Package mcp implements the Model Context Protocol server runtime: the
// capability registry, the JSON-RPC request dispatcher, and the two transport
// adapters (stdio and API Gateway / Lambda) that share it.
//
// Capabilities are registered on a Server before either transport starts
// serving. The registry is write-once/read-many: nothing mutates it after
// startup, so request handling needs no locking.
package mcp

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jtuffin/starmcp/prompts"
	"github.com/jtuffin/starmcp/resources"
	"github.com/jtuffin/starmcp/tools"
)

// ErrDuplicateName is returned when a capability name is already taken within
// its category. Duplicate registration indicates a programming error in the
// hosting application and is fatal at startup via the Must* variants.
var ErrDuplicateName = errors.New("capability name already registered")

// ErrNotFound is returned when no capability matches a lookup.
var ErrNotFound = errors.New("capability not found")

// Server holds the registered capabilities and server identity. Tools,
// resources and prompts live in independent namespaces; a tool and a prompt
// may share a name without conflict. Listing order is registration order and
// stays stable for the process lifetime.
type Server struct {
	name    string
	version string
	logger  *slog.Logger

	tools       []tools.Tool
	toolIndex   map[string]int
	resources   []*resources.Resource
	resIndex    map[string]int
	prompts     []*prompts.Prompt
	promptIndex map[string]int
}

// ServerConfig holds configuration for the MCP server. The seed slices are
// registered in order at construction; a duplicate among them panics, since
// construction is startup.
type ServerConfig struct {
	Name      string
	Version   string
	Logger    *slog.Logger
	Tools     []tools.Tool
	Resources []*resources.Resource
	Prompts   []*prompts.Prompt
}

// NewServer creates a new MCP server and registers any seed capabilities.
func NewServer(cfg ServerConfig) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Server{
		name:        cfg.Name,
		version:     cfg.Version,
		logger:      cfg.Logger,
		toolIndex:   make(map[string]int),
		resIndex:    make(map[string]int),
		promptIndex: make(map[string]int),
	}

	for _, t := range cfg.Tools {
		s.MustRegisterTool(t)
	}
	for _, r := range cfg.Resources {
		s.MustRegisterResource(r)
	}
	for _, p := range cfg.Prompts {
		s.MustRegisterPrompt(p)
	}

	s.logger.Info("initialized MCP server",
		"name", cfg.Name,
		"version", cfg.Version,
		"tool_count", len(s.tools),
		"resource_count", len(s.resources),
		"prompt_count", len(s.prompts))

	return s
}

// RegisterTool adds a tool to the registry. The name must be unique among
// tools.
func (s *Server) RegisterTool(t tools.Tool) error {
	if err := tools.Validate(t); err != nil {
		return fmt.Errorf("invalid tool: %w", err)
	}
	name := t.Spec().Name
	if _, exists := s.toolIndex[name]; exists {
		return fmt.Errorf("%w: tool %q", ErrDuplicateName, name)
	}
	s.toolIndex[name] = len(s.tools)
	s.tools = append(s.tools, t)
	return nil
}

// MustRegisterTool is like RegisterTool but panics on error.
func (s *Server) MustRegisterTool(t tools.Tool) {
	if err := s.RegisterTool(t); err != nil {
		panic(err)
	}
}

// RegisterResource adds a resource to the registry. The URI pattern must be
// unique among resources.
func (s *Server) RegisterResource(r *resources.Resource) error {
	if r == nil {
		return fmt.Errorf("invalid resource: resource cannot be nil")
	}
	pattern := r.URIPattern()
	if _, exists := s.resIndex[pattern]; exists {
		return fmt.Errorf("%w: resource %q", ErrDuplicateName, pattern)
	}
	s.resIndex[pattern] = len(s.resources)
	s.resources = append(s.resources, r)
	return nil
}

// MustRegisterResource is like RegisterResource but panics on error.
func (s *Server) MustRegisterResource(r *resources.Resource) {
	if err := s.RegisterResource(r); err != nil {
		panic(err)
	}
}

// RegisterPrompt adds a prompt to the registry. The name must be unique among
// prompts.
func (s *Server) RegisterPrompt(p *prompts.Prompt) error {
	if p == nil {
		return fmt.Errorf("invalid prompt: prompt cannot be nil")
	}
	if _, exists := s.promptIndex[p.Name()]; exists {
		return fmt.Errorf("%w: prompt %q", ErrDuplicateName, p.Name())
	}
	s.promptIndex[p.Name()] = len(s.prompts)
	s.prompts = append(s.prompts, p)
	return nil
}

// MustRegisterPrompt is like RegisterPrompt but panics on error.
func (s *Server) MustRegisterPrompt(p *prompts.Prompt) {
	if err := s.RegisterPrompt(p); err != nil {
		panic(err)
	}
}

// Tools returns all registered tools in registration order.
func (s *Server) Tools() []tools.Tool {
	out := make([]tools.Tool, len(s.tools))
	copy(out, s.tools)
	return out
}

// Resources returns all registered resources in registration order.
func (s *Server) Resources() []*resources.Resource {
	out := make([]*resources.Resource, len(s.resources))
	copy(out, s.resources)
	return out
}

// Prompts returns all registered prompts in registration order.
func (s *Server) Prompts() []*prompts.Prompt {
	out := make([]*prompts.Prompt, len(s.prompts))
	copy(out, s.prompts)
	return out
}

// LookupTool returns the tool registered under name.
func (s *Server) LookupTool(name string) (tools.Tool, error) {
	i, ok := s.toolIndex[name]
	if !ok {
		return nil, fmt.Errorf("%w: tool %q", ErrNotFound, name)
	}
	return s.tools[i], nil
}

// LookupResource resolves a request URI to a resource. Exact pattern matches
// win; otherwise templates are tried in registration order and the first match
// supplies the extracted variables.
func (s *Server) LookupResource(uri string) (*resources.Resource, map[string]string, error) {
	if i, ok := s.resIndex[uri]; ok {
		return s.resources[i], map[string]string{}, nil
	}
	for _, r := range s.resources {
		if vars, ok := r.Match(uri); ok {
			return r, vars, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: resource %q", ErrNotFound, uri)
}

// LookupPrompt returns the prompt registered under name.
func (s *Server) LookupPrompt(name string) (*prompts.Prompt, error) {
	i, ok := s.promptIndex[name]
	if !ok {
		return nil, fmt.Errorf("%w: prompt %q", ErrNotFound, name)
	}
	return s.prompts[i], nil
}

// Name returns the server name.
func (s *Server) Name() string {
	return s.name
}

// Version returns the server version.
func (s *Server) Version() string {
	return s.version
}
