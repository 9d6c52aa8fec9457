// Package prompts defines the prompt capability: a named template that
// produces a text prompt from a loosely typed argument map.
package prompts

import (
	"context"
	"fmt"
)

// Handler renders a prompt from the arguments of a prompts/get request.
type Handler func(ctx context.Context, args map[string]any) (string, error)

// Prompt is a registered prompt template.
type Prompt struct {
	name        string
	description string
	handler     Handler
}

// New creates a prompt. Name and handler are mandatory.
func New(name, description string, handler Handler) (*Prompt, error) {
	if name == "" {
		return nil, fmt.Errorf("prompt name cannot be empty")
	}
	if handler == nil {
		return nil, fmt.Errorf("prompt %q: handler cannot be nil", name)
	}
	return &Prompt{name: name, description: description, handler: handler}, nil
}

// MustNew is like New but panics on error, failing fast at startup.
func MustNew(name, description string, handler Handler) *Prompt {
	p, err := New(name, description, handler)
	if err != nil {
		panic(err)
	}
	return p
}

// Name returns the prompt's name.
func (p *Prompt) Name() string {
	return p.name
}

// Description returns the prompt's description.
func (p *Prompt) Description() string {
	return p.description
}

// Render invokes the prompt's handler.
func (p *Prompt) Render(ctx context.Context, promptArgs map[string]any) (string, error) {
	if promptArgs == nil {
		promptArgs = map[string]any{}
	}
	return p.handler(ctx, promptArgs)
}
