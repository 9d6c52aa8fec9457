// Package resources defines the resource capability: a URI-addressed readable
// data source.
//
// A resource is registered under a URI pattern, which is either a literal URI
// ("config://settings") or an RFC 6570 URI template ("db://{key}"). Patterns
// are compiled once at construction; matching a request URI extracts the
// template variables and hands them to the handler.
package resources

import (
	"context"
	"fmt"

	"github.com/yosida95/uritemplate/v3"
)

// ReadRequest carries the matched URI and any variables extracted from the
// resource's URI template.
type ReadRequest struct {
	URI  string
	Vars map[string]string
}

// Handler produces the content of a resource. The returned value becomes the
// JSON-RPC result verbatim.
type Handler func(ctx context.Context, req ReadRequest) (any, error)

// Resource is a registered readable data source.
type Resource struct {
	uriPattern  string
	description string
	tmpl        *uritemplate.Template
	handler     Handler
}

// New creates a resource for the given URI pattern. The pattern is compiled
// immediately so an invalid template fails at startup, not at read time.
func New(uriPattern, description string, handler Handler) (*Resource, error) {
	if uriPattern == "" {
		return nil, fmt.Errorf("resource uri pattern cannot be empty")
	}
	if handler == nil {
		return nil, fmt.Errorf("resource %q: handler cannot be nil", uriPattern)
	}

	tmpl, err := uritemplate.New(uriPattern)
	if err != nil {
		return nil, fmt.Errorf("resource %q: invalid uri template: %w", uriPattern, err)
	}

	return &Resource{
		uriPattern:  uriPattern,
		description: description,
		tmpl:        tmpl,
		handler:     handler,
	}, nil
}

// MustNew is like New but panics on error, failing fast at startup.
func MustNew(uriPattern, description string, handler Handler) *Resource {
	r, err := New(uriPattern, description, handler)
	if err != nil {
		panic(err)
	}
	return r
}

// URIPattern returns the pattern the resource was registered under.
func (r *Resource) URIPattern() string {
	return r.uriPattern
}

// Description returns the resource's description.
func (r *Resource) Description() string {
	return r.description
}

// Match reports whether uri matches the resource's pattern. For template
// patterns the extracted variables are returned; for literal patterns the map
// is empty.
func (r *Resource) Match(uri string) (map[string]string, bool) {
	if uri == r.uriPattern {
		return map[string]string{}, true
	}

	values := r.tmpl.Match(uri)
	if values == nil {
		return nil, false
	}

	vars := make(map[string]string, len(values))
	for name, value := range values {
		vars[name] = value.String()
	}
	return vars, true
}

// Read invokes the resource's handler for the given request.
func (r *Resource) Read(ctx context.Context, req ReadRequest) (any, error) {
	return r.handler(ctx, req)
}
