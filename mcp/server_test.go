package mcp_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jtuffin/starmcp/mcp"
	"github.com/jtuffin/starmcp/prompts"
	"github.com/jtuffin/starmcp/resources"
	"github.com/jtuffin/starmcp/tools"
)

type echoParams struct {
	Text string `json:"text"`
}

func newEchoTool(name string) tools.Tool {
	return tools.NewTool(name, "echoes its input", func(ctx context.Context, in echoParams) (string, error) {
		return in.Text, nil
	})
}

func newStaticResource(pattern string) *resources.Resource {
	return resources.MustNew(pattern, "static resource", func(ctx context.Context, req resources.ReadRequest) (any, error) {
		return map[string]any{"uri": req.URI}, nil
	})
}

func newStaticPrompt(name string) *prompts.Prompt {
	return prompts.MustNew(name, "static prompt", func(ctx context.Context, args map[string]any) (string, error) {
		return "prompt text", nil
	})
}

func TestServer_RegistrationOrder(t *testing.T) {
	s := mcp.NewServer(mcp.ServerConfig{Name: "test", Version: "1.0"})

	require.NoError(t, s.RegisterTool(newEchoTool("get_weather")))
	require.NoError(t, s.RegisterTool(newEchoTool("calculate")))
	require.NoError(t, s.RegisterTool(newEchoTool("store_data")))

	names := make([]string, 0, 3)
	for _, tool := range s.Tools() {
		names = append(names, tool.Spec().Name)
	}
	assert.Equal(t, []string{"get_weather", "calculate", "store_data"}, names)

	// Order must be stable across calls.
	again := make([]string, 0, 3)
	for _, tool := range s.Tools() {
		again = append(again, tool.Spec().Name)
	}
	assert.Equal(t, names, again)
}

func TestServer_DuplicateTool(t *testing.T) {
	s := mcp.NewServer(mcp.ServerConfig{Name: "test", Version: "1.0"})

	require.NoError(t, s.RegisterTool(newEchoTool("calculate")))

	err := s.RegisterTool(newEchoTool("calculate"))
	require.Error(t, err)
	assert.ErrorIs(t, err, mcp.ErrDuplicateName)
}

func TestServer_NamespacesAreIndependent(t *testing.T) {
	s := mcp.NewServer(mcp.ServerConfig{Name: "test", Version: "1.0"})

	require.NoError(t, s.RegisterTool(newEchoTool("shared")))
	require.NoError(t, s.RegisterPrompt(newStaticPrompt("shared")))
	require.NoError(t, s.RegisterResource(newStaticResource("shared://data")))

	_, err := s.LookupTool("shared")
	assert.NoError(t, err)
	_, err = s.LookupPrompt("shared")
	assert.NoError(t, err)
}

func TestServer_LookupNotFound(t *testing.T) {
	s := mcp.NewServer(mcp.ServerConfig{Name: "test", Version: "1.0"})

	_, err := s.LookupTool("missing")
	assert.ErrorIs(t, err, mcp.ErrNotFound)

	_, _, err = s.LookupResource("missing://uri")
	assert.ErrorIs(t, err, mcp.ErrNotFound)

	_, err = s.LookupPrompt("missing")
	assert.ErrorIs(t, err, mcp.ErrNotFound)
}

func TestServer_LookupResourceTemplate(t *testing.T) {
	s := mcp.NewServer(mcp.ServerConfig{Name: "test", Version: "1.0"})

	require.NoError(t, s.RegisterResource(newStaticResource("config://settings")))
	require.NoError(t, s.RegisterResource(newStaticResource("db://{key}")))

	// Exact match wins and carries no vars.
	r, vars, err := s.LookupResource("config://settings")
	require.NoError(t, err)
	assert.Equal(t, "config://settings", r.URIPattern())
	assert.Empty(t, vars)

	// Template match extracts vars.
	r, vars, err = s.LookupResource("db://user42")
	require.NoError(t, err)
	assert.Equal(t, "db://{key}", r.URIPattern())
	assert.Equal(t, "user42", vars["key"])
}

func TestServer_SeedCapabilities(t *testing.T) {
	s := mcp.NewServer(mcp.ServerConfig{
		Name:    "test",
		Version: "1.0",
		Tools:   []tools.Tool{newEchoTool("seeded")},
		Prompts: []*prompts.Prompt{newStaticPrompt("seeded")},
	})

	_, err := s.LookupTool("seeded")
	assert.NoError(t, err)
	_, err = s.LookupPrompt("seeded")
	assert.NoError(t, err)
}

func TestServer_SeedDuplicatePanics(t *testing.T) {
	assert.Panics(t, func() {
		mcp.NewServer(mcp.ServerConfig{
			Name:    "test",
			Version: "1.0",
			Tools:   []tools.Tool{newEchoTool("dup"), newEchoTool("dup")},
		})
	})
}

func TestServer_RejectsInvalidTool(t *testing.T) {
	s := mcp.NewServer(mcp.ServerConfig{Name: "test", Version: "1.0"})

	err := s.RegisterTool(nil)
	assert.Error(t, err)
}
