// Command starmcp-demo runs the demo MCP server over stdio: newline-delimited
// JSON-RPC on stdin/stdout, diagnostics on stderr.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jtuffin/starmcp/demotools"
	"github.com/jtuffin/starmcp/mcp"
)

func main() {
	cfg := mcp.DefaultConfig()
	if path := os.Getenv("STARMCP_CONFIG"); path != "" {
		loaded, err := mcp.LoadConfig(path)
		if err != nil {
			// Config errors must not reach stdout; that stream is protocol.
			cfg.Logger(os.Stderr).Error("failed to load config", "path", path, "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	logger := cfg.Logger(os.Stderr)

	server := mcp.NewServer(mcp.ServerConfig{
		Name:    cfg.Server.Name,
		Version: cfg.Server.Version,
		Logger:  logger,
	})

	if err := demotools.Register(server, demotools.NewStore()); err != nil {
		logger.Error("failed to register demo capabilities", "error", err)
		os.Exit(1)
	}

	transport := mcp.NewStdioTransport(server, logger).
		WithMaxLineBytes(cfg.Stdio.MaxLineBytes)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := transport.Start(ctx); err != nil {
		logger.Error("stdio transport failed", "error", err)
		os.Exit(1)
	}
}
