// Command starmcp-lambda runs the demo MCP server as an AWS Lambda function
// behind an API Gateway proxy integration.
package main

import (
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/jtuffin/starmcp/demotools"
	"github.com/jtuffin/starmcp/mcp"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg := mcp.DefaultConfig()
	if path := os.Getenv("STARMCP_CONFIG"); path != "" {
		loaded, err := mcp.LoadConfig(path)
		if err != nil {
			logger.Error("failed to load config", "path", path, "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	server := mcp.NewServer(mcp.ServerConfig{
		Name:    cfg.Server.Name,
		Version: cfg.Server.Version,
		Logger:  logger,
	})

	if err := demotools.Register(server, demotools.NewStore()); err != nil {
		logger.Error("failed to register demo capabilities", "error", err)
		os.Exit(1)
	}

	adapter := mcp.NewLambdaTransport(server, logger)
	lambda.Start(adapter.Handle)
}
