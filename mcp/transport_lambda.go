package mcp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
)

// CORS headers attached to every gateway response so browser-origin callers
// succeed without a dedicated preflight implementation.
const (
	corsAllowOrigin  = "*"
	corsAllowMethods = "POST, OPTIONS"
	corsAllowHeaders = "Content-Type"
)

// LambdaTransport adapts an API Gateway proxy event to the dispatcher. It is
// single-shot: one event carries one JSON-RPC request, and the JSON-RPC
// response rides back in the proxy response body.
//
// Any JSON-RPC-level outcome, including JSON-RPC errors, maps to HTTP 200;
// only transport-level failures (a body that is not JSON at all) produce a
// non-200 status. The hosting platform may run invocations concurrently, but
// nothing here is mutated after construction, so no synchronization is
// needed.
type LambdaTransport struct {
	server     *Server
	logger     *slog.Logger
	dispatcher *Dispatcher
}

// NewLambdaTransport creates a gateway transport for the server.
func NewLambdaTransport(server *Server, logger *slog.Logger) *LambdaTransport {
	if logger == nil {
		logger = slog.Default()
	}
	return &LambdaTransport{
		server:     server,
		logger:     logger,
		dispatcher: NewDispatcher(server),
	}
}

// Handle is the Lambda entry point, suitable for lambda.Start.
func (t *LambdaTransport) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	invocationID := uuid.New().String()

	if strings.EqualFold(event.HTTPMethod, http.MethodOptions) {
		// Preflight: CORS headers and an empty body, dispatcher untouched.
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusOK,
			Headers:    corsHeaders(""),
			Body:       "",
		}, nil
	}

	body := []byte(event.Body)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			t.logger.Warn("rejecting request with invalid base64 body",
				"invocation_id", invocationID,
				"error", err)
			return transportError(http.StatusBadRequest, "request body is not valid base64"), nil
		}
		body = decoded
	}

	if len(bytes.TrimSpace(body)) == 0 || !json.Valid(body) {
		t.logger.Warn("rejecting request with undecodable body",
			"invocation_id", invocationID)
		return transportError(http.StatusBadRequest, "request body is not valid JSON"), nil
	}

	resp := t.dispatcher.HandleMessage(ctx, body)
	if resp == nil {
		// Notification: acknowledged, nothing to return.
		t.logger.Info("handled notification", "invocation_id", invocationID)
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusAccepted,
			Headers:    corsHeaders(""),
			Body:       "",
		}, nil
	}

	respBytes, err := json.Marshal(resp)
	if err != nil {
		respBytes, err = json.Marshal(&JSONRPCResponse{
			JSONRPC: "2.0",
			ID:      resp.ID,
			Error: &RPCError{
				Code:    InternalError,
				Message: "Failed to serialize response",
				Data:    err.Error(),
			},
		})
		if err != nil {
			// Cannot happen for a static envelope, but never propagate a
			// raw failure to the platform.
			return transportError(http.StatusInternalServerError, "failed to serialize response"), nil
		}
	}

	t.logger.Info("handled gateway request",
		"invocation_id", invocationID,
		"is_error", resp.Error != nil)

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    corsHeaders("application/json"),
		Body:       string(respBytes),
	}, nil
}

func corsHeaders(contentType string) map[string]string {
	h := map[string]string{
		"Access-Control-Allow-Origin":  corsAllowOrigin,
		"Access-Control-Allow-Methods": corsAllowMethods,
		"Access-Control-Allow-Headers": corsAllowHeaders,
	}
	if contentType != "" {
		h["Content-Type"] = contentType
	}
	return h
}

func transportError(status int, message string) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(map[string]string{"error": message})
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    corsHeaders("application/json"),
		Body:       string(body),
	}
}
