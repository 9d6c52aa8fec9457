package mcp_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jtuffin/starmcp/mcp"
	"github.com/jtuffin/starmcp/tools"
)

func newLambdaFixture(t *testing.T) (*mcp.LambdaTransport, *recordingTool) {
	t.Helper()

	tool := newRecordingTool("lookup_city")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := mcp.NewServer(mcp.ServerConfig{
		Name:    "gateway-test",
		Version: "0.0.1",
		Logger:  logger,
		Tools:   []tools.Tool{tool},
	})

	return mcp.NewLambdaTransport(server, logger), tool
}

func invoke(t *testing.T, transport *mcp.LambdaTransport, event events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	t.Helper()
	resp, err := transport.Handle(context.Background(), event)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, body string) *mcp.JSONRPCResponse {
	t.Helper()
	var resp mcp.JSONRPCResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	return &resp
}

func TestLambdaTransport_Preflight(t *testing.T) {
	transport, tool := newLambdaFixture(t)

	resp := invoke(t, transport, events.APIGatewayProxyRequest{HTTPMethod: http.MethodOptions})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Body)
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	assert.Equal(t, "POST, OPTIONS", resp.Headers["Access-Control-Allow-Methods"])
	assert.Equal(t, "Content-Type", resp.Headers["Access-Control-Allow-Headers"])
	// Preflight never reaches the dispatcher.
	assert.Equal(t, 0, tool.calls)
}

func TestLambdaTransport_ValidRequest(t *testing.T) {
	transport, tool := newLambdaFixture(t)

	resp := invoke(t, transport, events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Body:       `{"jsonrpc": "2.0", "id": 1, "method": "tools/call", "params": {"name": "lookup_city", "arguments": {"city": "Lisbon"}}}`,
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	assert.Equal(t, 1, tool.calls)

	body := decodeBody(t, resp.Body)
	assert.Nil(t, body.Error)
	assert.Equal(t, json.RawMessage(`1`), body.ID)
}

func TestLambdaTransport_Base64Body(t *testing.T) {
	transport, _ := newLambdaFixture(t)

	raw := `{"jsonrpc": "2.0", "id": 5, "method": "tools/list"}`
	resp := invoke(t, transport, events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPost,
		Body:            base64.StdEncoding.EncodeToString([]byte(raw)),
		IsBase64Encoded: true,
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp.Body)
	assert.Nil(t, body.Error)
	assert.Equal(t, json.RawMessage(`5`), body.ID)
}

func TestLambdaTransport_InvalidBase64(t *testing.T) {
	transport, _ := newLambdaFixture(t)

	resp := invoke(t, transport, events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPost,
		Body:            "!!! not base64 !!!",
		IsBase64Encoded: true,
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLambdaTransport_NonJSONBody(t *testing.T) {
	transport, _ := newLambdaFixture(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"whitespace", "   \n  "},
		{"html", "<html>error</html>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := invoke(t, transport, events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodPost,
				Body:       tt.body,
			})
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var payload map[string]string
			require.NoError(t, json.Unmarshal([]byte(resp.Body), &payload))
			assert.NotEmpty(t, payload["error"])
		})
	}
}

func TestLambdaTransport_JSONRPCErrorStillHTTP200(t *testing.T) {
	transport, _ := newLambdaFixture(t)

	resp := invoke(t, transport, events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Body:       `{"jsonrpc": "2.0", "id": 1, "method": "no/such/method"}`,
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp.Body)
	require.NotNil(t, body.Error)
	assert.Equal(t, mcp.MethodNotFound, body.Error.Code)
}

func TestLambdaTransport_NotificationAccepted(t *testing.T) {
	transport, _ := newLambdaFixture(t)

	resp := invoke(t, transport, events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Body:       `{"jsonrpc": "2.0", "method": "tools/list"}`,
	})

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Empty(t, resp.Body)
}
