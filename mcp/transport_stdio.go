package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
)

// DefaultMaxLineBytes is the maximum accepted request line size (10MB).
const DefaultMaxLineBytes = 10 * 1024 * 1024

// StdioTransport serves the MCP protocol over newline-delimited JSON: one
// request per input line, one response per output line. Each response is
// flushed before the next line is read, so the peer always observes the
// answer to request N before the transport consumes request N+1. Diagnostics
// go through the logger only; the protocol stream carries nothing but
// JSON-RPC.
type StdioTransport struct {
	server       *Server
	logger       *slog.Logger
	dispatcher   *Dispatcher
	reader       io.Reader
	writer       io.Writer
	maxLineBytes int
}

// NewStdioTransport creates a stdio transport reading stdin and writing
// stdout. The logger should be bound to stderr so diagnostics cannot corrupt
// the protocol stream.
func NewStdioTransport(server *Server, logger *slog.Logger) *StdioTransport {
	return NewStdioTransportWithIO(server, logger, os.Stdin, os.Stdout)
}

// NewStdioTransportWithIO creates a stdio transport with a custom reader and
// writer (for testing).
func NewStdioTransportWithIO(server *Server, logger *slog.Logger, reader io.Reader, writer io.Writer) *StdioTransport {
	if logger == nil {
		logger = slog.Default()
	}
	return &StdioTransport{
		server:       server,
		logger:       logger,
		dispatcher:   NewDispatcher(server),
		reader:       reader,
		writer:       writer,
		maxLineBytes: DefaultMaxLineBytes,
	}
}

// WithMaxLineBytes overrides the maximum accepted request line size.
func (t *StdioTransport) WithMaxLineBytes(n int) *StdioTransport {
	if n > 0 {
		t.maxLineBytes = n
	}
	return t
}

// Start reads request lines until end-of-input or context cancellation. A
// malformed line or failing handler produces an error response line; only a
// write failure or a reader error terminates the loop early.
func (t *StdioTransport) Start(ctx context.Context) error {
	t.logger.Info("starting MCP stdio transport")

	scanner := bufio.NewScanner(t.reader)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, t.maxLineBytes)

	out := bufio.NewWriter(t.writer)

	scanChan := make(chan []byte)
	errChan := make(chan error, 1)

	go func() {
		defer close(scanChan)
		for scanner.Scan() {
			line := make([]byte, len(scanner.Bytes()))
			copy(line, scanner.Bytes())
			scanChan <- line
		}
		if err := scanner.Err(); err != nil {
			errChan <- err
		}
	}()

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("stdio transport shutting down")
			return nil

		case line, ok := <-scanChan:
			if !ok {
				select {
				case err := <-errChan:
					t.logger.Error("scanner error", "error", err)
					return err
				default:
					t.logger.Info("stdio transport reached end of input")
					return nil
				}
			}

			if len(line) == 0 {
				continue
			}

			resp := t.dispatcher.HandleMessage(ctx, line)
			if resp == nil {
				// Notification: nothing goes on the wire.
				continue
			}

			if err := writeLine(out, resp); err != nil {
				t.logger.Error("error writing response", "error", err)
				return err
			}
		}
	}
}

// writeLine serializes one response as a single line and flushes it
// immediately.
func writeLine(out *bufio.Writer, resp *JSONRPCResponse) error {
	respBytes, err := json.Marshal(resp)
	if err != nil {
		// Result was not serializable. Still emit a well-formed error line
		// so the peer is not left waiting.
		fallback := &JSONRPCResponse{
			JSONRPC: "2.0",
			ID:      resp.ID,
			Error: &RPCError{
				Code:    InternalError,
				Message: "Failed to serialize response",
				Data:    err.Error(),
			},
		}
		respBytes, err = json.Marshal(fallback)
		if err != nil {
			return err
		}
	}

	if _, err := out.Write(append(respBytes, '\n')); err != nil {
		return err
	}
	return out.Flush()
}
