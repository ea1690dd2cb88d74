// Package transport runs the stdio loop for newline-delimited JSON-RPC.
package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"forgemcp/server/internal/jsonrpc"
	"forgemcp/server/internal/observability"
)

// RequestProcessor processes JSON-RPC requests.
// Implemented by the MCP handler.
type RequestProcessor interface {
	ProcessRequest(ctx context.Context, req *jsonrpc.Request) (interface{}, *jsonrpc.Error)
}

// Stdio reads one JSON-RPC request per line from r and writes one response
// per line to w. Notifications (requests without an id) produce no response.
type Stdio struct {
	processor RequestProcessor
	in        io.Reader
	out       io.Writer
	mu        sync.Mutex
}

func NewStdio(processor RequestProcessor, in io.Reader, out io.Writer) *Stdio {
	return &Stdio{
		processor: processor,
		in:        in,
		out:       out,
	}
}

// Serve runs the read loop until EOF or the context is canceled. A scanner
// error other than EOF is returned to the caller.
func (t *Stdio) Serve(ctx context.Context) error {
	scanner := bufio.NewScanner(t.in)
	// Tool calls carrying file content can exceed the default 64KB line limit.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req jsonrpc.Request
		if err := json.Unmarshal(line, &req); err != nil {
			t.write(jsonrpc.NewErrorResponse(nil, jsonrpc.ParseError, "Parse error"))
			continue
		}

		t.dispatch(ctx, &req)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("stdin read: %w", err)
	}
	return nil
}

func (t *Stdio) dispatch(ctx context.Context, req *jsonrpc.Request) {
	ctx = observability.WithRequestID(ctx, "")

	defer func() {
		if r := recover(); r != nil {
			observability.LogError("panic in request handler", fmt.Errorf("%v", r))
			if req.ID != nil {
				t.write(jsonrpc.NewErrorResponse(req.ID, jsonrpc.InternalError, "Internal error"))
			}
		}
	}()

	result, rpcErr := t.processor.ProcessRequest(ctx, req)

	// Notifications get no response even on error.
	if req.ID == nil {
		return
	}

	if rpcErr != nil {
		t.write(jsonrpc.NewErrorResponse(req.ID, rpcErr.Code, rpcErr.Message))
		return
	}
	t.write(jsonrpc.NewResponse(req.ID, result))
}

func (t *Stdio) write(resp *jsonrpc.Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		observability.LogError("marshal response", err)
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.out.Write(append(data, '\n'))
}
