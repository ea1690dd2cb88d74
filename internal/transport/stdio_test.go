package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"forgemcp/server/internal/jsonrpc"
	"forgemcp/server/internal/observability"
)

type stubProcessor struct {
	result interface{}
	err    *jsonrpc.Error
	calls  []string
	panics bool
}

func (s *stubProcessor) ProcessRequest(ctx context.Context, req *jsonrpc.Request) (interface{}, *jsonrpc.Error) {
	s.calls = append(s.calls, req.Method)
	if s.panics {
		panic("handler exploded")
	}
	if observability.GetRequestID(ctx) == "" {
		return nil, &jsonrpc.Error{Code: jsonrpc.InternalError, Message: "no request id"}
	}
	return s.result, s.err
}

func serve(t *testing.T, p RequestProcessor, input string) []string {
	t.Helper()
	var out bytes.Buffer
	s := NewStdio(p, strings.NewReader(input), &out)
	if err := s.Serve(context.Background()); err != nil {
		t.Fatalf("serve: %v", err)
	}
	var lines []string
	for _, line := range strings.Split(out.String(), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func TestServeOneResponsePerRequest(t *testing.T) {
	p := &stubProcessor{result: map[string]string{"ok": "yes"}}
	lines := serve(t, p, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}
{"jsonrpc":"2.0","id":2,"method":"tools/list"}
`)

	if len(lines) != 2 {
		t.Fatalf("got %d response lines, want 2", len(lines))
	}
	for i, line := range lines {
		var resp jsonrpc.Response
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", i, err)
		}
		if resp.Error != nil {
			t.Errorf("line %d: unexpected error %v", i, resp.Error)
		}
	}
	if len(p.calls) != 2 {
		t.Errorf("processor called %d times, want 2", len(p.calls))
	}
}

func TestServeNotificationsAreSilent(t *testing.T) {
	p := &stubProcessor{}
	lines := serve(t, p, `{"jsonrpc":"2.0","method":"initialized"}
{"jsonrpc":"2.0","id":1,"method":"tools/list"}
`)

	if len(lines) != 1 {
		t.Fatalf("got %d response lines, want 1 (notification must be silent)", len(lines))
	}
	if len(p.calls) != 2 {
		t.Errorf("processor called %d times, want 2 (notification still dispatched)", len(p.calls))
	}
}

func TestServeParseError(t *testing.T) {
	p := &stubProcessor{}
	lines := serve(t, p, "this is not json\n")

	if len(lines) != 1 {
		t.Fatalf("got %d response lines, want 1", len(lines))
	}
	var resp jsonrpc.Response
	if err := json.Unmarshal([]byte(lines[0]), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != jsonrpc.ParseError {
		t.Errorf("error = %v, want ParseError", resp.Error)
	}
	if len(p.calls) != 0 {
		t.Errorf("processor called %d times, want 0", len(p.calls))
	}
}

func TestServeBlankLinesSkipped(t *testing.T) {
	p := &stubProcessor{}
	lines := serve(t, p, "\n\n{\"jsonrpc\":\"2.0\",\"id\":1,\"method\":\"x\"}\n\n")

	if len(lines) != 1 {
		t.Fatalf("got %d response lines, want 1", len(lines))
	}
}

func TestServeErrorFromProcessor(t *testing.T) {
	p := &stubProcessor{err: &jsonrpc.Error{Code: jsonrpc.MethodNotFound, Message: "Method not found"}}
	lines := serve(t, p, `{"jsonrpc":"2.0","id":9,"method":"bogus"}
`)

	var resp jsonrpc.Response
	if err := json.Unmarshal([]byte(lines[0]), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != jsonrpc.MethodNotFound {
		t.Errorf("error = %v, want MethodNotFound", resp.Error)
	}
}

func TestServePanicRecovery(t *testing.T) {
	p := &stubProcessor{panics: true}
	lines := serve(t, p, `{"jsonrpc":"2.0","id":1,"method":"x"}
{"jsonrpc":"2.0","id":2,"method":"x"}
`)

	// The loop must survive the panic and answer both requests.
	if len(lines) != 2 {
		t.Fatalf("got %d response lines, want 2", len(lines))
	}
	for _, line := range lines {
		var resp jsonrpc.Response
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			t.Fatalf("response is not valid JSON: %v", err)
		}
		if resp.Error == nil || resp.Error.Code != jsonrpc.InternalError {
			t.Errorf("error = %v, want InternalError", resp.Error)
		}
	}
}

func TestServeLargeLine(t *testing.T) {
	p := &stubProcessor{result: "ok"}
	big := strings.Repeat("x", 200*1024)
	input := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"file_create","arguments":{"content":"` + big + `"}}}` + "\n"

	lines := serve(t, p, input)
	if len(lines) != 1 {
		t.Fatalf("got %d response lines, want 1", len(lines))
	}
	var resp jsonrpc.Response
	if err := json.Unmarshal([]byte(lines[0]), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if resp.Error != nil {
		t.Errorf("unexpected error for oversized line: %v", resp.Error)
	}
}
