package mcp

import (
	"context"
	"testing"

	"forgemcp/server/internal/jsonrpc"
	"forgemcp/server/internal/resolver"
	"forgemcp/server/internal/tools"
	"forgemcp/server/pkg/giteaapi"
)

func testHandler() *Handler {
	client := giteaapi.NewClient("http://forge.test", "token")
	registry := tools.NewRegistry(client, resolver.New(""))
	return NewHandler(registry)
}

func TestHandleInitialize(t *testing.T) {
	h := testHandler()

	result := h.handleInitialize()
	if result.ProtocolVersion != "2025-03-26" {
		t.Errorf("protocolVersion = %q, want %q", result.ProtocolVersion, "2025-03-26")
	}
	if result.ServerInfo.Name != "forgemcp" {
		t.Errorf("serverInfo.name = %q, want %q", result.ServerInfo.Name, "forgemcp")
	}
	if result.Capabilities.Tools == nil {
		t.Error("expected tools capability to be non-nil")
	}
}

func TestProcessRequestMethodNotFound(t *testing.T) {
	h := testHandler()
	req := &jsonrpc.Request{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "nonexistent/method",
	}

	_, rpcErr := h.ProcessRequest(context.TODO(), req)
	if rpcErr == nil {
		t.Fatal("expected error for unknown method")
	}
	if rpcErr.Code != MethodNotFound {
		t.Errorf("code = %d, want %d", rpcErr.Code, MethodNotFound)
	}
}

func TestProcessRequestInitialized(t *testing.T) {
	h := testHandler()

	for _, method := range []string{"initialized", "notifications/initialized"} {
		req := &jsonrpc.Request{
			JSONRPC: "2.0",
			Method:  method,
		}

		result, rpcErr := h.ProcessRequest(context.TODO(), req)
		if rpcErr != nil {
			t.Errorf("%s: unexpected error: %v", method, rpcErr.Message)
		}
		if result != nil {
			t.Errorf("%s: expected nil result, got %v", method, result)
		}
	}
}

func TestProcessRequestToolsList(t *testing.T) {
	h := testHandler()
	req := &jsonrpc.Request{
		JSONRPC: "2.0",
		ID:      3,
		Method:  "tools/list",
	}

	result, rpcErr := h.ProcessRequest(context.TODO(), req)
	if rpcErr != nil {
		t.Fatalf("unexpected error: %v", rpcErr.Message)
	}

	list, ok := result.(*ToolsListResult)
	if !ok {
		t.Fatalf("result type = %T, want *ToolsListResult", result)
	}
	if len(list.Tools) == 0 {
		t.Fatal("expected a non-empty tool list")
	}
	for _, tool := range list.Tools {
		if tool.Name == "" {
			t.Error("tool with empty name in listing")
		}
		if tool.InputSchema.Type != "object" {
			t.Errorf("tool %s: inputSchema.type = %q, want object", tool.Name, tool.InputSchema.Type)
		}
	}
}

func TestHandleToolCallParams(t *testing.T) {
	h := testHandler()

	tests := []struct {
		name     string
		params   interface{}
		wantCode int
	}{
		{"missing name", map[string]any{"arguments": map[string]any{}}, InvalidParams},
		{"params not an object", "bogus", InvalidParams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &jsonrpc.Request{
				JSONRPC: "2.0",
				ID:      4,
				Method:  "tools/call",
				Params:  tt.params,
			}

			_, rpcErr := h.ProcessRequest(context.TODO(), req)
			if rpcErr == nil {
				t.Fatal("expected error")
			}
			if rpcErr.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", rpcErr.Code, tt.wantCode)
			}
		})
	}
}

func TestHandleToolCallUnknownTool(t *testing.T) {
	h := testHandler()
	req := &jsonrpc.Request{
		JSONRPC: "2.0",
		ID:      5,
		Method:  "tools/call",
		Params:  map[string]any{"name": "no_such_tool"},
	}

	result, rpcErr := h.ProcessRequest(context.TODO(), req)
	if rpcErr != nil {
		t.Fatalf("unexpected protocol error: %v", rpcErr.Message)
	}

	callResult, ok := result.(*ToolCallResult)
	if !ok {
		t.Fatalf("result type = %T, want *ToolCallResult", result)
	}
	if !callResult.IsError {
		t.Error("expected isError for unknown tool")
	}
}
