// Package mcp implements the Model Context Protocol request handler.
package mcp

import (
	"context"
	"encoding/json"

	"forgemcp/server/internal/jsonrpc"
	"forgemcp/server/internal/tools"
)

const (
	protocolVersion = "2025-03-26"
	serverVersion   = "0.1.0"
)

type Handler struct {
	registry *tools.Registry
}

func NewHandler(registry *tools.Registry) *Handler {
	return &Handler{
		registry: registry,
	}
}

// ProcessRequest routes a JSON-RPC request to the appropriate handler.
// Called by the transport loop.
func (h *Handler) ProcessRequest(ctx context.Context, req *jsonrpc.Request) (interface{}, *jsonrpc.Error) {
	switch req.Method {
	case "initialize":
		return h.handleInitialize(), nil
	case "initialized", "notifications/initialized":
		return nil, nil
	case "tools/list":
		return h.handleToolsList(), nil
	case "tools/call":
		return h.handleToolCall(ctx, req)
	default:
		return nil, &jsonrpc.Error{Code: MethodNotFound, Message: "Method not found"}
	}
}

func (h *Handler) handleInitialize() *InitializeResult {
	return &InitializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities: ServerCapabilities{
			Tools: &ToolsCapability{},
		},
		ServerInfo: ServerInfo{
			Name:    "forgemcp",
			Version: serverVersion,
		},
	}
}

func (h *Handler) handleToolsList() *ToolsListResult {
	return &ToolsListResult{Tools: h.registry.Tools()}
}

func (h *Handler) handleToolCall(ctx context.Context, req *jsonrpc.Request) (*ToolCallResult, *jsonrpc.Error) {
	paramsBytes, err := json.Marshal(req.Params)
	if err != nil {
		return nil, &jsonrpc.Error{Code: InvalidParams, Message: "Invalid params"}
	}

	var params ToolCallParams
	if err := json.Unmarshal(paramsBytes, &params); err != nil {
		return nil, &jsonrpc.Error{Code: InvalidParams, Message: "Invalid params structure"}
	}

	if params.Name == "" {
		return nil, &jsonrpc.Error{Code: InvalidParams, Message: "tool name is required"}
	}

	if params.Arguments == nil {
		params.Arguments = map[string]interface{}{}
	}

	return h.registry.Run(ctx, params.Name, params.Arguments), nil
}
