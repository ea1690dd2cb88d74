package tools

import "context"

// =============================================================================
// Tool Definition
// =============================================================================

// ToolAnnotations describes the tool's behavior hints defined by MCP.
type ToolAnnotations struct {
	ReadOnlyHint    *bool `json:"readOnlyHint,omitempty"`
	DestructiveHint *bool `json:"destructiveHint,omitempty"`
	IdempotentHint  *bool `json:"idempotentHint,omitempty"`
	OpenWorldHint   *bool `json:"openWorldHint,omitempty"`
}

func boolPtr(v bool) *bool { return &v }

// Pre-built annotation sets for common tool patterns
var (
	// AnnotateReadOnly: list, get, search tools
	AnnotateReadOnly = &ToolAnnotations{
		ReadOnlyHint:  boolPtr(true),
		OpenWorldHint: boolPtr(false),
	}
	// AnnotateCreate: create, add tools (non-idempotent write)
	AnnotateCreate = &ToolAnnotations{
		ReadOnlyHint:    boolPtr(false),
		DestructiveHint: boolPtr(false),
		IdempotentHint:  boolPtr(false),
		OpenWorldHint:   boolPtr(false),
	}
	// AnnotateUpdate: edit, mark tools (idempotent write)
	AnnotateUpdate = &ToolAnnotations{
		ReadOnlyHint:    boolPtr(false),
		DestructiveHint: boolPtr(false),
		IdempotentHint:  boolPtr(true),
		OpenWorldHint:   boolPtr(false),
	}
	// AnnotateDelete: delete tools (destructive, idempotent)
	AnnotateDelete = &ToolAnnotations{
		ReadOnlyHint:    boolPtr(false),
		DestructiveHint: boolPtr(true),
		IdempotentHint:  boolPtr(true),
		OpenWorldHint:   boolPtr(false),
	}
)

// Tool is the declarative metadata of one MCP tool.
type Tool struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	InputSchema InputSchema      `json:"inputSchema"`
	Annotations *ToolAnnotations `json:"annotations,omitempty"`
}

// InputSchema defines the input parameters for a tool.
type InputSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// Property defines a single property in the input schema. Enum and
// Default are enforced by ValidateParams before a handler runs; neither
// is serialized beyond the standard JSON Schema keywords.
type Property struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Items       *Property `json:"items,omitempty"`
	Enum        []string  `json:"enum,omitempty"`
	Default     any       `json:"default,omitempty"`
}

// Handler executes one validated tool call and returns formatted text.
type Handler func(ctx context.Context, params map[string]any) (string, error)

// Descriptor binds a tool's metadata to its handler.
type Descriptor struct {
	Tool    Tool
	Handler Handler
}

// =============================================================================
// Result Types
// =============================================================================

// ToolResult is the protocol-shaped result of a tool call.
type ToolResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// ContentBlock is one content block in a result.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func textResult(text string) *ToolResult {
	return &ToolResult{Content: []ContentBlock{{Type: "text", Text: text}}}
}

func errorResult(text string) *ToolResult {
	return &ToolResult{Content: []ContentBlock{{Type: "text", Text: text}}, IsError: true}
}

// =============================================================================
// Shared schema fragments
// =============================================================================

// repoProps returns the owner/repo/directory properties shared by every
// repository-scoped tool. None is individually required: the resolver
// accepts either the explicit pair or a directory.
func repoProps() map[string]Property {
	return map[string]Property{
		"owner":     {Type: "string", Description: "Repository owner (user or organization). Optional if directory is provided."},
		"repo":      {Type: "string", Description: "Repository name. Optional if directory is provided."},
		"directory": {Type: "string", Description: "Local directory path with a git checkout to auto-detect owner/repo from."},
	}
}

// repoSchema builds an object schema from the shared repository properties
// plus tool-specific ones.
func repoSchema(extra map[string]Property, required ...string) InputSchema {
	props := repoProps()
	for k, v := range extra {
		props[k] = v
	}
	return InputSchema{Type: "object", Properties: props, Required: required}
}

// objectSchema builds an object schema for repository-free tools.
func objectSchema(props map[string]Property, required ...string) InputSchema {
	if props == nil {
		props = map[string]Property{}
	}
	return InputSchema{Type: "object", Properties: props, Required: required}
}

// pageProps returns the standard pagination properties.
func pageProps() map[string]Property {
	return map[string]Property{
		"page":  {Type: "number", Description: "Page number (1-based).", Default: 1},
		"limit": {Type: "number", Description: "Items per page (max 50).", Default: 20},
	}
}

// merged combines property maps; later maps win on key collisions.
func merged(maps ...map[string]Property) map[string]Property {
	out := map[string]Property{}
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
