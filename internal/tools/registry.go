package tools

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"forgemcp/server/internal/observability"
	"forgemcp/server/internal/resolver"
	"forgemcp/server/pkg/giteaapi"
)

// =============================================================================
// Registry
// =============================================================================

// toolTimeout is the maximum duration for a single tool execution.
const toolTimeout = 30 * time.Second

// Registry holds every registered tool keyed by name, plus the
// registration order so tools/list output is stable.
type Registry struct {
	descriptors map[string]Descriptor
	order       []string

	tracer trace.Tracer
	calls  metric.Int64Counter
}

// NewRegistry assembles the full tool surface against a forge client and
// a repository resolver.
func NewRegistry(client *giteaapi.Client, res *resolver.Resolver) *Registry {
	d := &deps{client: client, resolver: res}

	r := &Registry{
		descriptors: make(map[string]Descriptor),
		tracer:      otel.Tracer("forgemcp/tools"),
	}
	r.calls, _ = otel.Meter("forgemcp/tools").Int64Counter(
		"tool_calls_total",
		metric.WithDescription("Completed tool calls by name and status"),
	)

	r.register(issueTools(d))
	r.register(issueCommentTools(d))
	r.register(pullTools(d))
	r.register(reviewTools(d))
	r.register(pullFileTools(d))
	r.register(fileTools(d))
	r.register(branchTools(d))
	r.register(commitTools(d))
	r.register(labelTools(d))
	r.register(milestoneTools(d))
	r.register(notificationTools(d))
	r.register(releaseTools(d))
	r.register(repoTools(d))
	r.register(userTools(d))
	r.register(tagTools(d))
	r.register(wikiTools(d))
	r.register(orgTools(d))
	r.register(actionTools(d))

	return r
}

func (r *Registry) register(descriptors []Descriptor) {
	for _, desc := range descriptors {
		if _, exists := r.descriptors[desc.Tool.Name]; exists {
			panic(fmt.Sprintf("duplicate tool registration: %s", desc.Tool.Name))
		}
		r.descriptors[desc.Tool.Name] = desc
		r.order = append(r.order, desc.Tool.Name)
	}
}

// Tools returns all tool definitions in registration order.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.descriptors[name].Tool)
	}
	return out
}

// =============================================================================
// Dispatch
// =============================================================================

// Run executes a named tool. Validation failures and handler errors are
// reported as error results, never as transport errors, so the client
// model can read them and retry.
func (r *Registry) Run(ctx context.Context, name string, params map[string]any) *ToolResult {
	start := time.Now()

	desc, ok := r.descriptors[name]
	if !ok {
		return errorResult(fmt.Sprintf("unknown tool: %s", name))
	}

	ctx, span := r.tracer.Start(ctx, "tools."+name)
	defer span.End()

	validated, err := ValidateParams(desc.Tool.InputSchema, params)
	if err != nil {
		r.record(ctx, name, start, "invalid", err.Error())
		return errorResult(err.Error())
	}

	// Cap execution so a stalled forge cannot hang the session.
	ctx, cancel := context.WithTimeout(ctx, toolTimeout)
	defer cancel()

	text, err := desc.Handler(ctx, validated)
	if err != nil {
		errMsg := err.Error()
		if ctx.Err() == context.DeadlineExceeded {
			errMsg = fmt.Sprintf("Request timed out after %s. The forge did not respond in time.", toolTimeout)
		}
		r.record(ctx, name, start, "error", errMsg)
		return errorResult(errMsg)
	}

	r.record(ctx, name, start, "success", "")
	return textResult(text)
}

func (r *Registry) record(ctx context.Context, name string, start time.Time, status, errMsg string) {
	durationMs := time.Since(start).Milliseconds()
	observability.LogToolCall(observability.GetRequestID(ctx), name, durationMs, status, errMsg)
	if r.calls != nil {
		r.calls.Add(ctx, 1, metric.WithAttributes(
			attribute.String("tool", name),
			attribute.String("status", status),
		))
	}
}
