package tools

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"forgemcp/server/internal/resolver"
	"forgemcp/server/pkg/giteaapi"
)

// newTestRegistry wires the registry against a server that fails the test
// if it is ever reached. Tests that need a live endpoint build their own.
func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	return NewRegistry(giteaapi.NewClient(srv.URL, "token"), resolver.New(""))
}

func registryAgainst(t *testing.T, handler http.HandlerFunc) *Registry {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewRegistry(giteaapi.NewClient(srv.URL, "token"), resolver.New(""))
}

func TestRegistryMetadata(t *testing.T) {
	registry := newTestRegistry(t)

	tools := registry.Tools()
	if len(tools) == 0 {
		t.Fatal("empty registry")
	}

	seen := map[string]bool{}
	for _, tool := range tools {
		if tool.Name == "" {
			t.Error("tool with empty name")
		}
		if seen[tool.Name] {
			t.Errorf("duplicate tool name: %s", tool.Name)
		}
		seen[tool.Name] = true

		if tool.Description == "" {
			t.Errorf("tool %s has no description", tool.Name)
		}
		if tool.InputSchema.Type != "object" {
			t.Errorf("tool %s: schema type = %q", tool.Name, tool.InputSchema.Type)
		}
		if tool.Annotations == nil {
			t.Errorf("tool %s has no annotations", tool.Name)
		}
		for _, req := range tool.InputSchema.Required {
			if _, ok := tool.InputSchema.Properties[req]; !ok {
				t.Errorf("tool %s: required field %q not declared in properties", tool.Name, req)
			}
		}
	}
}

func TestRunUnknownTool(t *testing.T) {
	registry := newTestRegistry(t)

	result := registry.Run(context.Background(), "does_not_exist", map[string]any{})
	if !result.IsError {
		t.Fatal("expected error result")
	}
	if got := result.Content[0].Text; got != "unknown tool: does_not_exist" {
		t.Errorf("text = %q", got)
	}
}

func TestRunValidationShortCircuits(t *testing.T) {
	// The test registry's server errors on any request, so reaching the
	// network would fail the test. Validation must stop these first.
	registry := newTestRegistry(t)

	tests := []struct {
		name   string
		tool   string
		params map[string]any
		want   string
	}{
		{
			"missing required field",
			"issue_create",
			map[string]any{"owner": "alice", "repo": "widget"},
			"missing required parameter: title",
		},
		{
			"enum violation",
			"issue_list",
			map[string]any{"owner": "alice", "repo": "widget", "state": "pending"},
			`parameter "state": must be one of: open, closed, all`,
		},
		{
			"type mismatch",
			"issue_get",
			map[string]any{"owner": "alice", "repo": "widget", "index": "seven"},
			`parameter "index": expected number, got string`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := registry.Run(context.Background(), tt.tool, tt.params)
			if !result.IsError {
				t.Fatal("expected error result")
			}
			if got := result.Content[0].Text; got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunMissingRepoTarget(t *testing.T) {
	registry := newTestRegistry(t)

	result := registry.Run(context.Background(), "issue_get", map[string]any{"index": float64(1)})
	if !result.IsError {
		t.Fatal("expected error result")
	}
	if !strings.Contains(result.Content[0].Text, "no repository target") {
		t.Errorf("text = %q", result.Content[0].Text)
	}
}

func TestRunSuccess(t *testing.T) {
	registry := registryAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/repos/alice/widget/issues/7" {
			t.Errorf("path = %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"number": 7, "title": "Flaky build", "state": "open", "user": {"login": "bob"}}`)
	})

	result := registry.Run(context.Background(), "issue_get", map[string]any{
		"owner": "alice",
		"repo":  "widget",
		"index": float64(7),
	})
	if result.IsError {
		t.Fatalf("unexpected error result: %s", result.Content[0].Text)
	}

	text := result.Content[0].Text
	if !strings.Contains(text, "#7") || !strings.Contains(text, "Flaky build") {
		t.Errorf("text = %q", text)
	}
}

func TestRunAPIErrorBecomesErrorResult(t *testing.T) {
	registry := registryAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	result := registry.Run(context.Background(), "issue_get", map[string]any{
		"owner": "alice",
		"repo":  "widget",
		"index": float64(404),
	})
	if !result.IsError {
		t.Fatal("expected error result")
	}
	if !strings.Contains(result.Content[0].Text, "not found") {
		t.Errorf("text = %q", result.Content[0].Text)
	}
}

func TestRunFileConflictHint(t *testing.T) {
	registry := registryAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprint(w, "sha does not match")
	})

	result := registry.Run(context.Background(), "file_update", map[string]any{
		"owner":   "alice",
		"repo":    "widget",
		"path":    "README.md",
		"content": "hello",
		"message": "update readme",
		"sha":     "stale",
	})
	if !result.IsError {
		t.Fatal("expected error result")
	}
	if !strings.Contains(result.Content[0].Text, "run file_read again") {
		t.Errorf("text = %q, want the stale-sha hint", result.Content[0].Text)
	}
}

func TestRunPaginationDefaults(t *testing.T) {
	var gotQuery string
	registry := registryAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, "[]")
	})

	result := registry.Run(context.Background(), "issue_list", map[string]any{
		"owner": "alice",
		"repo":  "widget",
	})
	if result.IsError {
		t.Fatalf("unexpected error result: %s", result.Content[0].Text)
	}

	for _, want := range []string{"page=1", "limit=20", "type=issues", "state=open"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestRunPaginationLimitCapped(t *testing.T) {
	var gotQuery string
	registry := registryAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, "[]")
	})

	result := registry.Run(context.Background(), "issue_list", map[string]any{
		"owner": "alice",
		"repo":  "widget",
		"limit": float64(500),
	})
	if result.IsError {
		t.Fatalf("unexpected error result: %s", result.Content[0].Text)
	}
	if !strings.Contains(gotQuery, "limit=50") {
		t.Errorf("query %q: limit not capped at 50", gotQuery)
	}
}
