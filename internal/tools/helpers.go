package tools

import (
	"net/url"
	"strconv"

	"forgemcp/server/internal/resolver"
	"forgemcp/server/pkg/giteaapi"
)

// deps is what every handler closure captures: the forge client and the
// repository resolver. Handlers hold no other state.
type deps struct {
	client   *giteaapi.Client
	resolver *resolver.Resolver
}

// repoPath resolves the repository target of a call and returns the
// "/repos/{owner}/{repo}" path prefix all repository-scoped endpoints
// share.
func (d *deps) repoPath(params map[string]any) (string, error) {
	ref, err := d.resolver.Resolve(
		strParam(params, "owner"),
		strParam(params, "repo"),
		strParam(params, "directory"),
	)
	if err != nil {
		return "", err
	}
	return "/repos/" + ref.Owner + "/" + ref.Name, nil
}

// =============================================================================
// Parameter accessors. Required-ness and types are enforced by
// ValidateParams before handlers run; these only convert.
// =============================================================================

func strParam(params map[string]any, key string) string {
	s, _ := params[key].(string)
	return s
}

func hasParam(params map[string]any, key string) bool {
	v, ok := params[key]
	return ok && v != nil
}

// intParam converts a JSON number (float64) or a Go int default.
func intParam(params map[string]any, key string, def int64) int64 {
	switch v := params[key].(type) {
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	default:
		return def
	}
}

func boolParam(params map[string]any, key string) bool {
	b, _ := params[key].(bool)
	return b
}

// strSliceParam converts a JSON array of strings; other elements are
// silently skipped.
func strSliceParam(params map[string]any, key string) []string {
	arr, ok := params[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// intSliceParam converts a JSON array of numbers (label IDs and the like).
func intSliceParam(params map[string]any, key string) []int64 {
	arr, ok := params[key].([]any)
	if !ok {
		return nil
	}
	out := make([]int64, 0, len(arr))
	for _, item := range arr {
		if n, ok := item.(float64); ok {
			out = append(out, int64(n))
		}
	}
	return out
}

// pageQuery builds the standard page/limit query from validated params.
// The limit is capped at 50 server-side anyway; capping here keeps the
// request honest.
func pageQuery(params map[string]any) url.Values {
	q := url.Values{}
	q.Set("page", strconv.FormatInt(intParam(params, "page", 1), 10))
	limit := intParam(params, "limit", 20)
	if limit > 50 {
		limit = 50
	}
	q.Set("limit", strconv.FormatInt(limit, 10))
	return q
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
