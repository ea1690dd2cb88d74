package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

func repoTools(d *deps) []Descriptor {
	return []Descriptor{
		{
			Tool: Tool{
				Name:        "repo_get",
				Description: "Get repository metadata: description, default branch, stars, visibility.",
				Annotations: AnnotateReadOnly,
				InputSchema: repoSchema(nil),
			},
			Handler: d.repoGet,
		},
		{
			Tool: Tool{
				Name:        "repo_search",
				Description: "Search repositories on the forge by keyword.",
				Annotations: AnnotateReadOnly,
				InputSchema: objectSchema(merged(pageProps(), map[string]Property{
					"q": {Type: "string", Description: "Search keyword."},
				}), "q"),
			},
			Handler: d.repoSearch,
		},
	}
}

func (d *deps) repoGet(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}
	raw, err := d.client.GetJSON(ctx, repoPath)
	if err != nil {
		return "", err
	}

	var repo map[string]any
	if err := json.Unmarshal(raw, &repo); err != nil {
		return string(raw), nil
	}

	parts := []string{"## " + strOr(repo, "full_name", "unknown")}
	if desc := str(repo, "description"); desc != "" {
		parts = append(parts, "**Description:** "+desc)
	}
	if branch := str(repo, "default_branch"); branch != "" {
		parts = append(parts, "**Default branch:** "+branch)
	}
	parts = append(parts, fmt.Sprintf("**Stars:** %d | **Forks:** %d", intVal(repo, "stars_count"), intVal(repo, "forks_count")))
	visibility := "public"
	if boolVal(repo, "private") {
		visibility = "private"
	}
	parts = append(parts, "**Visibility:** "+visibility)
	if lang := str(repo, "language"); lang != "" {
		parts = append(parts, "**Language:** "+lang)
	}
	return strings.Join(parts, "\n"), nil
}

func (d *deps) repoSearch(ctx context.Context, params map[string]any) (string, error) {
	query := pageQuery(params)
	query.Set("q", strParam(params, "q"))

	raw, err := d.client.GetJSONQuery(ctx, "/repos/search", query)
	if err != nil {
		return "", err
	}

	var result map[string]any
	if err := json.Unmarshal(raw, &result); err != nil {
		return string(raw), nil
	}
	repos, _ := result["data"].([]any)
	if len(repos) == 0 {
		return "No repositories found.", nil
	}

	lines := make([]string, 0, len(repos))
	for _, raw := range repos {
		r, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		line := fmt.Sprintf("- %s (%d stars)", strOr(r, "full_name", "?"), intVal(r, "stars_count"))
		if desc := str(r, "description"); desc != "" {
			line += " - " + desc
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}
