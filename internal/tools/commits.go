package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// =============================================================================
// Tool Definitions
// =============================================================================

func commitTools(d *deps) []Descriptor {
	return []Descriptor{
		{
			Tool: Tool{
				Name:        "commit_list",
				Description: "List commits on a branch or for a file path.",
				Annotations: AnnotateReadOnly,
				InputSchema: repoSchema(merged(pageProps(), map[string]Property{
					"sha":  {Type: "string", Description: "Branch, tag, or commit SHA to list from. Defaults to the default branch."},
					"path": {Type: "string", Description: "Filter commits touching this file path."},
				})),
			},
			Handler: d.commitList,
		},
		{
			Tool: Tool{
				Name:        "commit_get",
				Description: "Get a single commit by SHA.",
				Annotations: AnnotateReadOnly,
				InputSchema: repoSchema(map[string]Property{
					"sha": {Type: "string", Description: "Commit SHA."},
				}, "sha"),
			},
			Handler: d.commitGet,
		},
		{
			Tool: Tool{
				Name:        "commit_diff",
				Description: "Get the unified diff of a commit.",
				Annotations: AnnotateReadOnly,
				InputSchema: repoSchema(map[string]Property{
					"sha": {Type: "string", Description: "Commit SHA."},
				}, "sha"),
			},
			Handler: d.commitDiff,
		},
		{
			Tool: Tool{
				Name:        "commit_compare",
				Description: "Compare two refs: commits between them and changed files.",
				Annotations: AnnotateReadOnly,
				InputSchema: repoSchema(map[string]Property{
					"base": {Type: "string", Description: "Base ref (branch, tag, or SHA)."},
					"head": {Type: "string", Description: "Head ref (branch, tag, or SHA)."},
				}, "base", "head"),
			},
			Handler: d.commitCompare,
		},
	}
}

// =============================================================================
// Handlers
// =============================================================================

func (d *deps) commitList(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}

	query := pageQuery(params)
	if sha := strParam(params, "sha"); sha != "" {
		query.Set("sha", sha)
	}
	if path := strParam(params, "path"); path != "" {
		query.Set("path", path)
	}

	raw, err := d.client.GetJSONQuery(ctx, repoPath+"/commits", query)
	if err != nil {
		return "", err
	}
	return formatCommitList(raw), nil
}

func (d *deps) commitGet(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}
	raw, err := d.client.GetJSON(ctx, repoPath+"/git/commits/"+strParam(params, "sha"))
	if err != nil {
		return "", err
	}
	return formatCommit(raw), nil
}

func (d *deps) commitDiff(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}
	diff, err := d.client.GetRaw(ctx, repoPath+"/git/commits/"+strParam(params, "sha")+".diff")
	if err != nil {
		return "", err
	}
	if diff == "" {
		return "No diff content.", nil
	}
	return "```diff\n" + diff + "\n```", nil
}

func (d *deps) commitCompare(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}
	raw, err := d.client.GetJSON(ctx, repoPath+"/compare/"+strParam(params, "base")+"..."+strParam(params, "head"))
	if err != nil {
		return "", err
	}

	var result map[string]any
	if err := json.Unmarshal(raw, &result); err != nil {
		return string(raw), nil
	}

	var out []string
	if commits, ok := result["commits"].([]any); ok {
		out = append(out, fmt.Sprintf("**Commits:** %d", len(commits)))
		for _, raw := range commits {
			c, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			msg := ""
			if meta, ok := c["commit"].(map[string]any); ok {
				msg = firstLine(str(meta, "message"))
			}
			out = append(out, fmt.Sprintf("- `%s` %s", shortSHA(str(c, "sha")), msg))
		}
	}
	if files, ok := result["files"].([]any); ok {
		out = append(out, fmt.Sprintf("\n**Changed files:** %d", len(files)))
		for i, raw := range files {
			if i >= 50 {
				break
			}
			f, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			out = append(out, fmt.Sprintf("- %s (%s)", strOr(f, "filename", "unknown"), strOr(f, "status", "modified")))
		}
	}
	if len(out) == 0 {
		return "No differences found.", nil
	}
	return strings.Join(out, "\n"), nil
}
