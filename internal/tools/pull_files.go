package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

func pullFileTools(d *deps) []Descriptor {
	return []Descriptor{
		{
			Tool: Tool{
				Name:        "pr_files",
				Description: "List the files changed by a pull request with addition and deletion counts.",
				Annotations: AnnotateReadOnly,
				InputSchema: repoSchema(map[string]Property{
					"index": {Type: "number", Description: "Pull request number."},
				}, "index"),
			},
			Handler: d.prFiles,
		},
		{
			Tool: Tool{
				Name:        "pr_diff",
				Description: "Get the unified diff of a pull request.",
				Annotations: AnnotateReadOnly,
				InputSchema: repoSchema(map[string]Property{
					"index": {Type: "number", Description: "Pull request number."},
				}, "index"),
			},
			Handler: d.prDiff,
		},
	}
}

func (d *deps) prFiles(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}
	raw, err := d.client.GetJSON(ctx, repoPath+"/pulls/"+itoa(intParam(params, "index", 0))+"/files")
	if err != nil {
		return "", err
	}

	var files []map[string]any
	if err := json.Unmarshal(raw, &files); err != nil {
		return string(raw), nil
	}
	if len(files) == 0 {
		return "No changed files.", nil
	}

	lines := make([]string, 0, len(files))
	for _, f := range files {
		lines = append(lines, fmt.Sprintf("- %s (%s) +%d -%d",
			strOr(f, "filename", "unknown"),
			strOr(f, "status", "modified"),
			intVal(f, "additions"),
			intVal(f, "deletions")))
	}
	return strings.Join(lines, "\n"), nil
}

func (d *deps) prDiff(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}
	diff, err := d.client.GetRaw(ctx, repoPath+"/pulls/"+itoa(intParam(params, "index", 0))+".diff")
	if err != nil {
		return "", err
	}
	if diff == "" {
		return "No diff content.", nil
	}
	return "```diff\n" + diff + "\n```", nil
}
