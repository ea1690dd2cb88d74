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

func branchTools(d *deps) []Descriptor {
	return []Descriptor{
		{
			Tool: Tool{
				Name:        "branch_list",
				Description: "List branches in a repository.",
				Annotations: AnnotateReadOnly,
				InputSchema: repoSchema(pageProps()),
			},
			Handler: d.branchList,
		},
		{
			Tool: Tool{
				Name:        "branch_create",
				Description: "Create a new branch.",
				Annotations: AnnotateCreate,
				InputSchema: repoSchema(map[string]Property{
					"new_branch_name": {Type: "string", Description: "Name for the new branch."},
					"old_branch_name": {Type: "string", Description: "Source branch or commit SHA. Defaults to the default branch."},
				}, "new_branch_name"),
			},
			Handler: d.branchCreate,
		},
		{
			Tool: Tool{
				Name:        "branch_delete",
				Description: "Delete a branch.",
				Annotations: AnnotateDelete,
				InputSchema: repoSchema(map[string]Property{
					"branch": {Type: "string", Description: "Branch name to delete."},
				}, "branch"),
			},
			Handler: d.branchDelete,
		},
		{
			Tool: Tool{
				Name:        "branch_protection_list",
				Description: "List branch protection rules.",
				Annotations: AnnotateReadOnly,
				InputSchema: repoSchema(nil),
			},
			Handler: d.branchProtectionList,
		},
		{
			Tool: Tool{
				Name:        "branch_protection_create",
				Description: "Create a branch protection rule.",
				Annotations: AnnotateCreate,
				InputSchema: repoSchema(map[string]Property{
					"branch_name":               {Type: "string", Description: "Branch name pattern to protect (e.g. \"main\", \"release/*\")."},
					"enable_push":               {Type: "boolean", Description: "Allow direct pushes to this branch."},
					"block_on_rejected_reviews": {Type: "boolean", Description: "Block merging when reviews have been rejected."},
				}, "branch_name"),
			},
			Handler: d.branchProtectionCreate,
		},
	}
}

// =============================================================================
// Handlers
// =============================================================================

func (d *deps) branchList(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}
	raw, err := d.client.GetJSONQuery(ctx, repoPath+"/branches", pageQuery(params))
	if err != nil {
		return "", err
	}
	return formatBranchList(raw), nil
}

func (d *deps) branchCreate(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}

	name := strParam(params, "new_branch_name")
	body := map[string]any{"new_branch_name": name}
	if old := strParam(params, "old_branch_name"); old != "" {
		body["old_branch_name"] = old
	}

	raw, err := d.client.PostJSON(ctx, repoPath+"/branches", body)
	if err != nil {
		return "", err
	}

	var branch map[string]any
	if err := json.Unmarshal(raw, &branch); err == nil {
		if n := str(branch, "name"); n != "" {
			name = n
		}
	}
	return "Branch created: " + name, nil
}

func (d *deps) branchDelete(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}
	branch := strParam(params, "branch")
	if err := d.client.Delete(ctx, repoPath+"/branches/"+branch); err != nil {
		return "", err
	}
	return "Branch deleted: " + branch, nil
}

func (d *deps) branchProtectionList(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}
	raw, err := d.client.GetJSON(ctx, repoPath+"/branch_protections")
	if err != nil {
		return "", err
	}

	var rules []map[string]any
	if err := json.Unmarshal(raw, &rules); err != nil {
		return string(raw), nil
	}
	if len(rules) == 0 {
		return "No branch protection rules found.", nil
	}

	lines := make([]string, 0, len(rules))
	for _, r := range rules {
		lines = append(lines, fmt.Sprintf("- %s (push: %v)", strOr(r, "branch_name", "unknown"), boolVal(r, "enable_push")))
	}
	return strings.Join(lines, "\n"), nil
}

func (d *deps) branchProtectionCreate(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}

	name := strParam(params, "branch_name")
	body := map[string]any{"branch_name": name}
	if hasParam(params, "enable_push") {
		body["enable_push"] = boolParam(params, "enable_push")
	}
	if hasParam(params, "block_on_rejected_reviews") {
		body["block_on_rejected_reviews"] = boolParam(params, "block_on_rejected_reviews")
	}

	if _, err := d.client.PostJSON(ctx, repoPath+"/branch_protections", body); err != nil {
		return "", err
	}
	return "Branch protection created for: " + name, nil
}
