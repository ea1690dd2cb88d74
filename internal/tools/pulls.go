package tools

import (
	"context"
	"fmt"
)

// =============================================================================
// Tool Definitions
// =============================================================================

func pullTools(d *deps) []Descriptor {
	return []Descriptor{
		{
			Tool: Tool{
				Name:        "pr_list",
				Description: "List pull requests in a repository.",
				Annotations: AnnotateReadOnly,
				InputSchema: repoSchema(merged(pageProps(), map[string]Property{
					"state": {Type: "string", Description: "Filter by state.", Enum: []string{"open", "closed", "all"}, Default: "open"},
				})),
			},
			Handler: d.prList,
		},
		{
			Tool: Tool{
				Name:        "pr_get",
				Description: "Get a single pull request by number, including branches and mergeability.",
				Annotations: AnnotateReadOnly,
				InputSchema: repoSchema(map[string]Property{
					"index": {Type: "number", Description: "Pull request number."},
				}, "index"),
			},
			Handler: d.prGet,
		},
		{
			Tool: Tool{
				Name:        "pr_create",
				Description: "Open a new pull request from head into base.",
				Annotations: AnnotateCreate,
				InputSchema: repoSchema(map[string]Property{
					"title":     {Type: "string", Description: "Pull request title."},
					"head":      {Type: "string", Description: "Head branch (source)."},
					"base":      {Type: "string", Description: "Base branch (target)."},
					"body":      {Type: "string", Description: "Pull request body."},
					"labels":    {Type: "array", Description: "Label IDs (from label_list).", Items: &Property{Type: "number"}},
					"milestone": {Type: "number", Description: "Milestone ID (from milestone_list)."},
					"assignees": {Type: "array", Description: "Assignee usernames.", Items: &Property{Type: "string"}},
				}, "title", "head", "base"),
			},
			Handler: d.prCreate,
		},
		{
			Tool: Tool{
				Name:        "pr_edit",
				Description: "Edit an existing pull request. Labels and assignees replace the existing sets.",
				Annotations: AnnotateUpdate,
				InputSchema: repoSchema(map[string]Property{
					"index":     {Type: "number", Description: "Pull request number."},
					"title":     {Type: "string", Description: "New title."},
					"body":      {Type: "string", Description: "New body."},
					"state":     {Type: "string", Description: "New state.", Enum: []string{"open", "closed"}},
					"labels":    {Type: "array", Description: "Label IDs, replaces existing.", Items: &Property{Type: "number"}},
					"assignees": {Type: "array", Description: "Assignee usernames, replaces existing.", Items: &Property{Type: "string"}},
				}, "index"),
			},
			Handler: d.prEdit,
		},
		{
			Tool: Tool{
				Name:        "pr_merge",
				Description: "Merge a pull request.",
				Annotations: AnnotateUpdate,
				InputSchema: repoSchema(map[string]Property{
					"index":                     {Type: "number", Description: "Pull request number."},
					"merge_style":               {Type: "string", Description: "Merge strategy.", Enum: []string{"merge", "rebase", "rebase-merge", "squash"}, Default: "merge"},
					"merge_message":             {Type: "string", Description: "Custom merge commit message."},
					"delete_branch_after_merge": {Type: "boolean", Description: "Delete the head branch after merging."},
				}, "index"),
			},
			Handler: d.prMerge,
		},
	}
}

// =============================================================================
// Handlers
// =============================================================================

func (d *deps) prList(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}
	query := pageQuery(params)
	query.Set("state", strParam(params, "state"))
	raw, err := d.client.GetJSONQuery(ctx, repoPath+"/pulls", query)
	if err != nil {
		return "", err
	}
	return formatPullList(raw), nil
}

func (d *deps) prGet(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}
	raw, err := d.client.GetJSON(ctx, repoPath+"/pulls/"+itoa(intParam(params, "index", 0)))
	if err != nil {
		return "", err
	}
	return formatPull(raw), nil
}

func (d *deps) prCreate(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}

	body := map[string]any{
		"title": strParam(params, "title"),
		"head":  strParam(params, "head"),
		"base":  strParam(params, "base"),
	}
	if v := strParam(params, "body"); v != "" {
		body["body"] = v
	}
	if labels := intSliceParam(params, "labels"); labels != nil {
		body["labels"] = labels
	}
	if hasParam(params, "milestone") {
		body["milestone"] = intParam(params, "milestone", 0)
	}
	if assignees := strSliceParam(params, "assignees"); assignees != nil {
		body["assignees"] = assignees
	}

	raw, err := d.client.PostJSON(ctx, repoPath+"/pulls", body)
	if err != nil {
		return "", err
	}
	return formatPull(raw), nil
}

func (d *deps) prEdit(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}

	body := map[string]any{}
	for _, key := range []string{"title", "body", "state"} {
		if v := strParam(params, key); v != "" {
			body[key] = v
		}
	}
	if labels := intSliceParam(params, "labels"); labels != nil {
		body["labels"] = labels
	}
	if assignees := strSliceParam(params, "assignees"); assignees != nil {
		body["assignees"] = assignees
	}

	raw, err := d.client.PatchJSON(ctx, repoPath+"/pulls/"+itoa(intParam(params, "index", 0)), body)
	if err != nil {
		return "", err
	}
	return formatPull(raw), nil
}

func (d *deps) prMerge(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}

	index := intParam(params, "index", 0)
	// The merge endpoint takes the strategy under the "Do" key.
	body := map[string]any{"Do": strParam(params, "merge_style")}
	if msg := strParam(params, "merge_message"); msg != "" {
		body["merge_message_field"] = msg
	}
	if hasParam(params, "delete_branch_after_merge") {
		body["delete_branch_after_merge"] = boolParam(params, "delete_branch_after_merge")
	}

	if err := d.client.PostNoContent(ctx, repoPath+"/pulls/"+itoa(index)+"/merge", body); err != nil {
		return "", err
	}
	return fmt.Sprintf("Pull request #%d merged successfully.", index), nil
}
