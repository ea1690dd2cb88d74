package tools

import (
	"context"
)

// =============================================================================
// Tool Definitions
// =============================================================================

func issueTools(d *deps) []Descriptor {
	return []Descriptor{
		{
			Tool: Tool{
				Name:        "issue_list",
				Description: "List issues in a repository. Pull requests are excluded.",
				Annotations: AnnotateReadOnly,
				InputSchema: repoSchema(merged(pageProps(), map[string]Property{
					"state":     {Type: "string", Description: "Filter by state.", Enum: []string{"open", "closed", "all"}, Default: "open"},
					"labels":    {Type: "string", Description: "Filter by comma-separated label names."},
					"milestone": {Type: "string", Description: "Filter by milestone name."},
					"all":       {Type: "boolean", Description: "Fetch every page instead of a single one. Ignores page."},
				})),
			},
			Handler: d.issueList,
		},
		{
			Tool: Tool{
				Name:        "issue_get",
				Description: "Get a single issue by number, including body, labels, assignees and milestone.",
				Annotations: AnnotateReadOnly,
				InputSchema: repoSchema(map[string]Property{
					"index": {Type: "number", Description: "Issue number."},
				}, "index"),
			},
			Handler: d.issueGet,
		},
		{
			Tool: Tool{
				Name:        "issue_create",
				Description: "Create a new issue.",
				Annotations: AnnotateCreate,
				InputSchema: repoSchema(map[string]Property{
					"title":     {Type: "string", Description: "Issue title."},
					"body":      {Type: "string", Description: "Issue body in markdown."},
					"labels":    {Type: "array", Description: "Label IDs to assign (from label_list).", Items: &Property{Type: "number"}},
					"milestone": {Type: "number", Description: "Milestone ID (from milestone_list)."},
					"assignees": {Type: "array", Description: "Usernames to assign.", Items: &Property{Type: "string"}},
				}, "title"),
			},
			Handler: d.issueCreate,
		},
		{
			Tool: Tool{
				Name:        "issue_edit",
				Description: "Edit an existing issue. Labels and assignees replace the existing sets.",
				Annotations: AnnotateUpdate,
				InputSchema: repoSchema(map[string]Property{
					"index":     {Type: "number", Description: "Issue number."},
					"title":     {Type: "string", Description: "New title."},
					"body":      {Type: "string", Description: "New body."},
					"state":     {Type: "string", Description: "New state.", Enum: []string{"open", "closed"}},
					"labels":    {Type: "array", Description: "Label IDs to set, replaces existing.", Items: &Property{Type: "number"}},
					"milestone": {Type: "number", Description: "Milestone ID."},
					"assignees": {Type: "array", Description: "Usernames to assign, replaces existing.", Items: &Property{Type: "string"}},
				}, "index"),
			},
			Handler: d.issueEdit,
		},
	}
}

// =============================================================================
// Handlers
// =============================================================================

func (d *deps) issueList(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}

	query := pageQuery(params)
	query.Set("state", strParam(params, "state"))
	// The forge mixes pull requests into the issue index unless told not to.
	query.Set("type", "issues")
	if labels := strParam(params, "labels"); labels != "" {
		query.Set("labels", labels)
	}
	if milestone := strParam(params, "milestone"); milestone != "" {
		query.Set("milestones", milestone)
	}

	var raw []byte
	if boolParam(params, "all") {
		query.Del("page")
		raw, err = d.client.GetJSONAllPages(ctx, repoPath+"/issues", query, 50)
	} else {
		raw, err = d.client.GetJSONQuery(ctx, repoPath+"/issues", query)
	}
	if err != nil {
		return "", err
	}
	return formatIssueList(raw), nil
}

func (d *deps) issueGet(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}
	raw, err := d.client.GetJSON(ctx, repoPath+"/issues/"+itoa(intParam(params, "index", 0)))
	if err != nil {
		return "", err
	}
	return formatIssue(raw), nil
}

func (d *deps) issueCreate(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}

	body := map[string]any{"title": strParam(params, "title")}
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

	raw, err := d.client.PostJSON(ctx, repoPath+"/issues", body)
	if err != nil {
		return "", err
	}
	return formatIssue(raw), nil
}

func (d *deps) issueEdit(ctx context.Context, params map[string]any) (string, error) {
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
	if hasParam(params, "milestone") {
		body["milestone"] = intParam(params, "milestone", 0)
	}
	if assignees := strSliceParam(params, "assignees"); assignees != nil {
		body["assignees"] = assignees
	}

	raw, err := d.client.PatchJSON(ctx, repoPath+"/issues/"+itoa(intParam(params, "index", 0)), body)
	if err != nil {
		return "", err
	}
	return formatIssue(raw), nil
}
