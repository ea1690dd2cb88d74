package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

func milestoneTools(d *deps) []Descriptor {
	return []Descriptor{
		{
			Tool: Tool{
				Name:        "milestone_list",
				Description: "List milestones in a repository with their IDs and issue counts.",
				Annotations: AnnotateReadOnly,
				InputSchema: repoSchema(map[string]Property{
					"state": {Type: "string", Description: "Filter by state.", Enum: []string{"open", "closed", "all"}, Default: "open"},
				}),
			},
			Handler: d.milestoneList,
		},
		{
			Tool: Tool{
				Name:        "milestone_get",
				Description: "Get a milestone by ID.",
				Annotations: AnnotateReadOnly,
				InputSchema: repoSchema(map[string]Property{
					"id": {Type: "number", Description: "Milestone ID (from milestone_list)."},
				}, "id"),
			},
			Handler: d.milestoneGet,
		},
		{
			Tool: Tool{
				Name:        "milestone_create",
				Description: "Create a milestone.",
				Annotations: AnnotateCreate,
				InputSchema: repoSchema(map[string]Property{
					"title":       {Type: "string", Description: "Milestone title."},
					"description": {Type: "string", Description: "Milestone description."},
					"due_on":      {Type: "string", Description: "Due date in ISO 8601 format (e.g. \"2025-12-31T00:00:00Z\")."},
				}, "title"),
			},
			Handler: d.milestoneCreate,
		},
	}
}

func (d *deps) milestoneList(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}

	query := url.Values{}
	query.Set("state", strParam(params, "state"))
	raw, err := d.client.GetJSONQuery(ctx, repoPath+"/milestones", query)
	if err != nil {
		return "", err
	}

	var milestones []map[string]any
	if err := json.Unmarshal(raw, &milestones); err != nil {
		return string(raw), nil
	}
	if len(milestones) == 0 {
		return "No milestones found.", nil
	}

	lines := make([]string, 0, len(milestones))
	for _, m := range milestones {
		lines = append(lines, fmt.Sprintf("- %s (%s) [id: %d] - %d open, %d closed",
			strOr(m, "title", "?"), strOr(m, "state", "?"), intVal(m, "id"),
			intVal(m, "open_issues"), intVal(m, "closed_issues")))
	}
	return strings.Join(lines, "\n"), nil
}

func (d *deps) milestoneGet(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}
	raw, err := d.client.GetJSON(ctx, repoPath+"/milestones/"+itoa(intParam(params, "id", 0)))
	if err != nil {
		return "", err
	}
	return formatValue(raw), nil
}

func (d *deps) milestoneCreate(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}

	title := strParam(params, "title")
	body := map[string]any{"title": title}
	if desc := strParam(params, "description"); desc != "" {
		body["description"] = desc
	}
	if due := strParam(params, "due_on"); due != "" {
		body["due_on"] = due
	}

	raw, err := d.client.PostJSON(ctx, repoPath+"/milestones", body)
	if err != nil {
		return "", err
	}

	var milestone map[string]any
	if err := json.Unmarshal(raw, &milestone); err == nil {
		if t := str(milestone, "title"); t != "" {
			title = t
		}
	}
	return "Milestone created: " + title, nil
}
