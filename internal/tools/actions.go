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

func actionTools(d *deps) []Descriptor {
	return []Descriptor{
		{
			Tool: Tool{
				Name:        "actions_workflow_list",
				Description: "List CI workflows. Falls back to listing workflow files when the tasks endpoint is empty.",
				Annotations: AnnotateReadOnly,
				InputSchema: repoSchema(nil),
			},
			Handler: d.actionsWorkflowList,
		},
		{
			Tool: Tool{
				Name:        "actions_run_list",
				Description: "List CI workflow runs.",
				Annotations: AnnotateReadOnly,
				InputSchema: repoSchema(pageProps()),
			},
			Handler: d.actionsRunList,
		},
		{
			Tool: Tool{
				Name:        "actions_run_get",
				Description: "Get a workflow run by ID with its status and timing.",
				Annotations: AnnotateReadOnly,
				InputSchema: repoSchema(map[string]Property{
					"run_id": {Type: "number", Description: "Workflow run ID."},
				}, "run_id"),
			},
			Handler: d.actionsRunGet,
		},
		{
			Tool: Tool{
				Name:        "actions_job_logs",
				Description: "Get the logs of a workflow job.",
				Annotations: AnnotateReadOnly,
				InputSchema: repoSchema(map[string]Property{
					"job_id": {Type: "number", Description: "Job ID (from actions_run_get)."},
				}, "job_id"),
			},
			Handler: d.actionsJobLogs,
		},
	}
}

// =============================================================================
// Handlers
// =============================================================================

func (d *deps) actionsWorkflowList(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}

	// The tasks endpoint is best effort: older forges don't have it.
	runs := d.workflowRuns(ctx, repoPath)
	if len(runs) == 0 {
		// Fall back to listing workflow definition files.
		for _, dir := range []string{".gitea/workflows", ".github/workflows"} {
			names := d.workflowFiles(ctx, repoPath, dir)
			if len(names) > 0 {
				return "Workflow files:\n" + strings.Join(names, "\n"), nil
			}
		}
		return "No workflows found.", nil
	}

	lines := make([]string, 0, len(runs))
	for _, w := range runs {
		lines = append(lines, fmt.Sprintf("- %s (%s)", strOr(w, "name", "?"), strOr(w, "status", "unknown")))
	}
	return strings.Join(lines, "\n"), nil
}

func (d *deps) workflowRuns(ctx context.Context, repoPath string) []map[string]any {
	raw, err := d.client.GetJSON(ctx, repoPath+"/actions/tasks")
	if err != nil {
		return nil
	}
	var result map[string]any
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil
	}
	items, _ := result["workflow_runs"].([]any)
	runs := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			runs = append(runs, m)
		}
	}
	return runs
}

func (d *deps) workflowFiles(ctx context.Context, repoPath, dir string) []string {
	raw, err := d.client.GetJSON(ctx, repoPath+"/contents/"+dir)
	if err != nil {
		return nil
	}
	var entries []map[string]any
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, "- "+strOr(e, "name", "?"))
	}
	return names
}

func (d *deps) actionsRunList(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}
	raw, err := d.client.GetJSONQuery(ctx, repoPath+"/actions/runs", pageQuery(params))
	if err != nil {
		return "", err
	}

	var result map[string]any
	if err := json.Unmarshal(raw, &result); err != nil {
		return string(raw), nil
	}
	items, _ := result["workflow_runs"].([]any)
	if len(items) == 0 {
		return "No workflow runs found.", nil
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		r, ok := item.(map[string]any)
		if !ok {
			continue
		}
		title := firstStr(r, "display_title", "name")
		if title == "" {
			title = "(untitled)"
		}
		workflow := "?"
		if path := str(r, "path"); path != "" {
			workflow = strings.SplitN(path, "@", 2)[0]
		}
		state := str(r, "conclusion")
		if state == "" {
			state = strOr(r, "status", "unknown")
		}
		lines = append(lines, fmt.Sprintf("- #%d [%s] %s (%s)", intVal(r, "run_number"), workflow, title, state))
	}
	return strings.Join(lines, "\n"), nil
}

func (d *deps) actionsRunGet(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}
	raw, err := d.client.GetJSON(ctx, repoPath+"/actions/runs/"+itoa(intParam(params, "run_id", 0)))
	if err != nil {
		return "", err
	}

	var run map[string]any
	if err := json.Unmarshal(raw, &run); err != nil {
		return string(raw), nil
	}

	title := firstStr(run, "display_title", "name")
	if title == "" {
		title = "(untitled)"
	}
	parts := []string{fmt.Sprintf("## Run #%d: %s [%s]", intVal(run, "run_number"), title, strOr(run, "status", "unknown"))}
	if conclusion := str(run, "conclusion"); conclusion != "" {
		parts = append(parts, "**Conclusion:** "+conclusion)
	}
	if path := str(run, "path"); path != "" {
		parts = append(parts, "**Workflow:** "+strings.SplitN(path, "@", 2)[0])
	}
	if event := str(run, "event"); event != "" {
		parts = append(parts, "**Event:** "+event)
	}
	if branch := str(run, "head_branch"); branch != "" {
		parts = append(parts, "**Branch:** "+branch)
	}
	if actor := nestedStr(run, "actor", "login"); actor != "" {
		parts = append(parts, "**Actor:** "+actor)
	}
	if started := str(run, "started_at"); started != "" {
		parts = append(parts, "**Started:** "+started)
	}
	if completed := str(run, "completed_at"); completed != "" {
		parts = append(parts, "**Completed:** "+completed)
	}
	return strings.Join(parts, "\n"), nil
}

func (d *deps) actionsJobLogs(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}
	logs, err := d.client.GetRaw(ctx, repoPath+"/actions/jobs/"+itoa(intParam(params, "job_id", 0))+"/logs")
	if err != nil {
		return "", err
	}
	if logs == "" {
		return "No logs available.", nil
	}
	return "```\n" + logs + "\n```", nil
}
