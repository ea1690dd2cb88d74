package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

func reviewTools(d *deps) []Descriptor {
	return []Descriptor{
		{
			Tool: Tool{
				Name:        "pr_review_list",
				Description: "List reviews on a pull request.",
				Annotations: AnnotateReadOnly,
				InputSchema: repoSchema(map[string]Property{
					"index": {Type: "number", Description: "Pull request number."},
				}, "index"),
			},
			Handler: d.prReviewList,
		},
		{
			Tool: Tool{
				Name:        "pr_review_create",
				Description: "Submit a review on a pull request.",
				Annotations: AnnotateCreate,
				InputSchema: repoSchema(map[string]Property{
					"index": {Type: "number", Description: "Pull request number."},
					"event": {Type: "string", Description: "Review verdict.", Enum: []string{"APPROVED", "REQUEST_CHANGES", "COMMENT"}},
					"body":  {Type: "string", Description: "Review comment."},
				}, "index", "event"),
			},
			Handler: d.prReviewCreate,
		},
	}
}

func (d *deps) prReviewList(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}
	raw, err := d.client.GetJSON(ctx, repoPath+"/pulls/"+itoa(intParam(params, "index", 0))+"/reviews")
	if err != nil {
		return "", err
	}

	var reviews []map[string]any
	if err := json.Unmarshal(raw, &reviews); err != nil {
		return string(raw), nil
	}
	if len(reviews) == 0 {
		return "No reviews found.", nil
	}

	lines := make([]string, 0, len(reviews))
	for _, r := range reviews {
		user := nestedStr(r, "user", "login")
		if user == "" {
			user = "unknown"
		}
		line := fmt.Sprintf("- Review #%d by %s: %s", intVal(r, "id"), user, strOr(r, "state", "unknown"))
		if body := str(r, "body"); body != "" {
			line += "\n  " + body
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

func (d *deps) prReviewCreate(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}

	body := map[string]any{"event": strParam(params, "event")}
	if v := strParam(params, "body"); v != "" {
		body["body"] = v
	}

	raw, err := d.client.PostJSON(ctx, repoPath+"/pulls/"+itoa(intParam(params, "index", 0))+"/reviews", body)
	if err != nil {
		return "", err
	}

	var review map[string]any
	state := "submitted"
	if err := json.Unmarshal(raw, &review); err == nil {
		if s := str(review, "state"); s != "" {
			state = s
		}
	}
	return "Review submitted: " + state, nil
}
