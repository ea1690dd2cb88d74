package tools

import "context"

func issueCommentTools(d *deps) []Descriptor {
	return []Descriptor{
		{
			Tool: Tool{
				Name:        "issue_comment_list",
				Description: "List comments on an issue or pull request.",
				Annotations: AnnotateReadOnly,
				InputSchema: repoSchema(map[string]Property{
					"index": {Type: "number", Description: "Issue or pull request number."},
				}, "index"),
			},
			Handler: d.issueCommentList,
		},
		{
			Tool: Tool{
				Name:        "issue_comment_create",
				Description: "Add a comment to an issue or pull request.",
				Annotations: AnnotateCreate,
				InputSchema: repoSchema(map[string]Property{
					"index": {Type: "number", Description: "Issue or pull request number."},
					"body":  {Type: "string", Description: "Comment body in markdown."},
				}, "index", "body"),
			},
			Handler: d.issueCommentCreate,
		},
	}
}

func (d *deps) issueCommentList(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}
	raw, err := d.client.GetJSON(ctx, repoPath+"/issues/"+itoa(intParam(params, "index", 0))+"/comments")
	if err != nil {
		return "", err
	}
	return formatCommentList(raw), nil
}

func (d *deps) issueCommentCreate(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}
	body := map[string]any{"body": strParam(params, "body")}
	raw, err := d.client.PostJSON(ctx, repoPath+"/issues/"+itoa(intParam(params, "index", 0))+"/comments", body)
	if err != nil {
		return "", err
	}
	return formatCommentRaw(raw), nil
}
