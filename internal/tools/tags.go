package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

func tagTools(d *deps) []Descriptor {
	return []Descriptor{
		{
			Tool: Tool{
				Name:        "tag_list",
				Description: "List tags in a repository.",
				Annotations: AnnotateReadOnly,
				InputSchema: repoSchema(pageProps()),
			},
			Handler: d.tagList,
		},
		{
			Tool: Tool{
				Name:        "tag_create",
				Description: "Create a tag. An annotated tag is created when a message is given.",
				Annotations: AnnotateCreate,
				InputSchema: repoSchema(map[string]Property{
					"tag_name": {Type: "string", Description: "Tag name."},
					"target":   {Type: "string", Description: "Commit SHA or branch to tag."},
					"message":  {Type: "string", Description: "Tag message."},
				}, "tag_name"),
			},
			Handler: d.tagCreate,
		},
	}
}

func (d *deps) tagList(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}
	raw, err := d.client.GetJSONQuery(ctx, repoPath+"/tags", pageQuery(params))
	if err != nil {
		return "", err
	}

	var tags []map[string]any
	if err := json.Unmarshal(raw, &tags); err != nil {
		return string(raw), nil
	}
	if len(tags) == 0 {
		return "No tags found.", nil
	}

	lines := make([]string, 0, len(tags))
	for _, t := range tags {
		sha := "???????"
		if commit, ok := t["commit"].(map[string]any); ok {
			if s := str(commit, "sha"); s != "" {
				sha = shortSHA(s)
			}
		}
		lines = append(lines, fmt.Sprintf("- %s (`%s`)", strOr(t, "name", "?"), sha))
	}
	return strings.Join(lines, "\n"), nil
}

func (d *deps) tagCreate(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}

	name := strParam(params, "tag_name")
	body := map[string]any{"tag_name": name}
	if target := strParam(params, "target"); target != "" {
		body["target"] = target
	}
	if msg := strParam(params, "message"); msg != "" {
		body["message"] = msg
	}

	raw, err := d.client.PostJSON(ctx, repoPath+"/tags", body)
	if err != nil {
		return "", err
	}

	var tag map[string]any
	if err := json.Unmarshal(raw, &tag); err == nil {
		if n := str(tag, "name"); n != "" {
			name = n
		}
	}
	return "Tag created: " + name, nil
}
