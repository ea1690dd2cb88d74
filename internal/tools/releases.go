package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

func releaseTools(d *deps) []Descriptor {
	return []Descriptor{
		{
			Tool: Tool{
				Name:        "release_list",
				Description: "List releases in a repository with their IDs.",
				Annotations: AnnotateReadOnly,
				InputSchema: repoSchema(pageProps()),
			},
			Handler: d.releaseList,
		},
		{
			Tool: Tool{
				Name:        "release_get",
				Description: "Get a release by ID.",
				Annotations: AnnotateReadOnly,
				InputSchema: repoSchema(map[string]Property{
					"id": {Type: "number", Description: "Release ID (from release_list)."},
				}, "id"),
			},
			Handler: d.releaseGet,
		},
		{
			Tool: Tool{
				Name:        "release_create",
				Description: "Create a release, tagging the target commit if the tag does not exist.",
				Annotations: AnnotateCreate,
				InputSchema: repoSchema(map[string]Property{
					"tag_name":         {Type: "string", Description: "Tag name for the release."},
					"name":             {Type: "string", Description: "Release title."},
					"body":             {Type: "string", Description: "Release notes."},
					"draft":            {Type: "boolean", Description: "Create as draft."},
					"prerelease":       {Type: "boolean", Description: "Mark as prerelease."},
					"target_commitish": {Type: "string", Description: "Branch or commit SHA to tag (if the tag does not exist yet)."},
				}, "tag_name"),
			},
			Handler: d.releaseCreate,
		},
	}
}

func (d *deps) releaseList(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}
	raw, err := d.client.GetJSONQuery(ctx, repoPath+"/releases", pageQuery(params))
	if err != nil {
		return "", err
	}

	var releases []map[string]any
	if err := json.Unmarshal(raw, &releases); err != nil {
		return string(raw), nil
	}
	if len(releases) == 0 {
		return "No releases found.", nil
	}

	lines := make([]string, 0, len(releases))
	for _, r := range releases {
		tag := strOr(r, "tag_name", "?")
		name := strOr(r, "name", tag)
		var flags []string
		if boolVal(r, "draft") {
			flags = append(flags, "draft")
		}
		if boolVal(r, "prerelease") {
			flags = append(flags, "prerelease")
		}
		line := fmt.Sprintf("- %s (%s) [id: %d]", name, tag, intVal(r, "id"))
		if len(flags) > 0 {
			line += " [" + strings.Join(flags, ", ") + "]"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

func (d *deps) releaseGet(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}
	raw, err := d.client.GetJSON(ctx, repoPath+"/releases/"+itoa(intParam(params, "id", 0)))
	if err != nil {
		return "", err
	}
	return formatValue(raw), nil
}

func (d *deps) releaseCreate(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}

	tag := strParam(params, "tag_name")
	body := map[string]any{"tag_name": tag}
	if name := strParam(params, "name"); name != "" {
		body["name"] = name
	}
	if notes := strParam(params, "body"); notes != "" {
		body["body"] = notes
	}
	if hasParam(params, "draft") {
		body["draft"] = boolParam(params, "draft")
	}
	if hasParam(params, "prerelease") {
		body["prerelease"] = boolParam(params, "prerelease")
	}
	if target := strParam(params, "target_commitish"); target != "" {
		body["target_commitish"] = target
	}

	raw, err := d.client.PostJSON(ctx, repoPath+"/releases", body)
	if err != nil {
		return "", err
	}

	var release map[string]any
	if err := json.Unmarshal(raw, &release); err == nil {
		if t := str(release, "tag_name"); t != "" {
			tag = t
		}
	}
	return "Release created: " + tag, nil
}
