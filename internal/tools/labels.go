package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// =============================================================================
// Tool Definitions
// =============================================================================

func labelTools(d *deps) []Descriptor {
	return []Descriptor{
		{
			Tool: Tool{
				Name:        "label_list",
				Description: "List labels in a repository with their IDs.",
				Annotations: AnnotateReadOnly,
				InputSchema: repoSchema(map[string]Property{
					"all": {Type: "boolean", Description: "Fetch every page instead of the first."},
				}),
			},
			Handler: d.labelList,
		},
		{
			Tool: Tool{
				Name:        "label_create",
				Description: "Create a label.",
				Annotations: AnnotateCreate,
				InputSchema: repoSchema(map[string]Property{
					"name":        {Type: "string", Description: "Label name."},
					"color":       {Type: "string", Description: "Label color as hex (e.g. \"#ff0000\" or \"ff0000\")."},
					"description": {Type: "string", Description: "Label description."},
				}, "name", "color"),
			},
			Handler: d.labelCreate,
		},
		{
			Tool: Tool{
				Name:        "label_edit",
				Description: "Edit a label by ID.",
				Annotations: AnnotateUpdate,
				InputSchema: repoSchema(map[string]Property{
					"id":          {Type: "number", Description: "Label ID (from label_list)."},
					"name":        {Type: "string", Description: "New label name."},
					"color":       {Type: "string", Description: "New label color."},
					"description": {Type: "string", Description: "New label description."},
				}, "id"),
			},
			Handler: d.labelEdit,
		},
	}
}

// =============================================================================
// Handlers
// =============================================================================

func (d *deps) labelList(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}

	var raw []byte
	if boolParam(params, "all") {
		raw, err = d.client.GetJSONAllPages(ctx, repoPath+"/labels", url.Values{}, 50)
	} else {
		raw, err = d.client.GetJSON(ctx, repoPath+"/labels")
	}
	if err != nil {
		return "", err
	}

	var labels []map[string]any
	if err := json.Unmarshal(raw, &labels); err != nil {
		return string(raw), nil
	}
	if len(labels) == 0 {
		return "No labels found.", nil
	}

	lines := make([]string, 0, len(labels))
	for _, l := range labels {
		line := fmt.Sprintf("- %s (#%s) [id: %d]", strOr(l, "name", "?"), strOr(l, "color", "000000"), intVal(l, "id"))
		if desc := str(l, "description"); desc != "" {
			line += " - " + desc
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

func (d *deps) labelCreate(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}

	name := strParam(params, "name")
	body := map[string]any{
		"name":  name,
		"color": hexColor(strParam(params, "color")),
	}
	if desc := strParam(params, "description"); desc != "" {
		body["description"] = desc
	}

	raw, err := d.client.PostJSON(ctx, repoPath+"/labels", body)
	if err != nil {
		return "", err
	}

	var label map[string]any
	if err := json.Unmarshal(raw, &label); err == nil {
		if n := str(label, "name"); n != "" {
			name = n
		}
	}
	return "Label created: " + name, nil
}

func (d *deps) labelEdit(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}

	body := map[string]any{}
	if name := strParam(params, "name"); name != "" {
		body["name"] = name
	}
	if color := strParam(params, "color"); color != "" {
		body["color"] = hexColor(color)
	}
	if desc := strParam(params, "description"); desc != "" {
		body["description"] = desc
	}

	raw, err := d.client.PatchJSON(ctx, repoPath+"/labels/"+itoa(intParam(params, "id", 0)), body)
	if err != nil {
		return "", err
	}

	var label map[string]any
	name := "?"
	if err := json.Unmarshal(raw, &label); err == nil {
		name = strOr(label, "name", "?")
	}
	return "Label updated: " + name, nil
}

func hexColor(color string) string {
	if strings.HasPrefix(color, "#") {
		return color
	}
	return "#" + color
}
