package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

func orgTools(d *deps) []Descriptor {
	return []Descriptor{
		{
			Tool: Tool{
				Name:        "org_list",
				Description: "List organizations the authenticated user belongs to.",
				Annotations: AnnotateReadOnly,
				InputSchema: objectSchema(nil),
			},
			Handler: d.orgList,
		},
		{
			Tool: Tool{
				Name:        "org_get",
				Description: "Get an organization's profile.",
				Annotations: AnnotateReadOnly,
				InputSchema: objectSchema(map[string]Property{
					"org": {Type: "string", Description: "Organization name."},
				}, "org"),
			},
			Handler: d.orgGet,
		},
		{
			Tool: Tool{
				Name:        "org_teams",
				Description: "List teams in an organization.",
				Annotations: AnnotateReadOnly,
				InputSchema: objectSchema(map[string]Property{
					"org": {Type: "string", Description: "Organization name."},
				}, "org"),
			},
			Handler: d.orgTeams,
		},
	}
}

func (d *deps) orgList(ctx context.Context, params map[string]any) (string, error) {
	raw, err := d.client.GetJSON(ctx, "/user/orgs")
	if err != nil {
		return "", err
	}

	var orgs []map[string]any
	if err := json.Unmarshal(raw, &orgs); err != nil {
		return string(raw), nil
	}
	if len(orgs) == 0 {
		return "No organizations found.", nil
	}

	lines := make([]string, 0, len(orgs))
	for _, o := range orgs {
		name := strOr(o, "name", "?")
		if full := str(o, "full_name"); full != "" && full != name {
			lines = append(lines, fmt.Sprintf("- %s (%s)", name, full))
		} else {
			lines = append(lines, "- "+name)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func (d *deps) orgGet(ctx context.Context, params map[string]any) (string, error) {
	raw, err := d.client.GetJSON(ctx, "/orgs/"+strParam(params, "org"))
	if err != nil {
		return "", err
	}

	var org map[string]any
	if err := json.Unmarshal(raw, &org); err != nil {
		return string(raw), nil
	}

	name := strOr(org, "name", "?")
	parts := []string{"## " + name}
	if full := str(org, "full_name"); full != "" && full != name {
		parts = append(parts, "**Full name:** "+full)
	}
	if desc := str(org, "description"); desc != "" {
		parts = append(parts, "**Description:** "+desc)
	}
	if location := str(org, "location"); location != "" {
		parts = append(parts, "**Location:** "+location)
	}
	if website := str(org, "website"); website != "" {
		parts = append(parts, "**Website:** "+website)
	}
	return strings.Join(parts, "\n"), nil
}

func (d *deps) orgTeams(ctx context.Context, params map[string]any) (string, error) {
	raw, err := d.client.GetJSON(ctx, "/orgs/"+strParam(params, "org")+"/teams")
	if err != nil {
		return "", err
	}

	var teams []map[string]any
	if err := json.Unmarshal(raw, &teams); err != nil {
		return string(raw), nil
	}
	if len(teams) == 0 {
		return "No teams found.", nil
	}

	lines := make([]string, 0, len(teams))
	for _, t := range teams {
		lines = append(lines, fmt.Sprintf("- %s (id: %d, permission: %s)",
			strOr(t, "name", "?"), intVal(t, "id"), strOr(t, "permission", "none")))
	}
	return strings.Join(lines, "\n"), nil
}
