package tools

import (
	"context"
	"encoding/json"
	"strings"
)

func userTools(d *deps) []Descriptor {
	return []Descriptor{
		{
			Tool: Tool{
				Name:        "user_get_me",
				Description: "Get the authenticated user's profile.",
				Annotations: AnnotateReadOnly,
				InputSchema: objectSchema(nil),
			},
			Handler: d.userGetMe,
		},
		{
			Tool: Tool{
				Name:        "user_get",
				Description: "Look up a user by username.",
				Annotations: AnnotateReadOnly,
				InputSchema: objectSchema(map[string]Property{
					"username": {Type: "string", Description: "Username to look up."},
				}, "username"),
			},
			Handler: d.userGet,
		},
	}
}

func (d *deps) userGetMe(ctx context.Context, params map[string]any) (string, error) {
	raw, err := d.client.GetJSON(ctx, "/user")
	if err != nil {
		return "", err
	}

	var user map[string]any
	if err := json.Unmarshal(raw, &user); err != nil {
		return string(raw), nil
	}

	parts := []string{"**Username:** " + strOr(user, "login", "unknown")}
	if name := str(user, "full_name"); name != "" {
		parts = append(parts, "**Full name:** "+name)
	}
	if email := str(user, "email"); email != "" {
		parts = append(parts, "**Email:** "+email)
	}
	if boolVal(user, "is_admin") {
		parts = append(parts, "**Role:** admin")
	}
	return strings.Join(parts, "\n"), nil
}

func (d *deps) userGet(ctx context.Context, params map[string]any) (string, error) {
	raw, err := d.client.GetJSON(ctx, "/users/"+strParam(params, "username"))
	if err != nil {
		return "", err
	}

	var user map[string]any
	if err := json.Unmarshal(raw, &user); err != nil {
		return string(raw), nil
	}

	parts := []string{"**Username:** " + strOr(user, "login", "unknown")}
	if name := str(user, "full_name"); name != "" {
		parts = append(parts, "**Full name:** "+name)
	}
	if created := str(user, "created"); created != "" {
		parts = append(parts, "**Created:** "+created)
	}
	return strings.Join(parts, "\n"), nil
}
