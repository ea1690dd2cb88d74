package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

func notificationTools(d *deps) []Descriptor {
	return []Descriptor{
		{
			Tool: Tool{
				Name:        "notification_list",
				Description: "List the current user's notifications across all repositories.",
				Annotations: AnnotateReadOnly,
				InputSchema: objectSchema(merged(pageProps(), map[string]Property{
					"status": {Type: "string", Description: "Filter by status.", Enum: []string{"unread", "read", "all"}, Default: "unread"},
				})),
			},
			Handler: d.notificationList,
		},
		{
			Tool: Tool{
				Name:        "notification_mark_read",
				Description: "Mark one notification as read, or all when no ID is given.",
				Annotations: AnnotateUpdate,
				InputSchema: objectSchema(map[string]Property{
					"id": {Type: "number", Description: "Notification ID to mark as read. Marks all when omitted."},
				}),
			},
			Handler: d.notificationMarkRead,
		},
	}
}

func (d *deps) notificationList(ctx context.Context, params map[string]any) (string, error) {
	query := pageQuery(params)
	if status := strParam(params, "status"); status != "" {
		query.Set("status-types", status)
	}

	raw, err := d.client.GetJSONQuery(ctx, "/notifications", query)
	if err != nil {
		return "", err
	}

	var notifications []map[string]any
	if err := json.Unmarshal(raw, &notifications); err != nil {
		return string(raw), nil
	}
	if len(notifications) == 0 {
		return "No notifications found.", nil
	}

	lines := make([]string, 0, len(notifications))
	for _, n := range notifications {
		status := "read"
		if boolVal(n, "unread") {
			status = "unread"
		}
		title := "(no title)"
		subjectType := "unknown"
		if subject, ok := n["subject"].(map[string]any); ok {
			title = strOr(subject, "title", "(no title)")
			subjectType = strOr(subject, "type", "unknown")
		}
		repoName := "unknown"
		if repo, ok := n["repository"].(map[string]any); ok {
			repoName = strOr(repo, "full_name", "unknown")
		}
		lines = append(lines, fmt.Sprintf("- [%s] #%d %s: %s (%s)", status, intVal(n, "id"), subjectType, title, repoName))
	}
	return strings.Join(lines, "\n"), nil
}

func (d *deps) notificationMarkRead(ctx context.Context, params map[string]any) (string, error) {
	if hasParam(params, "id") {
		id := intParam(params, "id", 0)
		if _, err := d.client.PatchJSON(ctx, "/notifications/threads/"+itoa(id), map[string]any{}); err != nil {
			return "", err
		}
		return fmt.Sprintf("Notification #%d marked as read.", id), nil
	}
	if _, err := d.client.PutJSON(ctx, "/notifications", map[string]any{}); err != nil {
		return "", err
	}
	return "All notifications marked as read.", nil
}
