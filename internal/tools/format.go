package tools

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// =============================================================================
// Markdown formatters. Pure transformations from raw API JSON to agent-readable text.
// =============================================================================

// formatValue renders any API response as readable markdown. Arrays become
// "---"-separated blocks, objects become key/value lines. Specific
// responses with a richer shape use the dedicated formatters below.
func formatValue(raw []byte) string {
	var val any
	if err := json.Unmarshal(raw, &val); err != nil {
		return string(raw)
	}
	switch v := val.(type) {
	case nil:
		return "No data returned."
	case []any:
		if len(v) == 0 {
			return "No items found."
		}
		blocks := make([]string, 0, len(v))
		for _, item := range v {
			blocks = append(blocks, formatObject(item))
		}
		return strings.Join(blocks, "\n---\n")
	case map[string]any:
		return formatObject(v)
	default:
		return strings.TrimSpace(string(raw))
	}
}

// formatObject renders an object as "**key:** value" lines. Keys are sorted
// so output is stable.
func formatObject(val any) string {
	obj, ok := val.(map[string]any)
	if !ok {
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var lines []string
	for _, key := range keys {
		if line := formatField(key, obj[key]); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// formatField renders one field. Empty values are dropped; nested objects
// and arrays are reduced to their common identifier fields.
func formatField(key string, value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		if v == "" {
			return ""
		}
		return fmt.Sprintf("**%s:** %s", key, v)
	case float64:
		return fmt.Sprintf("**%s:** %s", key, trimFloat(v))
	case bool:
		return fmt.Sprintf("**%s:** %v", key, v)
	case []any:
		var items []string
		for _, item := range v {
			switch iv := item.(type) {
			case string:
				items = append(items, iv)
			case map[string]any:
				if name := firstStr(iv, "name", "title", "login"); name != "" {
					items = append(items, name)
				}
			default:
				items = append(items, fmt.Sprintf("%v", iv))
			}
		}
		if len(items) == 0 {
			return ""
		}
		return fmt.Sprintf("**%s:** %s", key, strings.Join(items, ", "))
	case map[string]any:
		if name := firstStr(v, "login", "name", "title", "full_name"); name != "" {
			return fmt.Sprintf("**%s:** %s", key, name)
		}
		return ""
	default:
		return fmt.Sprintf("**%s:** %v", key, v)
	}
}

// =============================================================================
// Issues
// =============================================================================

func formatIssue(raw []byte) string {
	var i map[string]any
	if err := json.Unmarshal(raw, &i); err != nil {
		return string(raw)
	}
	var parts []string
	if n := intVal(i, "number"); n != 0 || hasKey(i, "number") {
		parts = append(parts, fmt.Sprintf("## #%d %s [%s]", n, strOr(i, "title", "(untitled)"), strOr(i, "state", "unknown")))
	}
	if author := nestedStr(i, "user", "login"); author != "" {
		parts = append(parts, "**Author:** "+author)
	}
	if labels := joinNames(i, "labels", "name"); labels != "" {
		parts = append(parts, "**Labels:** "+labels)
	}
	if assignees := joinNames(i, "assignees", "login"); assignees != "" {
		parts = append(parts, "**Assignees:** "+assignees)
	}
	if milestone := nestedStr(i, "milestone", "title"); milestone != "" {
		parts = append(parts, "**Milestone:** "+milestone)
	}
	if created := str(i, "created_at"); created != "" {
		parts = append(parts, "**Created:** "+created)
	}
	if updated := str(i, "updated_at"); updated != "" {
		parts = append(parts, "**Updated:** "+updated)
	}
	if body := str(i, "body"); body != "" {
		parts = append(parts, "\n"+body)
	}
	return strings.Join(parts, "\n")
}

func formatIssueList(raw []byte) string {
	var issues []map[string]any
	if err := json.Unmarshal(raw, &issues); err != nil {
		return string(raw)
	}
	if len(issues) == 0 {
		return "No issues found."
	}
	lines := make([]string, 0, len(issues))
	for _, i := range issues {
		line := fmt.Sprintf("- #%d %s (%s)", intVal(i, "number"), strOr(i, "title", "(untitled)"), strOr(i, "state", "unknown"))
		if labels := joinNames(i, "labels", "name"); labels != "" {
			line += " [" + labels + "]"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// =============================================================================
// Pull requests
// =============================================================================

func formatPull(raw []byte) string {
	var p map[string]any
	if err := json.Unmarshal(raw, &p); err != nil {
		return string(raw)
	}
	var parts []string
	if n := intVal(p, "number"); n != 0 || hasKey(p, "number") {
		parts = append(parts, fmt.Sprintf("## PR #%d %s [%s]", n, strOr(p, "title", "(untitled)"), strOr(p, "state", "unknown")))
	}
	if author := nestedStr(p, "user", "login"); author != "" {
		parts = append(parts, "**Author:** "+author)
	}
	if head := nestedStr(p, "head", "label"); head != "" {
		base := nestedStr(p, "base", "label")
		if base == "" {
			base = "?"
		}
		parts = append(parts, fmt.Sprintf("**Branch:** %s -> %s", head, base))
	}
	if mergeable, ok := p["mergeable"].(bool); ok {
		parts = append(parts, fmt.Sprintf("**Mergeable:** %v", mergeable))
	}
	if labels := joinNames(p, "labels", "name"); labels != "" {
		parts = append(parts, "**Labels:** "+labels)
	}
	if created := str(p, "created_at"); created != "" {
		parts = append(parts, "**Created:** "+created)
	}
	if body := str(p, "body"); body != "" {
		parts = append(parts, "\n"+body)
	}
	return strings.Join(parts, "\n")
}

func formatPullList(raw []byte) string {
	var prs []map[string]any
	if err := json.Unmarshal(raw, &prs); err != nil {
		return string(raw)
	}
	if len(prs) == 0 {
		return "No pull requests found."
	}
	lines := make([]string, 0, len(prs))
	for _, p := range prs {
		lines = append(lines, fmt.Sprintf("- PR #%d %s (%s)", intVal(p, "number"), strOr(p, "title", "(untitled)"), strOr(p, "state", "unknown")))
	}
	return strings.Join(lines, "\n")
}

// =============================================================================
// Comments
// =============================================================================

func formatComment(c map[string]any) string {
	user := nestedStr(c, "user", "login")
	if user == "" {
		user = "unknown"
	}
	return fmt.Sprintf("**Comment #%d** by %s (%s):\n%s",
		intVal(c, "id"), user, str(c, "created_at"), str(c, "body"))
}

func formatCommentRaw(raw []byte) string {
	var c map[string]any
	if err := json.Unmarshal(raw, &c); err != nil {
		return string(raw)
	}
	return formatComment(c)
}

func formatCommentList(raw []byte) string {
	var comments []map[string]any
	if err := json.Unmarshal(raw, &comments); err != nil {
		return string(raw)
	}
	if len(comments) == 0 {
		return "No comments found."
	}
	blocks := make([]string, 0, len(comments))
	for _, c := range comments {
		blocks = append(blocks, formatComment(c))
	}
	return strings.Join(blocks, "\n\n---\n\n")
}

// =============================================================================
// Commits and branches
// =============================================================================

func formatCommit(raw []byte) string {
	var c map[string]any
	if err := json.Unmarshal(raw, &c); err != nil {
		return string(raw)
	}
	parts := []string{"**Commit:** " + strOr(c, "sha", "unknown")}
	meta, _ := c["commit"].(map[string]any)
	if meta != nil {
		if msg := str(meta, "message"); msg != "" {
			parts = append(parts, "**Message:** "+msg)
		}
		if author, ok := meta["author"].(map[string]any); ok {
			if name := str(author, "name"); name != "" {
				parts = append(parts, fmt.Sprintf("**Author:** %s (%s)", name, str(author, "date")))
			}
		}
	}
	return strings.Join(parts, "\n")
}

func formatCommitList(raw []byte) string {
	var commits []map[string]any
	if err := json.Unmarshal(raw, &commits); err != nil {
		return string(raw)
	}
	if len(commits) == 0 {
		return "No commits found."
	}
	lines := make([]string, 0, len(commits))
	for _, c := range commits {
		sha := shortSHA(str(c, "sha"))
		msg := ""
		if meta, ok := c["commit"].(map[string]any); ok {
			msg = firstLine(str(meta, "message"))
		}
		lines = append(lines, fmt.Sprintf("- `%s` %s", sha, msg))
	}
	return strings.Join(lines, "\n")
}

func formatBranch(b map[string]any) string {
	sha := "???????"
	if commit, ok := b["commit"].(map[string]any); ok {
		if s := firstStr(commit, "id", "sha"); s != "" {
			sha = shortSHA(s)
		}
	}
	line := fmt.Sprintf("- %s (`%s`)", strOr(b, "name", "unknown"), sha)
	if boolVal(b, "protected") {
		line += " [protected]"
	}
	return line
}

func formatBranchList(raw []byte) string {
	var branches []map[string]any
	if err := json.Unmarshal(raw, &branches); err != nil {
		return string(raw)
	}
	if len(branches) == 0 {
		return "No branches found."
	}
	lines := make([]string, 0, len(branches))
	for _, b := range branches {
		lines = append(lines, formatBranch(b))
	}
	return strings.Join(lines, "\n")
}

// =============================================================================
// Files
// =============================================================================

// formatFileContent decodes the base64 payload the contents API returns and
// renders the file inline with its sha, which callers need for updates.
func formatFileContent(raw []byte) string {
	var f map[string]any
	if err := json.Unmarshal(raw, &f); err != nil {
		return string(raw)
	}
	path := str(f, "path")
	if path == "" {
		path = strOr(f, "name", "unknown")
	}
	if str(f, "type") == "dir" {
		return fmt.Sprintf("**%s/** (directory)", path)
	}

	decoded := "(empty file)"
	if content := str(f, "content"); content != "" {
		clean := strings.ReplaceAll(content, "\n", "")
		if bytes, err := base64.StdEncoding.DecodeString(clean); err == nil && utf8.Valid(bytes) {
			decoded = string(bytes)
		} else {
			decoded = "(binary content)"
		}
	}

	header := fmt.Sprintf("**File:** %s (%d bytes)", path, intVal(f, "size"))
	if sha := str(f, "sha"); sha != "" {
		header += "\n**SHA:** " + sha
	}
	return fmt.Sprintf("%s\n\n```\n%s\n```", header, decoded)
}

func formatFileList(raw []byte) string {
	var entries []map[string]any
	if err := json.Unmarshal(raw, &entries); err != nil {
		return string(raw)
	}
	if len(entries) == 0 {
		return "No files found."
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		name := strOr(e, "name", "?")
		if str(e, "type") == "dir" {
			name += "/"
		}
		lines = append(lines, "- "+name)
	}
	return strings.Join(lines, "\n")
}

// =============================================================================
// Helpers
// =============================================================================

func str(obj map[string]any, key string) string {
	if v, ok := obj[key].(string); ok {
		return v
	}
	return ""
}

func strOr(obj map[string]any, key, fallback string) string {
	if v := str(obj, key); v != "" {
		return v
	}
	return fallback
}

func firstStr(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if v := str(obj, key); v != "" {
			return v
		}
	}
	return ""
}

func nestedStr(obj map[string]any, outer, inner string) string {
	if nested, ok := obj[outer].(map[string]any); ok {
		return str(nested, inner)
	}
	return ""
}

func intVal(obj map[string]any, key string) int64 {
	if v, ok := obj[key].(float64); ok {
		return int64(v)
	}
	return 0
}

func boolVal(obj map[string]any, key string) bool {
	v, _ := obj[key].(bool)
	return v
}

func hasKey(obj map[string]any, key string) bool {
	_, ok := obj[key]
	return ok
}

// joinNames collects a string field from an array of objects, comma joined.
func joinNames(obj map[string]any, arrayKey, nameKey string) string {
	arr, ok := obj[arrayKey].([]any)
	if !ok {
		return ""
	}
	var names []string
	for _, item := range arr {
		if m, ok := item.(map[string]any); ok {
			if name := str(m, nameKey); name != "" {
				names = append(names, name)
			}
		}
	}
	return strings.Join(names, ", ")
}

func shortSHA(sha string) string {
	if sha == "" {
		return "???????"
	}
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

func firstLine(s string) string {
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		return s[:nl]
	}
	return s
}

func trimFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

