package tools

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"forgemcp/server/pkg/giteaapi"
)

// =============================================================================
// Tool Definitions
// =============================================================================

func fileTools(d *deps) []Descriptor {
	return []Descriptor{
		{
			Tool: Tool{
				Name:        "file_read",
				Description: "Read a file from the repository. The returned SHA is needed for file_update and file_delete.",
				Annotations: AnnotateReadOnly,
				InputSchema: repoSchema(map[string]Property{
					"path": {Type: "string", Description: "File path within the repository."},
					"ref":  {Type: "string", Description: "Git ref (branch, tag, or commit SHA). Defaults to the default branch."},
				}, "path"),
			},
			Handler: d.fileRead,
		},
		{
			Tool: Tool{
				Name:        "file_list",
				Description: "List directory contents in the repository.",
				Annotations: AnnotateReadOnly,
				InputSchema: repoSchema(map[string]Property{
					"path": {Type: "string", Description: "Directory path. Empty or \"/\" for the repository root."},
					"ref":  {Type: "string", Description: "Git ref (branch, tag, or commit SHA). Defaults to the default branch."},
				}),
			},
			Handler: d.fileList,
		},
		{
			Tool: Tool{
				Name:        "file_create",
				Description: "Create a new file with a commit. Content is plain text and is base64-encoded on the wire.",
				Annotations: AnnotateCreate,
				InputSchema: repoSchema(map[string]Property{
					"path":       {Type: "string", Description: "File path to create."},
					"content":    {Type: "string", Description: "File content as plain text."},
					"message":    {Type: "string", Description: "Commit message."},
					"branch":     {Type: "string", Description: "Branch to commit to. Defaults to the default branch."},
					"new_branch": {Type: "string", Description: "New branch to create from branch."},
				}, "path", "content", "message"),
			},
			Handler: d.fileCreate,
		},
		{
			Tool: Tool{
				Name:        "file_update",
				Description: "Replace a file's content with a commit. Requires the current file SHA from file_read.",
				Annotations: AnnotateUpdate,
				InputSchema: repoSchema(map[string]Property{
					"path":       {Type: "string", Description: "File path to update."},
					"content":    {Type: "string", Description: "New file content as plain text."},
					"sha":        {Type: "string", Description: "SHA of the file being replaced (from file_read)."},
					"message":    {Type: "string", Description: "Commit message."},
					"branch":     {Type: "string", Description: "Branch to commit to."},
					"new_branch": {Type: "string", Description: "New branch to create from branch."},
				}, "path", "content", "sha", "message"),
			},
			Handler: d.fileUpdate,
		},
		{
			Tool: Tool{
				Name:        "file_delete",
				Description: "Delete a file with a commit. Requires the current file SHA from file_read.",
				Annotations: AnnotateDelete,
				InputSchema: repoSchema(map[string]Property{
					"path":    {Type: "string", Description: "File path to delete."},
					"sha":     {Type: "string", Description: "SHA of the file being deleted (from file_read)."},
					"message": {Type: "string", Description: "Commit message."},
					"branch":  {Type: "string", Description: "Branch to commit to."},
				}, "path", "sha", "message"),
			},
			Handler: d.fileDelete,
		},
		{
			Tool: Tool{
				Name:        "tree_get",
				Description: "Get the full recursive file tree at a ref.",
				Annotations: AnnotateReadOnly,
				InputSchema: repoSchema(map[string]Property{
					"ref": {Type: "string", Description: "Git ref (branch, tag, or SHA).", Default: "HEAD"},
				}),
			},
			Handler: d.treeGet,
		},
	}
}

// =============================================================================
// Handlers
// =============================================================================

func (d *deps) fileRead(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}
	path := strings.TrimLeft(strParam(params, "path"), "/")

	query := url.Values{}
	if ref := strParam(params, "ref"); ref != "" {
		query.Set("ref", ref)
	}

	raw, err := d.client.GetJSONQuery(ctx, repoPath+"/contents/"+path, query)
	if err != nil {
		return "", err
	}
	return formatFileContent(raw), nil
}

func (d *deps) fileList(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}
	path := strings.TrimLeft(strParam(params, "path"), "/")

	query := url.Values{}
	if ref := strParam(params, "ref"); ref != "" {
		query.Set("ref", ref)
	}

	raw, err := d.client.GetJSONQuery(ctx, repoPath+"/contents/"+path, query)
	if err != nil {
		return "", err
	}
	return formatFileList(raw), nil
}

func (d *deps) fileCreate(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}
	path := strings.TrimLeft(strParam(params, "path"), "/")

	body := map[string]any{
		"content": base64.StdEncoding.EncodeToString([]byte(strParam(params, "content"))),
		"message": strParam(params, "message"),
	}
	if branch := strParam(params, "branch"); branch != "" {
		body["branch"] = branch
	}
	if newBranch := strParam(params, "new_branch"); newBranch != "" {
		body["new_branch"] = newBranch
	}

	raw, err := d.client.PostJSON(ctx, repoPath+"/contents/"+path, body)
	if err != nil {
		return "", conflictHint(err)
	}

	created := path
	var result map[string]any
	if err := json.Unmarshal(raw, &result); err == nil {
		if p := nestedStr(result, "content", "path"); p != "" {
			created = p
		}
	}
	return "File created: " + created, nil
}

func (d *deps) fileUpdate(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}
	path := strings.TrimLeft(strParam(params, "path"), "/")

	body := map[string]any{
		"content": base64.StdEncoding.EncodeToString([]byte(strParam(params, "content"))),
		"sha":     strParam(params, "sha"),
		"message": strParam(params, "message"),
	}
	if branch := strParam(params, "branch"); branch != "" {
		body["branch"] = branch
	}
	if newBranch := strParam(params, "new_branch"); newBranch != "" {
		body["new_branch"] = newBranch
	}

	if _, err := d.client.PutJSON(ctx, repoPath+"/contents/"+path, body); err != nil {
		return "", conflictHint(err)
	}
	return "File updated: " + path, nil
}

func (d *deps) fileDelete(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}
	path := strings.TrimLeft(strParam(params, "path"), "/")

	body := map[string]any{
		"sha":     strParam(params, "sha"),
		"message": strParam(params, "message"),
	}
	if branch := strParam(params, "branch"); branch != "" {
		body["branch"] = branch
	}

	if err := d.client.DeleteBody(ctx, repoPath+"/contents/"+path, body); err != nil {
		return "", conflictHint(err)
	}
	return "File deleted: " + path, nil
}

func (d *deps) treeGet(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}
	ref := strParam(params, "ref")
	if ref == "" {
		ref = "HEAD"
	}

	query := url.Values{}
	query.Set("recursive", "true")
	raw, err := d.client.GetJSONQuery(ctx, repoPath+"/git/trees/"+ref, query)
	if err != nil {
		return "", err
	}

	var result map[string]any
	if err := json.Unmarshal(raw, &result); err != nil {
		return string(raw), nil
	}
	entries, _ := result["tree"].([]any)
	if len(entries) == 0 {
		return "No files found in tree.", nil
	}

	lines := make([]string, 0, len(entries))
	for _, raw := range entries {
		e, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		name := strOr(e, "path", "?")
		if str(e, "type") == "tree" {
			name += "/"
		}
		lines = append(lines, name)
	}
	return strings.Join(lines, "\n"), nil
}

// conflictHint flags the stale-SHA case on file mutations: the forge
// rejects the commit when the sha token no longer matches the file.
func conflictHint(err error) error {
	if giteaapi.IsStatus(err, http.StatusConflict) || giteaapi.IsStatus(err, http.StatusPreconditionFailed) {
		return fmt.Errorf("%w. The file changed since it was last read; run file_read again to get the current sha", err)
	}
	return err
}
