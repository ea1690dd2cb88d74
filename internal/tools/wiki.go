package tools

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"forgemcp/server/pkg/giteaapi"
)

func wikiTools(d *deps) []Descriptor {
	return []Descriptor{
		{
			Tool: Tool{
				Name:        "wiki_list",
				Description: "List wiki pages in a repository.",
				Annotations: AnnotateReadOnly,
				InputSchema: repoSchema(pageProps()),
			},
			Handler: d.wikiList,
		},
		{
			Tool: Tool{
				Name:        "wiki_get",
				Description: "Get a wiki page by slug, decoded to markdown.",
				Annotations: AnnotateReadOnly,
				InputSchema: repoSchema(map[string]Property{
					"slug": {Type: "string", Description: "Wiki page slug (URL-encoded page name)."},
				}, "slug"),
			},
			Handler: d.wikiGet,
		},
		{
			Tool: Tool{
				Name:        "wiki_create",
				Description: "Create a wiki page.",
				Annotations: AnnotateCreate,
				InputSchema: repoSchema(map[string]Property{
					"title":   {Type: "string", Description: "Wiki page title."},
					"content": {Type: "string", Description: "Wiki page content in markdown."},
				}, "title", "content"),
			},
			Handler: d.wikiCreate,
		},
	}
}

func (d *deps) wikiList(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}

	raw, err := d.client.GetJSONQuery(ctx, repoPath+"/wiki/pages", pageQuery(params))
	if err != nil {
		// Repositories with the wiki unit disabled 404 on this endpoint.
		if giteaapi.IsStatus(err, http.StatusNotFound) {
			return "No wiki pages found (wiki may be disabled for this repository).", nil
		}
		return "", err
	}

	var pages []map[string]any
	if err := json.Unmarshal(raw, &pages); err != nil {
		return string(raw), nil
	}
	if len(pages) == 0 {
		return "No wiki pages found.", nil
	}

	lines := make([]string, 0, len(pages))
	for _, p := range pages {
		lines = append(lines, fmt.Sprintf("- %s (slug: %s)", strOr(p, "title", "?"), strOr(p, "sub_url", "?")))
	}
	return strings.Join(lines, "\n"), nil
}

func (d *deps) wikiGet(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}
	raw, err := d.client.GetJSON(ctx, repoPath+"/wiki/page/"+strParam(params, "slug"))
	if err != nil {
		return "", err
	}

	var page map[string]any
	if err := json.Unmarshal(raw, &page); err != nil {
		return string(raw), nil
	}

	title := strOr(page, "title", "(untitled)")
	decoded := "(empty page)"
	if content := str(page, "content_base64"); content != "" {
		clean := strings.ReplaceAll(content, "\n", "")
		if bytes, err := base64.StdEncoding.DecodeString(clean); err == nil && utf8.Valid(bytes) {
			decoded = string(bytes)
		} else {
			decoded = "(failed to decode content)"
		}
	}
	return fmt.Sprintf("## %s\n\n%s", title, decoded), nil
}

func (d *deps) wikiCreate(ctx context.Context, params map[string]any) (string, error) {
	repoPath, err := d.repoPath(params)
	if err != nil {
		return "", err
	}

	title := strParam(params, "title")
	body := map[string]any{
		"title":          title,
		"content_base64": base64.StdEncoding.EncodeToString([]byte(strParam(params, "content"))),
	}

	if _, err := d.client.PostJSON(ctx, repoPath+"/wiki/new", body); err != nil {
		return "", err
	}
	return "Wiki page created: " + title, nil
}
