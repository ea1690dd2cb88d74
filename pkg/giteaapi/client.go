// Package giteaapi provides a hand-written client for the Gitea/Forgejo
// REST API v1. Every method issues exactly one HTTP request except
// GetJSONAllPages, which walks the page cursor until a short page.
package giteaapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// APIError is a non-2xx response from the forge. Status carries the HTTP
// status code; Message the response body (or a clearer hint for auth and
// not-found failures).
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client talks to a single Gitea/Forgejo instance with a fixed token.
type Client struct {
	http    *http.Client
	baseAPI string
	token   string
}

// NewClient creates a client for the instance at baseURL (no trailing
// slash). All requests go to {baseURL}/api/v1.
func NewClient(baseURL, token string) *Client {
	return &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseAPI: baseURL + "/api/v1",
		token:   token,
	}
}

func (c *Client) url(path string, query url.Values) string {
	u := c.baseAPI + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do issues one request and returns the response body on 2xx.
// Non-2xx statuses become *APIError; the body is never partially consumed.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, accept string) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "marshal request body")
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path, query), reqBody)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", accept)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, &APIError{Status: resp.StatusCode, Message: "authentication failed: check GITEA_TOKEN"}
	case resp.StatusCode == http.StatusNotFound:
		return nil, &APIError{Status: resp.StatusCode, Message: "not found: " + c.url(path, query)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, &APIError{Status: resp.StatusCode, Message: string(respBody)}
	}
	return respBody, nil
}

// GetJSON sends a GET request and returns the raw JSON body.
func (c *Client) GetJSON(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, nil, nil, "application/json")
}

// GetJSONQuery sends a GET request with query parameters.
func (c *Client) GetJSONQuery(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, query, nil, "application/json")
}

// GetRaw sends a GET request and returns the plain-text body (diffs, logs).
func (c *Client) GetRaw(ctx context.Context, path string) (string, error) {
	b, err := c.do(ctx, http.MethodGet, path, nil, nil, "text/plain")
	return string(b), err
}

// PostJSON sends a POST request with a JSON body.
func (c *Client) PostJSON(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, nil, body, "application/json")
}

// PostNoContent sends a POST whose response body carries no information
// (e.g. merging a pull request).
func (c *Client) PostNoContent(ctx context.Context, path string, body any) error {
	_, err := c.do(ctx, http.MethodPost, path, nil, body, "application/json")
	return err
}

// PutJSON sends a PUT request with a JSON body.
func (c *Client) PutJSON(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, path, nil, body, "application/json")
}

// PatchJSON sends a PATCH request with a JSON body.
func (c *Client) PatchJSON(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPatch, path, nil, body, "application/json")
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil, "application/json")
	return err
}

// DeleteBody sends a DELETE request with a JSON body (file deletion needs
// the sha token in the body).
func (c *Client) DeleteBody(ctx context.Context, path string, body any) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, body, "application/json")
	return err
}

// GetJSONAllPages fetches every page of a list endpoint and returns the
// concatenated JSON array, in received order. It advances the page number
// until the forge returns a page shorter than perPage. A failure on any
// page fails the whole call; no partial data is returned.
func (c *Client) GetJSONAllPages(ctx context.Context, path string, query url.Values, perPage int) (json.RawMessage, error) {
	var e jx.Encoder
	e.ArrStart()

	for page := 1; ; page++ {
		q := url.Values{}
		for k, vs := range query {
			q[k] = vs
		}
		q.Set("page", strconv.Itoa(page))
		q.Set("limit", strconv.Itoa(perPage))

		raw, err := c.GetJSONQuery(ctx, path, q)
		if err != nil {
			return nil, errors.Wrapf(err, "page %d", page)
		}

		n := 0
		d := jx.DecodeBytes(raw)
		if err := d.Arr(func(d *jx.Decoder) error {
			item, err := d.Raw()
			if err != nil {
				return err
			}
			e.Raw(item)
			n++
			return nil
		}); err != nil {
			return nil, errors.Wrapf(err, "decode page %d", page)
		}

		if n < perPage {
			break
		}
	}

	e.ArrEnd()
	return json.RawMessage(e.Bytes()), nil
}
