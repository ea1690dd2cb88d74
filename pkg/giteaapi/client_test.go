package giteaapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
)

func TestClientStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"message":"token invalid"}`, http.StatusUnauthorized, "authentication failed: check GITEA_TOKEN"},
		{"forbidden", http.StatusForbidden, `{"message":"no access"}`, http.StatusForbidden, "authentication failed: check GITEA_TOKEN"},
		{"server error keeps body", http.StatusInternalServerError, "boom", http.StatusInternalServerError, "boom"},
		{"conflict keeps body", http.StatusConflict, "sha mismatch", http.StatusConflict, "sha mismatch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			client := NewClient(srv.URL, "token")
			_, err := client.GetJSON(context.Background(), "/repos/o/r")
			if err == nil {
				t.Fatal("expected error")
			}

			if !IsStatus(err, tt.wantStatus) {
				t.Errorf("IsStatus(%d) = false for %v", tt.wantStatus, err)
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T", err)
			}
			if apiErr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", apiErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestClientNotFoundNamesURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "token")
	_, err := client.GetJSON(context.Background(), "/repos/o/missing")
	if !IsStatus(err, http.StatusNotFound) {
		t.Fatalf("expected 404 APIError, got %v", err)
	}

	var apiErr *APIError
	errors.As(err, &apiErr)
	want := "not found: " + srv.URL + "/api/v1/repos/o/missing"
	if apiErr.Message != want {
		t.Errorf("message = %q, want %q", apiErr.Message, want)
	}
}

func TestClientSendsAuthAndPrefix(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret123")
	if _, err := client.GetJSON(context.Background(), "/user"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAuth != "token secret123" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "token secret123")
	}
	if gotPath != "/api/v1/user" {
		t.Errorf("path = %q, want /api/v1/user", gotPath)
	}
}

func TestGetJSONAllPages(t *testing.T) {
	// Three pages: two full, one short. Items must come back concatenated
	// in request order.
	perPage := 2
	pages := [][]int{{1, 2}, {3, 4}, {5}}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if r.URL.Query().Get("limit") != strconv.Itoa(perPage) {
			t.Errorf("limit = %q, want %d", r.URL.Query().Get("limit"), perPage)
		}
		if page < 1 || page > len(pages) {
			fmt.Fprint(w, "[]")
			return
		}
		json.NewEncoder(w).Encode(pages[page-1])
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "token")
	raw, err := client.GetJSONAllPages(context.Background(), "/repos/o/r/issues", url.Values{"state": {"open"}}, perPage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []int
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("result is not a JSON array: %v", err)
	}
	want := []int{1, 2, 3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestGetJSONAllPagesStopsOnEmptyFirstPage(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, "[]")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "token")
	raw, err := client.GetJSONAllPages(context.Background(), "/repos/o/r/labels", url.Values{}, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	var got []any
	if err := json.Unmarshal(raw, &got); err != nil || len(got) != 0 {
		t.Errorf("expected empty array, got %s", raw)
	}
}

func TestGetJSONAllPagesFailureDiscardsEarlierPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page >= 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		// Full pages keep the walk going.
		fmt.Fprint(w, `[{"id":1},{"id":2}]`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "token")
	raw, err := client.GetJSONAllPages(context.Background(), "/repos/o/r/issues", url.Values{}, 2)
	if err == nil {
		t.Fatal("expected error from failing page")
	}
	if raw != nil {
		t.Errorf("expected no partial data, got %s", raw)
	}
	if !IsStatus(err, http.StatusInternalServerError) {
		t.Errorf("expected wrapped 500 APIError, got %v", err)
	}
}

func TestGetRaw(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "text/plain" {
			t.Errorf("Accept = %q, want text/plain", r.Header.Get("Accept"))
		}
		fmt.Fprint(w, "diff --git a/f b/f\n")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "token")
	body, err := client.GetRaw(context.Background(), "/repos/o/r/git/commits/abc.diff")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != "diff --git a/f b/f\n" {
		t.Errorf("body = %q", body)
	}
}
