package github

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	c := NewClient("test-token", nil)
	c.baseURL = server.URL
	return c
}

func TestDescribe(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		switch r.URL.Path {
		case "/repos/alice/short":
			json.NewEncoder(w).Encode(map[string]string{"description": "A tiny helper"})
		case "/repos/alice/long":
			json.NewEncoder(w).Encode(map[string]string{
				"description": "An extremely verbose description that goes on and on well past any reasonable display budget",
			})
		case "/repos/alice/blank":
			json.NewEncoder(w).Encode(map[string]string{"description": ""})
		default:
			http.NotFound(w, r)
		}
	}))

	t.Run("short description kept", func(t *testing.T) {
		got, err := c.Describe(context.Background(), "/alice/short")
		if err != nil {
			t.Fatalf("Describe() failed: %v", err)
		}
		if got != "A tiny helper" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("long description shortened", func(t *testing.T) {
		got, err := c.Describe(context.Background(), "/alice/long")
		if err != nil {
			t.Fatalf("Describe() failed: %v", err)
		}
		if len(got) > 60 {
			t.Errorf("len = %d, want <= 60: %q", len(got), got)
		}
		if !strings.HasSuffix(got, "...") {
			t.Errorf("truncated description should end with ellipsis marker: %q", got)
		}
	})

	t.Run("empty description yields placeholder", func(t *testing.T) {
		got, err := c.Describe(context.Background(), "/alice/blank")
		if err != nil {
			t.Fatalf("Describe() failed: %v", err)
		}
		if got != " " {
			t.Errorf("got %q, want single-space placeholder", got)
		}
	})

	t.Run("not found", func(t *testing.T) {
		_, err := c.Describe(context.Background(), "/alice/missing")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("malformed path", func(t *testing.T) {
		for _, path := range []string{"", "/", "/only-owner", "/a/b/c"} {
			if _, err := c.Describe(context.Background(), path); err == nil {
				t.Errorf("Describe(%q) = nil error, want malformed-path error", path)
			}
		}
	})
}

func TestSearchCode(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/code" {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query().Get("q")
		if !strings.Contains(q, "repo:alice/app") {
			t.Errorf("query %q not scoped to repository", q)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]string{
				{"html_url": "https://github.com/alice/app/blob/main/a.go"},
				{"html_url": "https://github.com/alice/app/blob/main/b.go"},
			},
		})
	}))

	hits, err := c.SearchCode(context.Background(), "usefulFunc", "alice/app")
	if err != nil {
		t.Fatalf("SearchCode() failed: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	if hits[0] != "https://github.com/alice/app/blob/main/a.go" {
		t.Errorf("unexpected hit %q", hits[0])
	}
}

func TestShorten(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "short text", 60, "short text"},
		{"exact fit", strings.Repeat("a", 60), 60, strings.Repeat("a", 60)},
		{"collapses whitespace", "spaced   out\ttext", 60, "spaced out text"},
		{"truncates at word boundary", "one two three four", 12, "one two..."},
		{"single long word", strings.Repeat("x", 80), 10, "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Shorten(tt.in, tt.width)
			if got != tt.want {
				t.Errorf("Shorten(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
			if len(got) > tt.width && tt.want != got {
				t.Errorf("result exceeds width %d: %q", tt.width, got)
			}
		})
	}
}
