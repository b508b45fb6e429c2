package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/ghtopdep/ghtopdep/pkg/scrape"
)

func newTestRoot(out io.Writer, args ...string) *cobra.Command {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	return root
}

func TestScrapeCommandFlagDefaults(t *testing.T) {
	c := New(io.Discard, LogInfo)
	cmd := c.scrapeCommand()

	if got := cmd.Flags().Lookup("rows").DefValue; got != "10" {
		t.Errorf("--rows default = %s, want 10", got)
	}
	if got := cmd.Flags().Lookup("minstar").DefValue; got != "5" {
		t.Errorf("--minstar default = %s, want 5", got)
	}
	if got := cmd.Flags().Lookup("packages").DefValue; got != "false" {
		t.Errorf("--packages default = %s, want false", got)
	}
}

func TestScrapeRejectsNonGitHubURL(t *testing.T) {
	root := newTestRoot(io.Discard, "https://gitlab.com/foo/bar")
	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "github.com") {
		t.Fatalf("Execute() error = %v, want GitHub host complaint", err)
	}
}

func TestScrapeRequiresTokenForSearch(t *testing.T) {
	t.Setenv("GHTOPDEP_TOKEN", "")

	root := newTestRoot(io.Discard, "--search", "import", "https://github.com/foo/bar")
	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "token") {
		t.Fatalf("Execute() error = %v, want token requirement", err)
	}
}

func TestScrapeRequiresTokenForDescription(t *testing.T) {
	t.Setenv("GHTOPDEP_TOKEN", "")

	root := newTestRoot(io.Discard, "--description", "https://github.com/foo/bar")
	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "token") {
		t.Fatalf("Execute() error = %v, want token requirement", err)
	}
}

func TestReportRequiresBaseURL(t *testing.T) {
	t.Setenv("GHTOPDEP_BASE_URL", "")
	t.Setenv("GHTOPDEP_ENV", "")

	root := newTestRoot(io.Discard, "--report", "https://github.com/foo/bar")
	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "GHTOPDEP_BASE_URL") {
		t.Fatalf("Execute() error = %v, want base URL requirement", err)
	}
}

func TestReportLookupShortCircuit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/dropbox/zxcvbn-ios" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `[{"url":"https://github.com/a/b","stars":3},{"url":"https://github.com/c/d","stars":9}]`)
	}))
	defer srv.Close()
	t.Setenv("GHTOPDEP_BASE_URL", srv.URL)

	var out bytes.Buffer
	root := newTestRoot(&out, "--report", "--json", "https://github.com/dropbox/zxcvbn-ios")
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var got []scrape.Entry
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out.String())
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].URL != "https://github.com/c/d" || got[0].Stars != 9 {
		t.Errorf("entries not sorted by stars: %+v", got)
	}
}

func TestReportLookupFailureIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()
	t.Setenv("GHTOPDEP_BASE_URL", srv.URL)

	root := newTestRoot(io.Discard, "--report", "https://github.com/foo/bar")
	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "report lookup") {
		t.Fatalf("Execute() error = %v, want report lookup failure", err)
	}
}
