package report

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/ghtopdep/ghtopdep/pkg/scrape"
)

func TestServer_SubmitThenLookup(t *testing.T) {
	server := httptest.NewServer(NewServer(NewMemoryStore(), nil).Router())
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	sub := Submission{
		URL:        "https://github.com/alice/app",
		Owner:      "alice",
		Repository: "app",
		Deps: []scrape.Entry{
			{URL: "https://github.com/b/dep", Stars: 42},
			{URL: "https://github.com/c/dep", Stars: 7},
		},
	}
	if err := client.Submit(ctx, sub); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}

	entries, err := client.Lookup(ctx, "alice", "app")
	if err != nil {
		t.Fatalf("Lookup() failed: %v", err)
	}
	if len(entries) != 2 || entries[0].Stars != 42 {
		t.Errorf("unexpected entries %v", entries)
	}
}

func TestServer_LookupUnknownRepo(t *testing.T) {
	server := httptest.NewServer(NewServer(NewMemoryStore(), nil).Router())
	defer server.Close()

	_, err := NewClient(server.URL).Lookup(context.Background(), "nobody", "nothing")
	if err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestServer_ResubmitOverwrites(t *testing.T) {
	server := httptest.NewServer(NewServer(NewMemoryStore(), nil).Router())
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	first := Submission{Owner: "alice", Repository: "app", Deps: []scrape.Entry{{URL: "x", Stars: 1}}}
	second := Submission{Owner: "alice", Repository: "app", Deps: []scrape.Entry{{URL: "y", Stars: 2}, {URL: "z", Stars: 3}}}

	if err := client.Submit(ctx, first); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	if err := client.Submit(ctx, second); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}

	entries, err := client.Lookup(ctx, "alice", "app")
	if err != nil {
		t.Fatalf("Lookup() failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("got %d entries, want 2 from the overwriting submission", len(entries))
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Get(ctx, "a", "b"); err != ErrNotFound {
		t.Errorf("Get() on empty store = %v, want ErrNotFound", err)
	}

	rec := &Record{ID: "id-1", Owner: "a", Repository: "b"}
	if err := store.Put(ctx, rec); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}

	got, err := store.Get(ctx, "a", "b")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.ID != "id-1" {
		t.Errorf("ID = %q, want id-1", got.ID)
	}
}
