package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	perr "gitcards/internal/platform/errors"
)

func TestUserReposFiltersForksAndCaps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/octocat/repos" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":1,"name":"alpha","full_name":"octocat/alpha","fork":false,"default_branch":"main"},
			{"id":2,"name":"forked","full_name":"octocat/forked","fork":true,"default_branch":"main"},
			{"id":3,"name":"beta","full_name":"octocat/beta","fork":false,"default_branch":"master"},
			{"id":4,"name":"gamma","full_name":"octocat/gamma","fork":false,"default_branch":"main"}
		]`))
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL})
	repos, err := c.UserRepos(context.Background(), "octocat", 2)
	if err != nil {
		t.Fatalf("UserRepos: %v", err)
	}
	if len(repos) != 2 {
		t.Fatalf("expected 2 repos, got %d", len(repos))
	}
	if repos[0].Name != "alpha" || repos[1].Name != "beta" {
		t.Fatalf("wrong repos: %s %s", repos[0].Name, repos[1].Name)
	}
}

func TestUserReposNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL})
	_, err := c.UserRepos(context.Background(), "ghost", 30)
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("expected not found code, got %v", err)
	}
}

func TestRepoTree(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/octocat/alpha/git/trees/main" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("recursive") != "1" {
			t.Errorf("missing recursive=1")
		}
		_, _ = w.Write([]byte(`{"sha":"abc","truncated":false,"tree":[
			{"path":"src/main.py","type":"blob","size":120},
			{"path":"src","type":"tree"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL})
	tree, _, notModified, err := c.RepoTree(context.Background(), "octocat/alpha", "main", "")
	if err != nil {
		t.Fatalf("RepoTree: %v", err)
	}
	if notModified {
		t.Fatalf("unconditional fetch reported not modified")
	}
	if len(tree.Tree) != 2 || tree.Tree[0].Path != "src/main.py" {
		t.Fatalf("tree = %+v", tree)
	}
}

func TestRepoTreeNotModified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") == `"tree-v1"` {
			w.Header().Set("ETag", `"tree-v1"`)
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"tree-v1"`)
		_, _ = w.Write([]byte(`{"sha":"abc","tree":[{"path":"main.go","type":"blob","size":10}]}`))
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL})
	_, etag, notModified, err := c.RepoTree(context.Background(), "octocat/alpha", "main", "")
	if err != nil {
		t.Fatalf("RepoTree: %v", err)
	}
	if notModified || etag != `"tree-v1"` {
		t.Fatalf("notModified = %v etag = %q", notModified, etag)
	}

	_, etag, notModified, err = c.RepoTree(context.Background(), "octocat/alpha", "main", etag)
	if err != nil {
		t.Fatalf("RepoTree conditional: %v", err)
	}
	if !notModified || etag != `"tree-v1"` {
		t.Fatalf("notModified = %v etag = %q", notModified, etag)
	}
}

func TestRawFileSizeCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 2048))
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, RawURL: srv.URL})
	if _, err := c.RawFile(context.Background(), "octocat/alpha", "main", "big.bin", 1024); !perr.IsCode(err, perr.ErrorCodePayloadTooLarge) {
		t.Fatalf("expected payload too large, got %v", err)
	}

	b, err := c.RawFile(context.Background(), "octocat/alpha", "main", "ok.txt", 4096)
	if err != nil {
		t.Fatalf("RawFile: %v", err)
	}
	if len(b) != 2048 {
		t.Fatalf("len = %d, want 2048", len(b))
	}
}

func TestRetryOnTransientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, MaxRetries: 2})
	c.sleep = func(time.Duration) {}
	if _, err := c.UserRepos(context.Background(), "octocat", 10); err != nil {
		t.Fatalf("UserRepos after retry: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2", calls.Load())
	}
}

func TestCachedClientServesFromCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`[{"id":1,"name":"alpha","full_name":"octocat/alpha","fork":false}]`))
	}))
	defer srv.Close()

	cc := NewCachedClient(NewClient(Options{BaseURL: srv.URL}))
	for i := 0; i < 3; i++ {
		repos, err := cc.UserRepos(context.Background(), "octocat", 30)
		if err != nil {
			t.Fatalf("UserRepos #%d: %v", i, err)
		}
		if len(repos) != 1 {
			t.Fatalf("repos = %+v", repos)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("upstream calls = %d, want 1", calls.Load())
	}
}

func TestCachedClientRevalidatesStaleTree(t *testing.T) {
	var full, conditional atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", `"tree-v1"`)
		if r.Header.Get("If-None-Match") == `"tree-v1"` {
			conditional.Add(1)
			w.WriteHeader(http.StatusNotModified)
			return
		}
		full.Add(1)
		_, _ = w.Write([]byte(`{"sha":"abc","tree":[{"path":"main.go","type":"blob","size":10}]}`))
	}))
	defer srv.Close()

	cc := NewCachedClient(NewClient(Options{BaseURL: srv.URL}))
	clock := time.Now()
	cc.now = func() time.Time { return clock }

	first, err := cc.RepoTree(context.Background(), "octocat/alpha", "main")
	if err != nil {
		t.Fatalf("RepoTree: %v", err)
	}

	// Within the freshness window nothing goes upstream
	if _, err := cc.RepoTree(context.Background(), "octocat/alpha", "main"); err != nil {
		t.Fatalf("RepoTree fresh: %v", err)
	}
	if full.Load() != 1 || conditional.Load() != 0 {
		t.Fatalf("full = %d conditional = %d after fresh hit", full.Load(), conditional.Load())
	}

	// Past the window the stale entry revalidates and the 304 keeps it
	clock = clock.Add(treeTTL + time.Minute)
	again, err := cc.RepoTree(context.Background(), "octocat/alpha", "main")
	if err != nil {
		t.Fatalf("RepoTree stale: %v", err)
	}
	if full.Load() != 1 || conditional.Load() != 1 {
		t.Fatalf("full = %d conditional = %d after revalidation", full.Load(), conditional.Load())
	}
	if len(again.Tree) != len(first.Tree) || again.Tree[0].Path != first.Tree[0].Path {
		t.Fatalf("revalidated tree = %+v, want cached %+v", again, first)
	}

	// The 304 renewed the entry, the next read is a plain cache hit
	if _, err := cc.RepoTree(context.Background(), "octocat/alpha", "main"); err != nil {
		t.Fatalf("RepoTree renewed: %v", err)
	}
	if conditional.Load() != 1 {
		t.Fatalf("conditional = %d, want 1 after renewal", conditional.Load())
	}
}
