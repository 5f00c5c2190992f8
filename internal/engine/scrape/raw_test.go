package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sagarshah-16/fetch-transcribe/internal/engine"
)

func TestGithubRawURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "blob to raw",
			url:  "https://github.com/golang/go/blob/master/README.md",
			want: "https://raw.githubusercontent.com/golang/go/master/README.md",
		},
		{
			name: "nested path",
			url:  "https://github.com/owner/repo/blob/v2/src/lib/utils.ts",
			want: "https://raw.githubusercontent.com/owner/repo/v2/src/lib/utils.ts",
		},
		{
			name: "non-github passthrough",
			url:  "https://stackoverflow.com/questions/12345",
			want: "https://stackoverflow.com/questions/12345",
		},
		{
			name: "github non-blob passthrough",
			url:  "https://github.com/owner/repo/issues/1",
			want: "https://github.com/owner/repo/issues/1",
		},
		{
			name: "empty string",
			url:  "",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GithubRawURL(tt.url)
			if got != tt.want {
				t.Errorf("GithubRawURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestIsRawGitHubURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://raw.githubusercontent.com/owner/repo/main/file.go", true},
		{"https://github.com/owner/repo/blob/main/file.go", false},
		{"https://example.com/raw.githubusercontent.com", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsRawGitHubURL(tt.url); got != tt.want {
			t.Errorf("IsRawGitHubURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

// Blob URLs route to the raw path, article URLs to the fallback chain.
func TestRawDispatch(t *testing.T) {
	if !IsRawGitHubURL(GithubRawURL("https://github.com/owner/repo/blob/main/pkg/doc.go")) {
		t.Error("blob URL should rewrite into a raw URL")
	}
	if IsRawGitHubURL(GithubRawURL("https://example.com/article")) {
		t.Error("article URL must not dispatch to the raw path")
	}
}

func TestAltBranchURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "main to master",
			url:  "https://raw.githubusercontent.com/owner/repo/main/docs/a.md",
			want: "https://raw.githubusercontent.com/owner/repo/master/docs/a.md",
		},
		{
			name: "master to main",
			url:  "https://raw.githubusercontent.com/owner/repo/master/docs/a.md",
			want: "https://raw.githubusercontent.com/owner/repo/main/docs/a.md",
		},
		{
			name: "tag has no sibling",
			url:  "https://raw.githubusercontent.com/owner/repo/v1.2.0/docs/a.md",
			want: "",
		},
		{
			name: "not a raw url",
			url:  "https://example.com/main/file",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := altBranchURL(tt.url); got != tt.want {
				t.Errorf("altBranchURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestFetchText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("package main\n\nfunc main() {}\n"))
	}))
	defer srv.Close()

	engine.Init(engine.Config{
		FetchTimeout: 5 * time.Second,
		HTTPClient:   srv.Client(),
	})

	got, err := fetchText(context.Background(), srv.URL+"/owner/repo/main/main.go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "func main()") {
		t.Errorf("got %q", got)
	}
	// Raw content keeps its line structure.
	if !strings.Contains(got, "\n") {
		t.Error("newlines collapsed in raw content")
	}
}

func TestFetchTextNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	engine.Init(engine.Config{
		FetchTimeout: 5 * time.Second,
		HTTPClient:   srv.Client(),
	})

	_, err := fetchText(context.Background(), srv.URL+"/gone")
	if err == nil || !strings.Contains(err.Error(), "status 404") {
		t.Fatalf("expected status 404 error, got %v", err)
	}
}
