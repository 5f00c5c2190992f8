package scrape

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sagarshah-16/fetch-transcribe/internal/engine"
)

// githubBlobRe matches github.com/:owner/:repo/blob/:ref/:path
var githubBlobRe = regexp.MustCompile(`^https?://github\.com/([^/]+/[^/]+)/blob/([^/]+)/(.+)$`)

// rawGitHubRe matches raw.githubusercontent.com/:owner/:repo/:ref/:path
var rawGitHubRe = regexp.MustCompile(`^https?://raw\.githubusercontent\.com/([^/]+)/([^/]+)/([^/]+)/(.+)$`)

// GithubRawURL converts a GitHub blob URL to raw.githubusercontent.com.
// Non-GitHub URLs are returned unchanged.
func GithubRawURL(u string) string {
	m := githubBlobRe.FindStringSubmatch(u)
	if m == nil {
		return u
	}
	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s", m[1], m[2], m[3])
}

// IsRawGitHubURL returns true for raw.githubusercontent.com URLs.
func IsRawGitHubURL(u string) bool {
	return rawGitHubRe.MatchString(u)
}

// Raw fetches a URL as plain text, no article extraction. Readability and
// DOM stripping would mangle source files, so raw endpoints bypass the
// fallback chain entirely. A 404 retries once on the sibling default branch
// (main <-> master), since renamed branches break old deep links constantly.
func Raw(ctx context.Context, rawURL string) (string, error) {
	content, err := fetchText(ctx, rawURL)
	if err == nil {
		return content, nil
	}

	if alt := altBranchURL(rawURL); alt != "" && strings.Contains(err.Error(), "status 404") {
		if c, altErr := fetchText(ctx, alt); altErr == nil {
			return c, nil
		}
	}
	return "", err
}

// altBranchURL returns the same raw URL on the sibling default branch, or ""
// when the ref is neither main nor master.
func altBranchURL(rawURL string) string {
	m := rawGitHubRe.FindStringSubmatch(rawURL)
	if m == nil {
		return ""
	}
	alt := map[string]string{"main": "master", "master": "main"}[m[3]]
	if alt == "" {
		return ""
	}
	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/%s", m[1], m[2], alt, m[4])
}

func fetchText(ctx context.Context, fetchURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, engine.Cfg.FetchTimeout)
	defer cancel()

	resp, err := engine.FetchWithRetry(ctx, fetchURL)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", fetchURL, err)
	}
	defer resp.Body.Close()

	body, err := engine.ReadResponseBody(resp)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", fetchURL, err)
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		return "", fmt.Errorf("fetch %s: empty body", fetchURL)
	}
	return engine.Truncate(text, engine.Cfg.MaxContentChars), nil
}
