// Package scrape extracts readable page content. The primary backend fetches
// with the browser-fingerprint client and runs readability; the secondary is
// a plain HTTP fetch with DOM stripping. Content chains them through the
// engine fallback so the secondary only runs when the primary result is
// unusable.
package scrape

import (
	"context"

	"github.com/sagarshah-16/fetch-transcribe/internal/engine"
)

// Content returns cleaned markdown-ish text for pageURL or an error carrying
// both backend failures. GitHub blob links are served from the raw host
// instead: the file viewer UI defeats article extraction.
func Content(ctx context.Context, pageURL string) (string, error) {
	if u := GithubRawURL(pageURL); IsRawGitHubURL(u) {
		return Raw(ctx, u)
	}

	return engine.Fallback(ctx, "scrape", engine.MeaningfulText(0),
		func(ctx context.Context) (string, error) { return Readable(ctx, pageURL) },
		func(ctx context.Context) (string, error) { return Plain(ctx, pageURL) },
	)
}
