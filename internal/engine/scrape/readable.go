package scrape

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html/charset"

	"github.com/sagarshah-16/fetch-transcribe/internal/engine"
)

// Readable fetches pageURL through the browser-fingerprint client and
// extracts the main article as markdown. Returning an error here hands the
// URL to the plain extractor.
func Readable(ctx context.Context, pageURL string) (string, error) {
	bc := engine.Cfg.BrowserClient
	if bc == nil {
		return "", errors.New("browser client not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, engine.Cfg.FetchTimeout)
	defer cancel()

	body, status, err := bc.FetchPage(ctx, pageURL)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("browser fetch %s: %w", pageURL, ctxErr)
		}
		return "", fmt.Errorf("browser fetch %s: %w", pageURL, err)
	}
	if status != 200 {
		return "", fmt.Errorf("browser fetch %s: status %d", pageURL, status)
	}

	return extractReadable(body, pageURL)
}

// extractReadable runs readability over raw page bytes and renders the
// article to markdown, falling back to the article's plain text when the
// markdown conversion produces nothing.
func extractReadable(body []byte, pageURL string) (string, error) {
	rdr, err := charset.NewReader(bytes.NewReader(body), "")
	if err != nil {
		rdr = bytes.NewReader(body)
	}

	parsedURL, _ := url.Parse(pageURL)
	article, err := readability.FromReader(rdr, parsedURL)
	if err != nil {
		return "", fmt.Errorf("readability %s: %w", pageURL, err)
	}

	md, err := htmltomarkdown.ConvertString(article.Content)
	if err != nil || strings.TrimSpace(md) == "" {
		md = article.TextContent
	}

	text := strings.TrimSpace(md)
	if text == "" {
		return "", fmt.Errorf("readability %s: no article content", pageURL)
	}
	return engine.Truncate(text, engine.Cfg.MaxContentChars), nil
}
