package scrape

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/sagarshah-16/fetch-transcribe/internal/engine"
)

// removeSelectors is the boilerplate stripped before text extraction.
var removeSelectors = []string{
	"script", "style", "noscript", "iframe", "svg",
	"header", "footer", "nav", "aside",
	".advertisement", ".ad", ".sidebar", ".comments",
	"[role=navigation]", "[role=banner]", "[role=contentinfo]",
}

var (
	scriptRe   = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleRe    = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptRe = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
)

// Plain fetches pageURL over plain HTTP and strips it down to readable text.
// This is the fallback backend: cheaper than the browser path and tolerant of
// pages readability rejects.
func Plain(ctx context.Context, pageURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, engine.Cfg.FetchTimeout)
	defer cancel()

	resp, err := engine.FetchWithRetry(ctx, pageURL)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("fetch %s: %w", pageURL, ctxErr)
		}
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	body, err := engine.ReadResponseBody(resp)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", pageURL, err)
	}

	content := ExtractText(body, resp.Header.Get("Content-Type"))
	if content == "" {
		return "", fmt.Errorf("extract %s: no text content", pageURL)
	}
	return engine.Truncate(content, engine.Cfg.MaxContentChars), nil
}

// ExtractText pulls readable text out of raw HTML bytes: goquery selection
// with boilerplate removed, then a regex strip when the document yields
// nothing that way.
func ExtractText(body []byte, contentType string) string {
	rdr, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		rdr = bytes.NewReader(body)
	}

	doc, err := goquery.NewDocumentFromReader(rdr)
	if err != nil {
		return stripMarkup(string(body))
	}

	doc.Find(strings.Join(removeSelectors, ", ")).Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	contentSel := doc.Find("article, main, .content, .post-content, .article-content, #content").First()
	if contentSel.Length() == 0 {
		contentSel = doc.Find("body")
	}

	content := engine.CollapseWhitespace(contentSel.Text())
	if content == "" {
		content = stripMarkup(string(body))
	}
	return content
}

// stripMarkup is the last-resort extraction: drop script/style/noscript
// blocks, then every remaining tag.
func stripMarkup(html string) string {
	html = scriptRe.ReplaceAllString(html, "")
	html = styleRe.ReplaceAllString(html, "")
	html = noscriptRe.ReplaceAllString(html, "")
	return engine.CollapseWhitespace(engine.CleanHTML(html))
}
