// Package twitter looks up single tweets through the v2 API using caller
// supplied bearer tokens, so credential rotation stays outside the client.
package twitter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/sagarshah-16/fetch-transcribe/internal/engine"
)

// DefaultAPIBase is the production v2 endpoint host.
const DefaultAPIBase = "https://api.twitter.com"

var (
	// ErrBadTweetURL means the URL carries no /status/<id> segment.
	ErrBadTweetURL = errors.New("invalid tweet URL")

	// ErrRateLimited is reported when the API answers 429 for a token.
	ErrRateLimited = errors.New("rate limited")

	statusIDRe = regexp.MustCompile(`/status/(\d+)`)
)

// IsRateLimited reports whether err is the 429 condition that should rotate
// to the next credential.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// ParseStatusID extracts the numeric tweet ID from a status URL.
func ParseStatusID(rawURL string) (string, error) {
	m := statusIDRe.FindStringSubmatch(rawURL)
	if len(m) < 2 {
		return "", fmt.Errorf("%w: %s", ErrBadTweetURL, rawURL)
	}
	return m[1], nil
}

// Tweet is a single looked-up tweet with its resolved media attachments.
type Tweet struct {
	ID             string
	Text           string
	ConversationID string
	AuthorID       string
	Media          []Media
}

// Media is one attachment from the includes section.
type Media struct {
	Key             string
	Type            string
	URL             string
	PreviewImageURL string
	Variants        []Variant
}

// Variant is one rendition of a video attachment.
type Variant struct {
	BitRate     int    `json:"bit_rate"`
	ContentType string `json:"content_type"`
	URL         string `json:"url"`
}

// IsVideo reports whether the attachment has downloadable video renditions.
func (m Media) IsVideo() bool {
	return m.Type == "video" || m.Type == "animated_gif"
}

// BestVariant picks the highest-bitrate video/mp4 rendition.
func BestVariant(variants []Variant) (Variant, bool) {
	var best Variant
	found := false
	for _, v := range variants {
		if v.ContentType != "video/mp4" {
			continue
		}
		if !found || v.BitRate > best.BitRate {
			best = v
			found = true
		}
	}
	return best, found
}

// LookupError carries tweet-level errors the API reports with a 200 response
// (deleted tweets, suspended authors, protected accounts).
type LookupError struct {
	Errors []APIError
}

// APIError is one entry of the v2 errors array.
type APIError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Type   string `json:"type"`
}

func (e *LookupError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, ae := range e.Errors {
		if ae.Detail != "" {
			parts = append(parts, ae.Detail)
		} else {
			parts = append(parts, ae.Title)
		}
	}
	return "tweet lookup: " + strings.Join(parts, "; ")
}

// Client calls the v2 single-tweet endpoint. Bearer tokens are passed per
// call by whoever owns the credential pool.
type Client struct {
	base       string
	httpClient *http.Client
}

// NewClient builds a client against base (empty = engine config, then the
// production endpoint).
func NewClient(base string, hc *http.Client) *Client {
	if base == "" {
		base = engine.Cfg.TwitterAPIBase
	}
	if base == "" {
		base = DefaultAPIBase
	}
	if hc == nil {
		hc = engine.Cfg.HTTPClient
	}
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{base: strings.TrimRight(base, "/"), httpClient: hc}
}

// Lookup fetches one tweet with its media expansions using the given bearer
// token. A 429 comes back wrapping ErrRateLimited so the caller can rotate;
// every other API failure surfaces as-is.
func (c *Client) Lookup(ctx context.Context, id, bearer string) (*Tweet, error) {
	timeout := engine.Cfg.FetchTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	q := url.Values{}
	q.Set("tweet.fields", "conversation_id,author_id,attachments")
	q.Set("expansions", "attachments.media_keys")
	q.Set("media.fields", "url,preview_image_url,variants,type")

	reqURL := fmt.Sprintf("%s/2/tweets/%s?%s", c.base, id, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("lookup tweet %s: %w", id, err)
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("User-Agent", engine.UserAgentBot)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("lookup tweet %s: %w", id, ctxErr)
		}
		return nil, fmt.Errorf("lookup tweet %s: %w", id, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("lookup tweet %s: read body: %w", id, err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("lookup tweet %s: %w", id, ErrRateLimited)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("lookup tweet %s: status %d: %s", id, resp.StatusCode, engine.Truncate(string(body), 200))
	}

	tweet, err := parseLookup(body)
	if err != nil {
		return nil, fmt.Errorf("lookup tweet %s: %w", id, err)
	}
	return tweet, nil
}

// lookupResponse mirrors the v2 single-tweet payload.
type lookupResponse struct {
	Data *struct {
		ID             string `json:"id"`
		Text           string `json:"text"`
		ConversationID string `json:"conversation_id"`
		AuthorID       string `json:"author_id"`
		Attachments    struct {
			MediaKeys []string `json:"media_keys"`
		} `json:"attachments"`
	} `json:"data"`
	Includes struct {
		Media []struct {
			MediaKey        string    `json:"media_key"`
			Type            string    `json:"type"`
			URL             string    `json:"url"`
			PreviewImageURL string    `json:"preview_image_url"`
			Variants        []Variant `json:"variants"`
		} `json:"media"`
	} `json:"includes"`
	Errors []APIError `json:"errors"`
}

// parseLookup decodes the payload and joins attachment keys to their media.
// API-reported errors win over any data present.
func parseLookup(body []byte) (*Tweet, error) {
	var lr lookupResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(lr.Errors) > 0 {
		return nil, &LookupError{Errors: lr.Errors}
	}
	if lr.Data == nil {
		return nil, errors.New("empty response")
	}

	byKey := make(map[string]Media, len(lr.Includes.Media))
	for _, m := range lr.Includes.Media {
		byKey[m.MediaKey] = Media{
			Key:             m.MediaKey,
			Type:            m.Type,
			URL:             m.URL,
			PreviewImageURL: m.PreviewImageURL,
			Variants:        m.Variants,
		}
	}

	tweet := &Tweet{
		ID:             lr.Data.ID,
		Text:           lr.Data.Text,
		ConversationID: lr.Data.ConversationID,
		AuthorID:       lr.Data.AuthorID,
	}
	for _, key := range lr.Data.Attachments.MediaKeys {
		if m, ok := byKey[key]; ok {
			tweet.Media = append(tweet.Media, m)
		}
	}
	return tweet, nil
}
