package apiserver

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrNoURL means no URL could be extracted from the request body.
var ErrNoURL = errors.New("no url found in request body")

// ExtractURL pulls the single URL out of a request body. Clients send every
// shape imaginable, so all of these are accepted:
//
//	"https://example.com"
//	{"url": "https://example.com"}
//	{"query": {"url": "https://example.com"}}
//	["https://example.com"]            (one-element array around any of the above)
//	https://example.com                (bare string, no JSON quoting)
//
// Arrays are unwrapped first; a top-level url field wins over a nested
// query.url; non-string and empty values are treated as absent. The result
// is always scheme-normalized.
func ExtractURL(body []byte) (string, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "", ErrNoURL
	}

	if !gjson.Valid(trimmed) {
		// A URL pasted without quotes is not valid JSON but is an obvious
		// intent. Anything multi-token or brace-shaped stays rejected.
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") ||
			strings.HasPrefix(trimmed, `"`) || strings.ContainsAny(trimmed, " \t\r\n") {
			return "", ErrNoURL
		}
		return NormalizeURL(trimmed), nil
	}

	v := gjson.Parse(trimmed)
	if v.IsArray() {
		arr := v.Array()
		if len(arr) == 0 {
			return "", ErrNoURL
		}
		v = arr[0]
	}

	var candidate string
	switch {
	case v.Type == gjson.String:
		candidate = v.String()
	case v.IsObject():
		if u := v.Get("url"); u.Type == gjson.String && strings.TrimSpace(u.String()) != "" {
			candidate = u.String()
		} else if u := v.Get("query.url"); u.Type == gjson.String && strings.TrimSpace(u.String()) != "" {
			candidate = u.String()
		}
	}

	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return "", ErrNoURL
	}
	return NormalizeURL(candidate), nil
}

// NormalizeURL prepends https:// when raw has no scheme. The check is
// case-insensitive so an already-schemed URL is never double-prefixed, which
// keeps normalization idempotent.
func NormalizeURL(raw string) string {
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	return "https://" + raw
}
