package engine

import (
	"strings"

	"github.com/brianvoe/gofakeit/v6"
)

// User-Agent strings used across HTTP clients.
const (
	UserAgentBot    = "FetchTranscribe/1.0"
	UserAgentChrome = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
)

// RandomUserAgent returns a plausible browser User-Agent for outbound fetches.
// Non-browser agents (curl, bots) get origins blocking us fast, so filter to
// Mozilla-family strings and fall back to the pinned Chrome UA.
func RandomUserAgent() string {
	for i := 0; i < 3; i++ {
		ua := gofakeit.UserAgent()
		if strings.HasPrefix(ua, "Mozilla/") {
			return ua
		}
	}
	return UserAgentChrome
}
