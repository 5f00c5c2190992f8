package engine

import (
	"net/http"
	"time"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	FetchTimeout      time.Duration
	DownloadTimeout   time.Duration
	TranscribeTimeout time.Duration
	MinContentChars   int // below this, extracted content is not meaningful
	MaxContentChars   int
	FetchRate         float64 // outbound requests per second on the plain fetch path
	FetchBurst        int

	WorkDir  string // transient download artifacts
	MediaDir string // persistent tweet videos

	YtDlpBin       string
	FfmpegBin      string
	WhisperBin     string
	WhisperModel   string
	WhisperThreads int

	TwitterAPIBase string

	CacheMaxEntries      int
	CacheCleanupInterval time.Duration

	HTTPClient    *http.Client
	BrowserClient *BrowserClient // nil = browser-fingerprint fetch disabled
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages (scrape, media, twitter, transcribe).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	if c.MinContentChars <= 0 {
		c.MinContentChars = 100
	}
	if c.MaxContentChars <= 0 {
		c.MaxContentChars = 100000
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 15 * time.Second
	}
	cfg = c
	Cfg = &cfg
	initFetchLimiter()
}
