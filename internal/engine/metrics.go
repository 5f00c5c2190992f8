package engine

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	TranscribeRequests atomic.Int64
	TranscribeErrors   atomic.Int64
	TweetRequests      atomic.Int64
	TweetErrors        atomic.Int64
	ScrapeRequests     atomic.Int64
	ScrapeErrors       atomic.Int64
	FallbackRuns       atomic.Int64
	Downloads          atomic.Int64
	DownloadErrors     atomic.Int64
	TokenRotations     atomic.Int64
	CleanupFailures    atomic.Int64
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"transcribe_requests": metrics.TranscribeRequests.Load(),
		"transcribe_errors":   metrics.TranscribeErrors.Load(),
		"tweet_requests":      metrics.TweetRequests.Load(),
		"tweet_errors":        metrics.TweetErrors.Load(),
		"scrape_requests":     metrics.ScrapeRequests.Load(),
		"scrape_errors":       metrics.ScrapeErrors.Load(),
		"fallback_runs":       metrics.FallbackRuns.Load(),
		"downloads":           metrics.Downloads.Load(),
		"download_errors":     metrics.DownloadErrors.Load(),
		"token_rotations":     metrics.TokenRotations.Load(),
		"cleanup_failures":    metrics.CleanupFailures.Load(),
		"cache_hits":          hits,
		"cache_misses":        misses,
	}
}

// FormatMetrics returns metrics as a simple text format for the HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"transcribe_requests", "transcribe_errors",
		"tweet_requests", "tweet_errors",
		"scrape_requests", "scrape_errors",
		"fallback_runs",
		"downloads", "download_errors",
		"token_rotations", "cleanup_failures",
		"cache_hits", "cache_misses",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for handler and sub-package use.
func IncrTranscribeRequests() { metrics.TranscribeRequests.Add(1) }
func IncrTranscribeErrors()   { metrics.TranscribeErrors.Add(1) }
func IncrTweetRequests()      { metrics.TweetRequests.Add(1) }
func IncrTweetErrors()        { metrics.TweetErrors.Add(1) }
func IncrScrapeRequests()     { metrics.ScrapeRequests.Add(1) }
func IncrScrapeErrors()       { metrics.ScrapeErrors.Add(1) }
func IncrDownloads()          { metrics.Downloads.Add(1) }
func IncrDownloadErrors()     { metrics.DownloadErrors.Add(1) }
func IncrTokenRotations()     { metrics.TokenRotations.Add(1) }
func IncrCleanupFailures()    { metrics.CleanupFailures.Add(1) }
