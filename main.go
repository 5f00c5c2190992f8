// fetch-transcribe is an HTTP service for pulling content out of URLs.
//
// Three POST operations: /transcribe downloads a video's audio and runs it
// through Whisper, /scrape_tweet looks up a tweet with its video attachments,
// /scrape extracts readable article text with a readability-then-plain
// fallback chain. Plus /health and /metrics.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/anatolykoptev/go-kit/env"

	"github.com/sagarshah-16/fetch-transcribe/internal/apiserver"
	"github.com/sagarshah-16/fetch-transcribe/internal/engine"
	"github.com/sagarshah-16/fetch-transcribe/internal/engine/media"
	"github.com/sagarshah-16/fetch-transcribe/internal/engine/scrape"
	"github.com/sagarshah-16/fetch-transcribe/internal/engine/transcribe"
	"github.com/sagarshah-16/fetch-transcribe/internal/engine/twitter"
	"github.com/sagarshah-16/fetch-transcribe/internal/telemetry"
	"github.com/sagarshah-16/fetch-transcribe/internal/tokenpool"
)

var (
	version = "dev"
	apiPort = env.Str("API_PORT", "9000")
)

func main() {
	telemetry.Init(telemetry.Config{
		DSN:         env.Str("SENTRY_DSN", ""),
		Environment: env.Str("ENVIRONMENT", "development"),
		Release:     env.Str("RELEASE", version),
	})
	defer telemetry.Close()

	mediaDir := initEngine()

	slog.Info("starting fetch-transcribe",
		slog.String("port", apiPort),
		slog.String("version", version),
	)

	app := apiserver.New(apiserver.Config{
		Version:     version,
		Pool:        initTokenPool(),
		Tweets:      twitter.NewClient(env.Str("TWITTER_API_BASE", ""), nil),
		Downloader:  media.Downloader{},
		Transcriber: initTranscriber(),
		Scrape:      scrape.Content,
		MediaDir:    mediaDir,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(":" + apiPort)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("server failed", slog.Any("error", err))
		}
	case <-ctx.Done():
		slog.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			slog.Error("shutdown failed", slog.Any("error", err))
		}
	}
}

func initEngine() string {
	mediaDir := env.Str("MEDIA_DIR", "videos")

	c := engine.Config{
		FetchTimeout:         env.Duration("FETCH_TIMEOUT", 15*time.Second),
		DownloadTimeout:      env.Duration("DOWNLOAD_TIMEOUT", 5*time.Minute),
		TranscribeTimeout:    env.Duration("TRANSCRIBE_TIMEOUT", 10*time.Minute),
		MinContentChars:      env.Int("MIN_CONTENT_CHARS", 100),
		MaxContentChars:      env.Int("MAX_CONTENT_CHARS", 100000),
		FetchRate:            env.Float("FETCH_RATE", 5),
		FetchBurst:           env.Int("FETCH_BURST", 10),
		WorkDir:              env.Str("WORK_DIR", "."),
		MediaDir:             mediaDir,
		YtDlpBin:             env.Str("YTDLP_BIN", "yt-dlp"),
		FfmpegBin:            env.Str("FFMPEG_BIN", "ffmpeg"),
		WhisperBin:           env.Str("WHISPER_BIN", ""),
		WhisperModel:         env.Str("WHISPER_MODEL", ""),
		WhisperThreads:       env.Int("WHISPER_THREADS", 4),
		TwitterAPIBase:       env.Str("TWITTER_API_BASE", ""),
		CacheMaxEntries:      env.Int("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval: env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}

	bc, err := engine.NewBrowserClient(int(c.FetchTimeout / time.Second))
	if err != nil {
		slog.Warn("browser client init failed, readability fetch disabled", slog.Any("error", err))
	} else {
		c.BrowserClient = bc
		slog.Info("browser client initialized")
	}

	engine.Init(c)

	cacheTTL := env.Duration("CACHE_TTL", 15*time.Minute)
	engine.InitCache(env.Str("REDIS_URL", ""), cacheTTL, c.CacheMaxEntries, c.CacheCleanupInterval)

	return mediaDir
}

// initTokenPool collects bearer tokens from TWITTER_BEARER_TOKENS plus the
// legacy numbered variables. A nil pool is allowed: tweet scraping answers
// 500 until tokens are configured, the other operations are unaffected.
func initTokenPool() *tokenpool.Pool {
	tokens := env.List("TWITTER_BEARER_TOKENS", "")
	for _, name := range []string{"TWITTER_BEARER_TOKEN_1", "TWITTER_BEARER_TOKEN_2"} {
		if t := env.Str(name, ""); t != "" {
			tokens = append(tokens, t)
		}
	}

	pool, err := tokenpool.New(tokens)
	if err != nil {
		if errors.Is(err, tokenpool.ErrNoTokens) {
			slog.Warn("no twitter bearer tokens configured, tweet scraping disabled")
		} else {
			slog.Warn("token pool init failed", slog.Any("error", err))
		}
		return nil
	}

	slog.Info("token pool ready", slog.Int("size", pool.Size()))
	return pool
}

func initTranscriber() transcribe.Transcriber {
	provider := env.Str("TRANSCRIBE_PROVIDER", "whispercpp")
	t, err := transcribe.New(provider, env.Str("OPENAI_API_KEY", ""))
	if err != nil {
		slog.Error("transcriber init failed, falling back to whispercpp", slog.Any("error", err))
		t, _ = transcribe.New("whispercpp", "")
	}
	slog.Info("transcriber ready", slog.String("provider", t.Name()))
	return t
}
