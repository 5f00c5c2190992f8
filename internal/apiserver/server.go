// Package apiserver is the HTTP surface: a Fiber app exposing the
// transcribe, tweet-scrape and website-scrape operations plus health and
// metrics. Collaborators come in through Config so handlers stay testable.
package apiserver

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/sagarshah-16/fetch-transcribe/internal/engine/transcribe"
	"github.com/sagarshah-16/fetch-transcribe/internal/engine/twitter"
	"github.com/sagarshah-16/fetch-transcribe/internal/tokenpool"
)

// TweetFetcher looks up one tweet with a caller-supplied bearer token.
type TweetFetcher interface {
	Lookup(ctx context.Context, id, bearer string) (*twitter.Tweet, error)
}

// MediaDownloader fetches remote audio/video to local files.
type MediaDownloader interface {
	Audio(ctx context.Context, url string) (string, error)
	Video(ctx context.Context, url, dir string) (string, error)
}

// ScrapeFunc extracts cleaned content for a URL.
type ScrapeFunc func(ctx context.Context, url string) (string, error)

// Config wires the server's collaborators.
type Config struct {
	Version     string
	Pool        *tokenpool.Pool // nil = tweet scraping unconfigured
	Tweets      TweetFetcher
	Downloader  MediaDownloader
	Transcriber transcribe.Transcriber
	Scrape      ScrapeFunc
	MediaDir    string // persistent tweet video directory
}

// Server holds handler state.
type Server struct {
	cfg Config
}

// New builds the Fiber app with all routes and middleware registered.
func New(cfg Config) *fiber.App {
	s := &Server{cfg: cfg}

	app := fiber.New(fiber.Config{
		AppName:               "fetch-transcribe " + cfg.Version,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	// Allow-all CORS: this fronts browser consumers on arbitrary origins.
	app.Use(cors.New())
	app.Use(requestLogger())

	app.Post("/transcribe", s.handleTranscribe)
	app.Post("/scrape_tweet", s.handleScrapeTweet)
	app.Post("/scrape", s.handleScrape)
	app.Get("/health", s.handleHealth)
	app.Get("/metrics", s.handleMetrics)

	return app
}

// errorHandler renders every error as {"detail": msg}, the body shape the
// service has always produced.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"detail": err.Error()})
}

// requestLogger emits one slog line per request.
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		slog.Info("request",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Duration("elapsed", time.Since(start)),
		)
		return err
	}
}
