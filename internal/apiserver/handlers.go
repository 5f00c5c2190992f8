package apiserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/sagarshah-16/fetch-transcribe/internal/engine"
	"github.com/sagarshah-16/fetch-transcribe/internal/engine/media"
	"github.com/sagarshah-16/fetch-transcribe/internal/engine/transcribe"
	"github.com/sagarshah-16/fetch-transcribe/internal/engine/twitter"
	"github.com/sagarshah-16/fetch-transcribe/internal/telemetry"
	"github.com/sagarshah-16/fetch-transcribe/internal/tokenpool"
)

// TranscribeResponse is the /transcribe payload.
type TranscribeResponse struct {
	Transcription string               `json:"transcription"`
	Segments      []transcribe.Segment `json:"segments,omitempty"`
	Language      string               `json:"language,omitempty"`
}

// TweetResponse is the /scrape_tweet payload.
type TweetResponse struct {
	Tweets []string `json:"tweets"`
	Videos []string `json:"videos"`
}

// ScrapeResponse is the /scrape payload.
type ScrapeResponse struct {
	CleanedContent string `json:"cleaned_content"`
}

func (s *Server) handleTranscribe(c *fiber.Ctx) error {
	engine.IncrTranscribeRequests()

	pageURL, err := ExtractURL(c.Body())
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	ctx := c.Context()

	cacheKey := engine.CacheKey("transcribe", pageURL)
	if cached, ok := engine.CacheLoadJSON[TranscribeResponse](ctx, cacheKey); ok {
		return c.JSON(cached)
	}

	audioPath, err := s.cfg.Downloader.Audio(ctx, pageURL)
	if err != nil {
		engine.IncrTranscribeErrors()
		return serverError("Download error", pageURL, err)
	}
	// The audio artifact is transient: gone on every exit path from here on,
	// whether transcription succeeds, fails or the client hangs up.
	defer media.Cleanup(audioPath)

	res, err := s.cfg.Transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		engine.IncrTranscribeErrors()
		return serverError("Transcription error", pageURL, err)
	}

	resp := TranscribeResponse{
		Transcription: res.Text,
		Segments:      res.Segments,
		Language:      res.Language,
	}
	engine.CacheStoreJSON(ctx, cacheKey, resp)
	return c.JSON(resp)
}

func (s *Server) handleScrapeTweet(c *fiber.Ctx) error {
	engine.IncrTweetRequests()

	pageURL, err := ExtractURL(c.Body())
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	tweetID, err := twitter.ParseStatusID(pageURL)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid tweet URL")
	}

	if s.cfg.Pool == nil || s.cfg.Tweets == nil {
		engine.IncrTweetErrors()
		return fiber.NewError(fiber.StatusInternalServerError, "Twitter API error: no bearer tokens configured")
	}
	ctx := c.Context()

	tweet, err := tokenpool.Do(ctx, s.cfg.Pool, twitter.IsRateLimited,
		func(ctx context.Context, token string) (*twitter.Tweet, error) {
			return s.cfg.Tweets.Lookup(ctx, tweetID, token)
		})
	if err != nil {
		engine.IncrTweetErrors()
		var le *twitter.LookupError
		switch {
		case errors.Is(err, tokenpool.ErrExhausted):
			return fiber.NewError(fiber.StatusTooManyRequests, "All tokens have hit rate limits. Please try again later.")
		case errors.As(err, &le):
			return fiber.NewError(fiber.StatusBadRequest, le.Error())
		default:
			return serverError("Twitter API error", pageURL, err)
		}
	}

	resp := TweetResponse{Tweets: []string{}, Videos: []string{}}
	if tweet.Text != "" {
		resp.Tweets = append(resp.Tweets, tweet.Text)
	}

	for _, m := range tweet.Media {
		if !m.IsVideo() {
			continue
		}
		variant, ok := twitter.BestVariant(m.Variants)
		if !ok {
			continue
		}
		path, err := s.cfg.Downloader.Video(ctx, variant.URL, s.cfg.MediaDir)
		if err != nil {
			engine.IncrTweetErrors()
			return serverError("Video download error", pageURL, err)
		}
		resp.Videos = append(resp.Videos, path)
	}

	return c.JSON(resp)
}

func (s *Server) handleScrape(c *fiber.Ctx) error {
	engine.IncrScrapeRequests()

	pageURL, err := ExtractURL(c.Body())
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	ctx := c.Context()

	cacheKey := engine.CacheKey("scrape", pageURL)
	if cached, ok := engine.CacheLoadJSON[ScrapeResponse](ctx, cacheKey); ok {
		return c.JSON(cached)
	}

	content, err := s.cfg.Scrape(ctx, pageURL)
	if err != nil {
		engine.IncrScrapeErrors()
		return serverError("Error scraping website", pageURL, err)
	}

	resp := ScrapeResponse{CleanedContent: content}
	engine.CacheStoreJSON(ctx, cacheKey, resp)
	return c.JSON(resp)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy"})
}

func (s *Server) handleMetrics(c *fiber.Ctx) error {
	return c.SendString(engine.FormatMetrics())
}

// serverError reports a backend failure: telemetry first, then a 500 whose
// detail calls out timeouts separately from hard errors.
func serverError(prefix, pageURL string, err error) error {
	telemetry.CaptureError(err, map[string]string{"url": pageURL})
	if errors.Is(err, context.DeadlineExceeded) {
		return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("%s: backend timed out: %v", prefix, err))
	}
	return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("%s: %v", prefix, err))
}
