// Package media downloads audio and video through yt-dlp and guarantees
// cleanup of the transient artifacts those downloads leave behind.
package media

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/sagarshah-16/fetch-transcribe/internal/engine"
)

// Downloader shells out to yt-dlp. The zero value reads binary paths and
// directories from the engine config.
type Downloader struct{}

func ytDlpBin() string {
	if engine.Cfg.YtDlpBin != "" {
		return engine.Cfg.YtDlpBin
	}
	return "yt-dlp"
}

func downloadTimeout() time.Duration {
	if engine.Cfg.DownloadTimeout > 0 {
		return engine.Cfg.DownloadTimeout
	}
	return 5 * time.Minute
}

// Audio downloads the best audio stream of url and converts it to mp3.
// The artifact lands in WorkDir under a unique video_<uuid> base name; the
// caller owns it and must Cleanup it when done. On failure any partial
// artifact is already cleaned up.
func (Downloader) Audio(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, downloadTimeout())
	defer cancel()

	base := filepath.Join(workDir(), "video_"+uuid.NewString())
	audioPath := base + ".mp3"

	slog.Info("downloading audio", slog.String("url", url))
	cmd := exec.CommandContext(ctx, ytDlpBin(),
		"-f", "bestaudio/best",
		"--ignore-config",
		"--no-progress",
		"--no-playlist",
		"--extract-audio",
		"--audio-format", "mp3",
		"--audio-quality", "192K",
		"-o", base+".%(ext)s",
		"--", url,
	)
	if _, err := RunCommand(cmd); err != nil {
		engine.IncrDownloadErrors()
		Cleanup(audioPath)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("download audio %s: %w", url, ctxErr)
		}
		return "", fmt.Errorf("download audio %s: %w", url, err)
	}

	if _, err := os.Stat(audioPath); err != nil {
		engine.IncrDownloadErrors()
		Cleanup(audioPath)
		return "", fmt.Errorf("download audio %s: yt-dlp produced no mp3: %w", url, err)
	}

	engine.IncrDownloads()
	return audioPath, nil
}

// Video downloads the best mp4 rendition of url into dir (created on demand).
// Unlike audio artifacts these files persist: the returned path is handed to
// the caller as payload.
func (Downloader) Video(ctx context.Context, url, dir string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, downloadTimeout())
	defer cancel()

	if dir == "" {
		dir = "videos"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir %s: %w", dir, err)
	}

	outPath := filepath.Join(dir, "tweet_video_"+uuid.NewString()+".mp4")

	slog.Info("downloading video", slog.String("url", url), slog.String("path", outPath))
	cmd := exec.CommandContext(ctx, ytDlpBin(),
		"-f", "bestvideo+bestaudio/best",
		"--merge-output-format", "mp4",
		"--ignore-config",
		"--no-progress",
		"-o", outPath,
		"--", url,
	)
	if _, err := RunCommand(cmd); err != nil {
		engine.IncrDownloadErrors()
		Cleanup(outPath)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("download video %s: %w", url, ctxErr)
		}
		return "", fmt.Errorf("download video %s: %w", url, err)
	}

	if _, err := os.Stat(outPath); err != nil {
		engine.IncrDownloadErrors()
		return "", fmt.Errorf("download video %s: yt-dlp produced no file: %w", url, err)
	}

	engine.IncrDownloads()
	return outPath, nil
}

func workDir() string {
	if engine.Cfg.WorkDir != "" {
		return engine.Cfg.WorkDir
	}
	return "."
}
