package media

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sagarshah-16/fetch-transcribe/internal/engine"
	"github.com/sagarshah-16/fetch-transcribe/internal/telemetry"
)

// companionExts are the container formats yt-dlp may leave next to an
// artifact when a conversion was interrupted partway.
var companionExts = []string{"webm", "mp4", "mkv", "mov", "avi", "m4a"}

// Cleanup removes the artifact at path plus any companion files sharing its
// base name under the known alternate extensions. Best-effort on every file:
// failures are logged, counted and telemetered, never returned, so the
// caller's own outcome never depends on cleanup. Intended to run via defer
// so it covers success, error and cancellation paths alike.
func Cleanup(path string) {
	if path == "" {
		return
	}

	Remove(path)

	base := strings.TrimSuffix(path, filepath.Ext(path))
	for _, ext := range companionExts {
		companion := base + "." + ext
		if companion == path {
			continue
		}
		if _, err := os.Stat(companion); err == nil {
			Remove(companion)
		}
	}
}

// Remove deletes a single file best-effort. A file that is already gone is
// fine; anything else is recorded but swallowed.
func Remove(path string) {
	err := os.Remove(path)
	switch {
	case err == nil:
		slog.Debug("cleanup: deleted artifact", slog.String("path", path))
	case os.IsNotExist(err):
		slog.Debug("cleanup: artifact already gone", slog.String("path", path))
	default:
		engine.IncrCleanupFailures()
		slog.Warn("cleanup: could not delete artifact", slog.String("path", path), slog.Any("error", err))
		telemetry.CaptureError(fmt.Errorf("cleanup %s: %w", path, err), map[string]string{"step": "cleanup"})
	}
}
