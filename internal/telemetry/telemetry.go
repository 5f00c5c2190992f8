// Package telemetry reports errors to Sentry. Everything degrades to a no-op
// when no DSN is configured, and nothing here ever blocks or fails a request:
// events go out on sentry's buffered async transport and are flushed on Close.
package telemetry

import (
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
)

// Config carries the Sentry connection settings.
type Config struct {
	DSN         string
	Environment string
	Release     string
}

var enabled bool

// Init configures the global Sentry client. An empty DSN disables reporting.
func Init(c Config) {
	if c.DSN == "" {
		slog.Info("telemetry: no DSN configured, error reporting disabled")
		return
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              c.DSN,
		Environment:      c.Environment,
		Release:          c.Release,
		AttachStacktrace: true,
	})
	if err != nil {
		slog.Warn("telemetry: sentry init failed, error reporting disabled", slog.Any("error", err))
		return
	}

	enabled = true
	slog.Info("telemetry: sentry initialized",
		slog.String("environment", c.Environment),
		slog.String("release", c.Release),
	)
}

// CaptureError reports err with optional tags (step, url, ...).
func CaptureError(err error, tags map[string]string) {
	if !enabled || err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}

// CaptureMessage reports a plain message event.
func CaptureMessage(msg string) {
	if !enabled {
		return
	}
	sentry.CaptureMessage(msg)
}

// Close flushes buffered events. Call on shutdown.
func Close() {
	if !enabled {
		return
	}
	sentry.Flush(2 * time.Second)
}
