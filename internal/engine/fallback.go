package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrThinContent marks a backend result that arrived without error but carried
// less content than the configured minimum. It shows up as the primary cause
// inside AllFailedError when the fallback also fails.
var ErrThinContent = errors.New("content below minimum length")

// AllFailedError reports that both extraction backends failed for a URL.
// Both underlying causes stay inspectable via errors.Is/As.
type AllFailedError struct {
	Primary   error
	Secondary error
}

func (e *AllFailedError) Error() string {
	return fmt.Sprintf("all backends failed: primary: %v; fallback: %v", e.Primary, e.Secondary)
}

func (e *AllFailedError) Unwrap() []error {
	return []error{e.Primary, e.Secondary}
}

// Fallback runs primary and, only when its result is unusable, secondary.
// A result is unusable when primary returned an error or when meaningful
// reports false (a present-but-thin result is recorded as ErrThinContent).
// The secondary's result is returned as-is, even if it is also thin; if the
// secondary errors too, both causes are returned in *AllFailedError.
// The secondary never runs when the primary result is good enough, and never
// runs after ctx is done.
func Fallback[T any](ctx context.Context, name string, meaningful func(T) bool, primary, secondary func(context.Context) (T, error)) (T, error) {
	var zero T

	v, perr := primary(ctx)
	if perr == nil && meaningful(v) {
		return v, nil
	}
	if perr == nil {
		perr = ErrThinContent
	}

	if err := ctx.Err(); err != nil {
		return zero, err
	}

	metrics.FallbackRuns.Add(1)
	slog.Debug("primary backend unusable, trying fallback",
		slog.String("op", name),
		slog.Any("error", perr),
	)

	sv, serr := secondary(ctx)
	if serr != nil {
		return zero, &AllFailedError{Primary: perr, Secondary: serr}
	}
	return sv, nil
}

// MeaningfulText reports whether s carries at least min characters after
// trimming. min <= 0 falls back to the configured engine minimum. An empty
// string is never meaningful.
func MeaningfulText(min int) func(string) bool {
	return func(s string) bool {
		limit := min
		if limit <= 0 {
			limit = cfg.MinContentChars
		}
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			return false
		}
		return len(trimmed) >= limit
	}
}
