// Package tokenpool rotates a fixed set of API credentials round-robin.
//
// The pool is built once at startup and injected into whatever calls a
// credential-guarded backend. One bounded operation gets at most pool-size
// attempts: rate-limited credentials rotate to the next one, any other error
// stops the loop immediately. The cursor is the only state. There are no
// cooldown timers, so a credential that was limited becomes eligible again on
// the very next rotation.
package tokenpool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/sagarshah-16/fetch-transcribe/internal/engine"
)

// ErrNoTokens is returned by New when no usable credentials are supplied.
var ErrNoTokens = errors.New("no credentials configured")

// ErrExhausted is returned when every credential in the pool reported
// rate-limiting within a single bounded operation.
var ErrExhausted = errors.New("all credentials rate limited")

// Pool is an immutable, ordered credential set with an atomic rotation cursor.
// Safe for concurrent use; two in-flight requests never observe overlapping
// rotation sequences.
type Pool struct {
	tokens []string
	cursor atomic.Uint64
}

// New builds a pool from tokens, dropping empty and whitespace-only entries
// while preserving order.
func New(tokens []string) (*Pool, error) {
	clean := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t = strings.TrimSpace(t); t != "" {
			clean = append(clean, t)
		}
	}
	if len(clean) == 0 {
		return nil, ErrNoTokens
	}
	return &Pool{tokens: clean}, nil
}

// Size returns the number of credentials in the pool.
func (p *Pool) Size() int {
	return len(p.tokens)
}

// Next returns the credential at the cursor and advances it, wrapping modulo
// pool size.
func (p *Pool) Next() string {
	i := p.cursor.Add(1) - 1
	return p.tokens[i%uint64(len(p.tokens))]
}

// Do runs fn with successive credentials until it succeeds, fails with a
// non-rate-limit error, or every credential in the pool was tried once.
// limited classifies which errors mean "this credential is throttled"; only
// those trigger rotation. When the whole pool is throttled the returned error
// wraps both ErrExhausted and the last underlying error.
func Do[T any](ctx context.Context, p *Pool, limited func(error) bool, fn func(ctx context.Context, token string) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt < p.Size(); attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		token := p.Next()
		v, err := fn(ctx, token)
		if err == nil {
			return v, nil
		}
		if !limited(err) {
			return zero, err
		}

		lastErr = err
		engine.IncrTokenRotations()
		slog.Debug("credential rate limited, rotating",
			slog.Int("attempt", attempt+1),
			slog.Int("pool_size", p.Size()),
		)
	}

	return zero, fmt.Errorf("%w (%d attempts): %w", ErrExhausted, p.Size(), lastErr)
}
