// Package httpx provides the retry/backoff and suspension helpers shared
// by the embedding and naming provider clients.
package httpx

import (
	"context"
	"errors"
	"math"
	"net"
	"time"
)

// RetryPolicy bounds the exponential backoff applied to rate-limited and
// transient-network provider calls: retryDelayMs · 2^attempt, up to
// maxRetries attempts.
type RetryPolicy struct {
	MaxRetries   int
	RetryDelayMs int
}

// Backoff returns the delay before the given zero-based attempt.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	delay := float64(p.RetryDelayMs) * math.Pow(2, float64(attempt))
	return time.Duration(delay) * time.Millisecond
}

// Sleep suspends until the backoff for attempt elapses or ctx is
// cancelled, whichever comes first.
func (p RetryPolicy) Sleep(ctx context.Context, attempt int) error {
	t := time.NewTimer(p.Backoff(attempt))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// IsTransientNetwork reports whether err looks like a connection-level
// failure (refused, timed out, reset) rather than an application error —
// the "transient network" retry condition from the provider contracts.
func IsTransientNetwork(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
