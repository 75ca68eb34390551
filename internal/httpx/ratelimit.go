package httpx

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Spacer enforces a minimum delay between successive suspension points
// (the embedding inter-batch delay, the naming inter-request delay) using
// a token-bucket limiter rather than a bare time.Sleep, so waiting is
// context-cancellable per the cooperative-cancellation requirement.
type Spacer struct {
	limiter *rate.Limiter
}

// NewSpacer builds a Spacer that allows one event at most every interval.
func NewSpacer(interval time.Duration) *Spacer {
	if interval <= 0 {
		return &Spacer{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Spacer{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait suspends the caller until the next event is permitted or ctx is
// cancelled.
func (s *Spacer) Wait(ctx context.Context) error {
	return s.limiter.Wait(ctx)
}
