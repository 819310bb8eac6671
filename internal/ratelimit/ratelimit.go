package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter paces outbound requests to a remote API.
type Limiter interface {
	Wait(ctx context.Context) error
}

// ClientLimiter is a token-bucket limiter for a single API client.
type ClientLimiter struct {
	l *rate.Limiter
}

// NewClientLimiter creates a limiter that allows `requests` calls per `per`
// with the given burst size.
// Example: NewClientLimiter(3, time.Second, 3) -> 3 requests per second.
func NewClientLimiter(requests int, per time.Duration, burst int) *ClientLimiter {
	return &ClientLimiter{
		l: rate.NewLimiter(rate.Every(per/time.Duration(requests)), burst),
	}
}

var _ Limiter = (*ClientLimiter)(nil)

// Wait blocks until the next request is allowed or the context is cancelled.
func (c *ClientLimiter) Wait(ctx context.Context) error {
	return c.l.Wait(ctx)
}
