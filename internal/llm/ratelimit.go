package llm

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitedGateway wraps a Gateway with a token-bucket rate limiter so a
// batch run cannot flood the model backend. Waiting respects the caller's
// context.
type RateLimitedGateway struct {
	inner   Gateway
	limiter *rate.Limiter
}

// NewRateLimited wraps gw with the given sustained rate and burst.
func NewRateLimited(gw Gateway, requestsPerSecond float64, burst int) *RateLimitedGateway {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimitedGateway{
		inner:   gw,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Name returns the wrapped provider name.
func (g *RateLimitedGateway) Name() string {
	return g.inner.Name()
}

// Invoke waits for rate limit clearance, then delegates.
func (g *RateLimitedGateway) Invoke(ctx context.Context, prompt string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return g.inner.Invoke(ctx, prompt)
}

// IsAvailable delegates to the wrapped gateway.
func (g *RateLimitedGateway) IsAvailable(ctx context.Context) bool {
	return g.inner.IsAvailable(ctx)
}
