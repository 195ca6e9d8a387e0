package llm

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitedProvider spaces calls to a provider so a public terminal
// cannot exhaust the vendor quota.
type RateLimitedProvider struct {
	provider Provider
	limiter  *rate.Limiter
}

// NewRateLimitedProvider allows rpm calls per minute with bursts of up to
// rpm. rpm <= 0 returns provider unwrapped.
func NewRateLimitedProvider(provider Provider, rpm int) Provider {
	if rpm <= 0 {
		return provider
	}
	return &RateLimitedProvider{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), rpm),
	}
}

func (r *RateLimitedProvider) Name() string { return r.provider.Name() }

// Complete waits for a slot. When ctx would expire first it fails at once
// with a 429 APIError.
func (r *RateLimitedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &APIError{Provider: r.provider.Name(), StatusCode: http.StatusTooManyRequests, Message: "too many requests, try again shortly"}
	}
	return r.provider.Complete(ctx, req)
}
