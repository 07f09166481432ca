package ports

import "context"

// RateLimitResult is the outcome of consuming one request from a client's budget.
type RateLimitResult struct {
	Limit     int64
	Remaining int64
	Reset     int64 // unix seconds when the window resets
	Reached   bool
}

// RateLimiterPort gates requests per client key.
type RateLimiterPort interface {
	Allow(ctx context.Context, key string) (RateLimitResult, error)
}
