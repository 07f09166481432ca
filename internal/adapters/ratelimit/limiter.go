package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/jbctechsolutions/doc2code/internal/application/ports"
	"github.com/jbctechsolutions/doc2code/internal/domain/errors"
)

// Limiter is a fixed window limiter over a memory or Redis store.
type Limiter struct {
	limiter *limiter.Limiter
}

// New builds the limiter selected by cfg.Mode. ModeRedis requires client.
func New(cfg Config, client *redis.Client) (ports.RateLimiterPort, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.NewError(errors.CodeConfiguration, "invalid rate limit config", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	opts := limiter.StoreOptions{
		Prefix:          prefix,
		CleanUpInterval: time.Minute,
		MaxRetry:        3,
	}

	var store limiter.Store
	switch cfg.Mode {
	case ModeDisabled:
		return Disabled{}, nil
	case ModeMemory:
		store = memory.NewStoreWithOptions(opts)
	case ModeRedis:
		if client == nil {
			return nil, errors.NewError(errors.CodeConfiguration, "redis rate limiting requires a redis client", nil)
		}
		var err error
		store, err = sredis.NewStoreWithOptions(client, opts)
		if err != nil {
			return nil, errors.NewError(errors.CodeConfiguration, "failed to create redis rate limit store", err)
		}
	}

	return &Limiter{limiter: limiter.New(store, cfg.ToLimiterRate())}, nil
}

// Allow consumes one request from key's budget.
func (l *Limiter) Allow(ctx context.Context, key string) (ports.RateLimitResult, error) {
	lctx, err := l.limiter.Get(ctx, key)
	if err != nil {
		return ports.RateLimitResult{}, fmt.Errorf("rate limit store: %w", err)
	}
	return ports.RateLimitResult{
		Limit:     lctx.Limit,
		Remaining: lctx.Remaining,
		Reset:     lctx.Reset,
		Reached:   lctx.Reached,
	}, nil
}

// Disabled admits every request.
type Disabled struct{}

// Allow always admits the request.
func (Disabled) Allow(context.Context, string) (ports.RateLimitResult, error) {
	return ports.RateLimitResult{}, nil
}

var (
	_ ports.RateLimiterPort = (*Limiter)(nil)
	_ ports.RateLimiterPort = Disabled{}
)
