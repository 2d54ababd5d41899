package cache

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mealforge/v1/internal/infrastructure/config"
	"github.com/mealforge/v1/internal/ports/outbound"
)

// RateLimiter implements outbound.RateLimiter with a per-user Redis counter:
// INCR, then EXPIRE only when the increment opened a fresh window. INCR is
// atomic, so concurrent sessions for one user cannot both observe a count
// under the cap and race past it.
type RateLimiter struct {
	client *Client
	cfg    *config.RateLimitConfig
	logger *zap.Logger
}

// NewRateLimiter creates the rate limiter.
func NewRateLimiter(client *Client, cfg *config.RateLimitConfig, logger *zap.Logger) outbound.RateLimiter {
	return &RateLimiter{client: client, cfg: cfg, logger: logger.Named("rate-limiter")}
}

// CheckAndIncrement consumes one call from the user's window. Disabled
// limiting and an unreachable Redis both fail open.
func (r *RateLimiter) CheckAndIncrement(ctx context.Context, userID uuid.UUID) (bool, int64) {
	if !r.cfg.Enable || r.client.rdb == nil {
		return true, 0
	}

	key := keyPrefix + ":ratelimit:" + userID.String()
	count, err := r.client.rdb.Incr(ctx, key).Result()
	if err != nil {
		r.logger.Warn("Rate limit counter unavailable, failing open", zap.Error(err))
		return true, 0
	}
	if count == 1 {
		if err := r.client.rdb.Expire(ctx, key, r.cfg.Window).Err(); err != nil {
			r.logger.Warn("Rate limit window expiry not set", zap.Error(err))
		}
	}

	allowed := count <= int64(r.cfg.CallsPerHour)
	if !allowed {
		r.logger.Info("Rate limit exceeded",
			zap.String("user_id", userID.String()),
			zap.Int64("count", count),
		)
	}
	return allowed, count
}
