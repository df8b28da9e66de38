package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sociable-dev/sociable/pkg/apperror"
)

// RateLimitError carries the cooldown remaining for the caller
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return e.Message
}

func (e *RateLimitError) Unwrap() error {
	return apperror.ErrRateLimitExceeded
}

func CheckAndSetRateLimit(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string, limit time.Duration) (bool, error) {
	if rdb == nil {
		return true, nil
	}

	key := fmt.Sprintf("rate_limit:user:%s:%s", userID.String(), action)

	wasSet, err := rdb.SetNX(ctx, key, "locked", limit).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

func GetRateLimitTTL(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string) (time.Duration, error) {
	if rdb == nil {
		return 0, nil
	}
	key := fmt.Sprintf("rate_limit:user:%s:%s", userID.String(), action)
	return rdb.TTL(ctx, key).Result()
}

func ClearRateLimit(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string) error {
	if rdb == nil {
		return nil
	}
	key := fmt.Sprintf("rate_limit:user:%s:%s", userID.String(), action)
	_, err := rdb.Del(ctx, key).Result()
	return err
}

// CooldownLimiter applies a fixed per-user cooldown to an action. A zero
// limit or a nil client disables it.
type CooldownLimiter struct {
	rdb   *redis.Client
	limit time.Duration
}

func NewCooldownLimiter(rdb *redis.Client, limit time.Duration) *CooldownLimiter {
	return &CooldownLimiter{rdb: rdb, limit: limit}
}

func (l *CooldownLimiter) Acquire(ctx context.Context, userID uuid.UUID, action string) (bool, error) {
	if l.limit <= 0 {
		return true, nil
	}
	return CheckAndSetRateLimit(ctx, l.rdb, userID, action, l.limit)
}

func (l *CooldownLimiter) TTL(ctx context.Context, userID uuid.UUID, action string) (time.Duration, error) {
	return GetRateLimitTTL(ctx, l.rdb, userID, action)
}

func (l *CooldownLimiter) Release(ctx context.Context, userID uuid.UUID, action string) error {
	return ClearRateLimit(ctx, l.rdb, userID, action)
}
