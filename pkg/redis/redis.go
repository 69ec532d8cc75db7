package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/michalwarchol/slash-api/config"
)

// Client wraps the Redis connection. It backs the JWT blacklist used at
// logout, a short-lived cache of per-course like counts and the request
// rate limiter.
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient connects to Redis and pings it.
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── token blacklist ──

const blacklistPrefix = "token:blacklist:"

// BlacklistToken stores a JWT ID until the token would have expired anyway.
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // already expired
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted reports whether a JWT ID has been revoked.
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── rate limiting ──

// CheckRateLimit counts a hit against the key's fixed window and reports
// whether the request is still within the limit.
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	pipe := c.rdb.TxPipeline()
	count := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return count.Val() <= int64(limit), nil
}

// ── course popularity cache ──

const popularityPrefix = "course:likes:"
const popularityTTL = time.Minute

// GetPopularity returns the cached like count for a course, or ok=false on miss.
func (c *Client) GetPopularity(ctx context.Context, courseID string) (int64, bool) {
	val, err := c.rdb.Get(ctx, popularityPrefix+courseID).Result()
	if err != nil {
		return 0, false
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SetPopularity caches the like count for a course.
func (c *Client) SetPopularity(ctx context.Context, courseID string, count int64) {
	if err := c.rdb.Set(ctx, popularityPrefix+courseID, strconv.FormatInt(count, 10), popularityTTL).Err(); err != nil {
		c.logger.Warn("cache popularity failed", zap.String("course_id", courseID), zap.Error(err))
	}
}

// InvalidatePopularity drops the cached like count after a like toggle.
func (c *Client) InvalidatePopularity(ctx context.Context, courseID string) {
	if err := c.rdb.Del(ctx, popularityPrefix+courseID).Err(); err != nil {
		c.logger.Warn("invalidate popularity failed", zap.String("course_id", courseID), zap.Error(err))
	}
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}
