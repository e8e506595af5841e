package xredis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/mushroomhunter/backend/pkg/xcontext"
	"github.com/redis/go-redis/v9"
)

type Client interface {
	Exist(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, key ...string) error
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// Sorted list
	ZAdd(ctx context.Context, key string, z ...redis.Z) error
	ZIncrBy(ctx context.Context, key string, incr int64, member string) error
	ZRevRangeWithScores(ctx context.Context, key string, offset, limit int) ([]redis.Z, error)
	ZRangeByScoreWithScores(ctx context.Context, key string, min, max int64) ([]redis.Z, error)
	ZCountAbove(ctx context.Context, key string, score int64) (uint64, error)
	ZScore(ctx context.Context, key string, member string) (int64, error)
}

type client struct {
	redisClient *redis.Client
}

func NewClient(ctx context.Context) (*client, error) {
	cfg := xcontext.Configs(ctx).Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:            cfg.Addr,
		Password:        cfg.Password,
		DB:              cfg.DB,
		MaxRetries:      5,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		PoolFIFO:        false,
		PoolSize:        5,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &client{redisClient: redisClient}, nil
}

///// COMMON FEATURE
func (c *client) Exist(ctx context.Context, key string) (bool, error) {
	n, err := c.redisClient.Exists(ctx, key).Uint64()
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

func (c *client) Del(ctx context.Context, key ...string) error {
	err := c.redisClient.Del(ctx, key...).Err()
	if err == nil || errors.Is(err, redis.Nil) {
		return nil
	}

	return err
}

func (c *client) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return c.redisClient.Expire(ctx, key, ttl).Err()
}

///// SORTED LIST
func (c *client) ZAdd(ctx context.Context, key string, z ...redis.Z) error {
	if len(z) == 0 {
		return nil
	}

	return c.redisClient.ZAdd(ctx, key, z...).Err()
}

func (c *client) ZIncrBy(ctx context.Context, key string, incr int64, member string) error {
	return c.redisClient.ZIncrBy(ctx, key, float64(incr), member).Err()
}

func (c *client) ZRevRangeWithScores(
	ctx context.Context, key string, offset, limit int,
) ([]redis.Z, error) {
	result := c.redisClient.ZRevRangeWithScores(ctx, key, int64(offset), int64(offset+limit-1))
	return result.Result()
}

// ZRangeByScoreWithScores returns every member whose score is in [min, max].
func (c *client) ZRangeByScoreWithScores(
	ctx context.Context, key string, min, max int64,
) ([]redis.Z, error) {
	return c.redisClient.ZRangeByScoreWithScores(ctx, key, &redis.ZRangeBy{
		Min: strconv.FormatInt(min, 10),
		Max: strconv.FormatInt(max, 10),
	}).Result()
}

// ZCountAbove counts the members whose score is strictly greater than score.
func (c *client) ZCountAbove(ctx context.Context, key string, score int64) (uint64, error) {
	return c.redisClient.ZCount(ctx, key, "("+strconv.FormatInt(score, 10), "+inf").Uint64()
}

func (c *client) ZScore(ctx context.Context, key string, member string) (int64, error) {
	score, err := c.redisClient.ZScore(ctx, key, member).Result()
	if err != nil {
		return 0, err
	}

	return int64(score), nil
}
