package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MockRedisClient keeps sorted sets in memory. Set a XxxFunc field to override
// the behavior of a single call.
type MockRedisClient struct {
	ExistFunc                   func(ctx context.Context, key string) (bool, error)
	DelFunc                     func(ctx context.Context, key ...string) error
	ExpireFunc                  func(ctx context.Context, key string, ttl time.Duration) error
	ZAddFunc                    func(ctx context.Context, key string, z ...redis.Z) error
	ZIncrByFunc                 func(ctx context.Context, key string, incr int64, member string) error
	ZRevRangeWithScoresFunc     func(ctx context.Context, key string, offset, limit int) ([]redis.Z, error)
	ZRangeByScoreWithScoresFunc func(ctx context.Context, key string, min, max int64) ([]redis.Z, error)
	ZCountAboveFunc             func(ctx context.Context, key string, score int64) (uint64, error)
	ZScoreFunc                  func(ctx context.Context, key string, member string) (int64, error)

	mu   sync.Mutex
	sets map[string]map[string]float64
}

func (m *MockRedisClient) Exist(ctx context.Context, key string) (bool, error) {
	if m.ExistFunc != nil {
		return m.ExistFunc(ctx, key)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sets[key]
	return ok, nil
}

func (m *MockRedisClient) Del(ctx context.Context, key ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, key...)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range key {
		delete(m.sets, k)
	}

	return nil
}

func (m *MockRedisClient) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if m.ExpireFunc != nil {
		return m.ExpireFunc(ctx, key, ttl)
	}

	return nil
}

func (m *MockRedisClient) ZAdd(ctx context.Context, key string, z ...redis.Z) error {
	if m.ZAddFunc != nil {
		return m.ZAddFunc(ctx, key, z...)
	}

	if len(z) == 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	set := m.set(key)
	for _, member := range z {
		set[member.Member.(string)] = member.Score
	}

	return nil
}

func (m *MockRedisClient) ZIncrBy(ctx context.Context, key string, incr int64, member string) error {
	if m.ZIncrByFunc != nil {
		return m.ZIncrByFunc(ctx, key, incr, member)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(key)[member] += float64(incr)
	return nil
}

func (m *MockRedisClient) ZRevRangeWithScores(
	ctx context.Context, key string, offset, limit int,
) ([]redis.Z, error) {
	if m.ZRevRangeWithScoresFunc != nil {
		return m.ZRevRangeWithScoresFunc(ctx, key, offset, limit)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.revSorted(key)
	if offset >= len(all) {
		return []redis.Z{}, nil
	}

	end := offset + limit
	if end > len(all) {
		end = len(all)
	}

	return all[offset:end], nil
}

func (m *MockRedisClient) ZRangeByScoreWithScores(
	ctx context.Context, key string, min, max int64,
) ([]redis.Z, error) {
	if m.ZRangeByScoreWithScoresFunc != nil {
		return m.ZRangeByScoreWithScoresFunc(ctx, key, min, max)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.revSorted(key)
	result := []redis.Z{}
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].Score >= float64(min) && all[i].Score <= float64(max) {
			result = append(result, all[i])
		}
	}

	return result, nil
}

func (m *MockRedisClient) ZCountAbove(ctx context.Context, key string, score int64) (uint64, error) {
	if m.ZCountAboveFunc != nil {
		return m.ZCountAboveFunc(ctx, key, score)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var count uint64
	for _, s := range m.sets[key] {
		if s > float64(score) {
			count++
		}
	}

	return count, nil
}

func (m *MockRedisClient) ZScore(ctx context.Context, key string, member string) (int64, error) {
	if m.ZScoreFunc != nil {
		return m.ZScoreFunc(ctx, key, member)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	score, ok := m.sets[key][member]
	if !ok {
		return 0, redis.Nil
	}

	return int64(score), nil
}

func (m *MockRedisClient) set(key string) map[string]float64 {
	if m.sets == nil {
		m.sets = make(map[string]map[string]float64)
	}

	if _, ok := m.sets[key]; !ok {
		m.sets[key] = make(map[string]float64)
	}

	return m.sets[key]
}

// revSorted orders like ZREVRANGE, equal scores by member descending.
func (m *MockRedisClient) revSorted(key string) []redis.Z {
	result := make([]redis.Z, 0, len(m.sets[key]))
	for member, score := range m.sets[key] {
		result = append(result, redis.Z{Member: member, Score: score})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Score != result[j].Score {
			return result[i].Score > result[j].Score
		}

		return result[i].Member.(string) > result[j].Member.(string)
	})

	return result
}
