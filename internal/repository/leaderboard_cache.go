package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"
	"tutor_backend/internal/model"

	"github.com/go-redis/redis/v8"
)

const (
	leaderboardGenerationKey = "leaderboard:gen"
	leaderboardCachePrefix   = "leaderboard:top:"
)

// RedisLeaderboardCache 缓存已排序的排行榜，名次不写入缓存。
// 每次失效递增代号，列表按代号存放；旧代号下的写入不会再被读到。
type RedisLeaderboardCache struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewRedisLeaderboardCache(client *redis.Client, ttl time.Duration) *RedisLeaderboardCache {
	return &RedisLeaderboardCache{Redis: client, TTL: ttl}
}

func leaderboardCacheKey(gen int64) string {
	return leaderboardCachePrefix + strconv.FormatInt(gen, 10)
}

func (c *RedisLeaderboardCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.Redis.Get(ctx, leaderboardGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Get 返回当前代号；未命中时 entries 为 nil，hit 为 false
func (c *RedisLeaderboardCache) Get(ctx context.Context) ([]model.LeaderboardEntry, int64, bool, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, 0, false, err
	}

	data, err := c.Redis.Get(ctx, leaderboardCacheKey(gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, gen, false, err
	}

	var entries []model.LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, gen, false, err
	}
	return entries, gen, true, nil
}

// Set 写入 gen 代号下的列表，gen 应取自查库之前的 Get
func (c *RedisLeaderboardCache) Set(ctx context.Context, gen int64, entries []model.LeaderboardEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.Redis.Set(ctx, leaderboardCacheKey(gen), data, c.TTL).Err()
}

func (c *RedisLeaderboardCache) Invalidate(ctx context.Context) error {
	return c.Redis.Incr(ctx, leaderboardGenerationKey).Err()
}
