package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore backs the admission counters with a shared Redis instance so
// that every instance in a fleet counts against the same window.
type RedisStore struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, ctx: context.Background()}
}

func (r *RedisStore) Hit(key string, window time.Duration) (int, error) {
	redisKey := "ratelimit:" + key

	count, err := r.client.Incr(r.ctx, redisKey).Result()
	if err != nil {
		return 0, err
	}
	// First hit of a fresh window starts the clock.
	if count == 1 {
		if err := r.client.Expire(r.ctx, redisKey, window).Err(); err != nil {
			return 0, err
		}
	}
	return int(count), nil
}
