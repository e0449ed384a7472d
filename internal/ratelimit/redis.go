package ratelimit

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter counts requests in fixed one-minute windows shared across
// process instances. It fails open: when Redis is unreachable the request is
// admitted and the error logged, since the gate is not a security boundary.
type RedisLimiter struct {
	client *redis.Client
	rules  Rules
	prefix string
}

func NewRedisLimiter(client *redis.Client, rules Rules) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		rules:  rules,
		prefix: "ratelimit",
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, route, client string) (bool, error) {
	rule := l.rules.For(route)
	if rule.PerMinute <= 0 {
		return true, nil
	}

	window := time.Now().Unix() / 60
	key := fmt.Sprintf("%s:%s:%s:%d", l.prefix, route, client, window)

	pipe := l.client.TxPipeline()
	count := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, 2*time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("rate limit redis check failed, admitting request: %v", err)
		return true, nil
	}

	return count.Val() <= int64(rule.PerMinute), nil
}
