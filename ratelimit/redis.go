package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisGate - гейт на общем счётчике в Redis для развёртываний в несколько
// инстансов. Окно реализовано через INCR + EXPIRE на ключе окна, блокировка
// - отдельным ключом с TTL.
type RedisGate struct {
	client *redis.Client
}

func NewRedisGate(client *redis.Client) *RedisGate {
	return &RedisGate{client: client}
}

func (g *RedisGate) CheckAndRecord(ctx context.Context, identity string, cfg Config) (Result, error) {
	blockKey := "ratelimit:block:" + identity
	countKey := "ratelimit:count:" + identity

	blockTTL, err := g.client.PTTL(ctx, blockKey).Result()
	if err != nil {
		return Result{}, fmt.Errorf("failed to check rate limit block: %w", err)
	}
	if blockTTL > 0 {
		return Result{
			Allowed: false,
			Limit:   cfg.MaxRequests,
			Reset:   time.Now().Add(blockTTL),
			Blocked: true,
		}, nil
	}

	count, err := g.client.Incr(ctx, countKey).Result()
	if err != nil {
		return Result{}, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	if count == 1 {
		// Первый запрос в окне задаёт его длительность.
		if err := g.client.PExpire(ctx, countKey, cfg.Window).Err(); err != nil {
			return Result{}, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	windowTTL, err := g.client.PTTL(ctx, countKey).Result()
	if err != nil {
		return Result{}, fmt.Errorf("failed to read rate limit window: %w", err)
	}
	if windowTTL < 0 {
		windowTTL = cfg.Window
	}
	reset := time.Now().Add(windowTTL)

	if int(count) > cfg.MaxRequests {
		blocked := false
		if cfg.BlockDuration > 0 {
			if err := g.client.Set(ctx, blockKey, 1, cfg.BlockDuration).Err(); err != nil {
				return Result{}, fmt.Errorf("failed to set rate limit block: %w", err)
			}
			blocked = true
			reset = time.Now().Add(cfg.BlockDuration)
		}
		return Result{
			Allowed: false,
			Limit:   cfg.MaxRequests,
			Reset:   reset,
			Blocked: blocked,
		}, nil
	}

	return Result{
		Allowed:   true,
		Limit:     cfg.MaxRequests,
		Remaining: cfg.MaxRequests - int(count),
		Reset:     reset,
	}, nil
}
