package ratelimit

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	count        int
	resetAt      time.Time
	blockedUntil time.Time
}

// MemoryGate - процессный гейт на мьютексе и карте. Достаточен для
// развёртывания в один инстанс; для нескольких инстансов нужен общий
// счётчик (см. RedisGate).
type MemoryGate struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

func NewMemoryGate() *MemoryGate {
	g := &MemoryGate{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
	go g.janitor()
	return g
}

// janitor периодически выбрасывает истёкшие записи, чтобы карта не росла
// бесконечно на уникальных IP.
func (g *MemoryGate) janitor() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		now := g.now()
		g.mu.Lock()
		for key, entry := range g.entries {
			if entry.resetAt.Before(now) && entry.blockedUntil.Before(now) {
				delete(g.entries, key)
			}
		}
		g.mu.Unlock()
	}
}

func (g *MemoryGate) CheckAndRecord(_ context.Context, identity string, cfg Config) (Result, error) {
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	entry := g.entries[identity]

	if entry != nil && entry.blockedUntil.After(now) {
		return Result{
			Allowed: false,
			Limit:   cfg.MaxRequests,
			Reset:   entry.blockedUntil,
			Blocked: true,
		}, nil
	}

	// Новое окно: записи нет или прежнее окно истекло.
	if entry == nil || entry.resetAt.Before(now) {
		g.entries[identity] = &memoryEntry{
			count:   1,
			resetAt: now.Add(cfg.Window),
		}
		return Result{
			Allowed:   true,
			Limit:     cfg.MaxRequests,
			Remaining: cfg.MaxRequests - 1,
			Reset:     now.Add(cfg.Window),
		}, nil
	}

	entry.count++
	if entry.count > cfg.MaxRequests {
		blocked := false
		reset := entry.resetAt
		if cfg.BlockDuration > 0 {
			entry.blockedUntil = now.Add(cfg.BlockDuration)
			blocked = true
			reset = entry.blockedUntil
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
		Remaining: cfg.MaxRequests - entry.count,
		Reset:     entry.resetAt,
	}, nil
}
