package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Memory is a sliding-window limiter kept in process memory.
type Memory struct {
	rule Rule
	now  func() time.Time

	mu       sync.Mutex
	attempts map[string][]time.Time
}

func NewMemory(rule Rule) *Memory {
	return &Memory{
		rule:     rule.normalized(),
		now:      time.Now,
		attempts: make(map[string][]time.Time),
	}
}

func (limiter *Memory) Allow(_ context.Context, key string) bool {
	now := limiter.now()
	cutoff := now.Add(-limiter.rule.Window)

	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	recent := limiter.attempts[key]
	pruned := recent[:0]
	for _, timestamp := range recent {
		if timestamp.After(cutoff) {
			pruned = append(pruned, timestamp)
		}
	}

	if len(pruned) >= limiter.rule.Limit {
		limiter.attempts[key] = pruned
		return false
	}

	limiter.attempts[key] = append(pruned, now)
	return true
}

// Sweep forgets keys with no attempt inside the window.
func (limiter *Memory) Sweep() int {
	cutoff := limiter.now().Add(-limiter.rule.Window)

	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	removed := 0
	for key, attempts := range limiter.attempts {
		if len(attempts) == 0 || !attempts[len(attempts)-1].After(cutoff) {
			delete(limiter.attempts, key)
			removed++
		}
	}
	return removed
}
