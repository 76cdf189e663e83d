package ratelimit

import (
	"context"
	"sync"
	"time"

	"phoneauth/internal/domain"
)

// Memory keeps last-issuance times in process. Suitable for a single instance.
type Memory struct {
	mu       sync.Mutex
	cooldown time.Duration
	clock    func() time.Time
	last     map[string]time.Time
}

func NewMemory(cooldown time.Duration, clock func() time.Time) *Memory {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &Memory{
		cooldown: cooldown,
		clock:    clock,
		last:     make(map[string]time.Time),
	}
}

func (m *Memory) CheckAndRecord(_ context.Context, phone string, purpose domain.Purpose) (Decision, error) {
	k := key(phone, purpose)
	now := m.clock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.last[k]; ok {
		if elapsed := now.Sub(prev); elapsed < m.cooldown {
			return Decision{Allowed: false, RetryAfter: m.cooldown - elapsed}, nil
		}
	}
	m.last[k] = now
	return Decision{Allowed: true}, nil
}

// Sweep drops entries whose cooldown has passed and returns how many were removed.
func (m *Memory) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for k, at := range m.last {
		if now.Sub(at) >= m.cooldown {
			delete(m.last, k)
			removed++
		}
	}
	return removed
}
