package cache

import (
	"context"
	"sync"
	"time"
)

type expiringSet struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func newExpiringSet() *expiringSet {
	return &expiringSet{entries: make(map[string]time.Time), now: time.Now}
}

func (s *expiringSet) add(key string, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if exp, ok := s.entries[key]; ok && now.Before(exp) {
		return false
	}
	s.entries[key] = now.Add(ttl)
	if len(s.entries) > 1024 {
		for k, exp := range s.entries {
			if !now.Before(exp) {
				delete(s.entries, k)
			}
		}
	}
	return true
}

func (s *expiringSet) remove(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// MemoryGuard is the in-process OnceGuard.
type MemoryGuard struct {
	set *expiringSet
	ttl time.Duration
}

func NewMemoryGuard(ttl time.Duration) *MemoryGuard {
	return &MemoryGuard{set: newExpiringSet(), ttl: ttl}
}

func (g *MemoryGuard) Claim(_ context.Context, key string) (bool, error) {
	return g.set.add(key, g.ttl), nil
}

func (g *MemoryGuard) Release(_ context.Context, key string) error {
	g.set.remove(key)
	return nil
}

// MemoryLocker is the in-process Locker.
type MemoryLocker struct {
	set *expiringSet
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{set: newExpiringSet()}
}

func (l *MemoryLocker) TryLock(_ context.Context, key string, ttl time.Duration) (bool, error) {
	return l.set.add(key, ttl), nil
}

type window struct {
	start time.Time
	count int
}

// MemoryRateLimiter is the in-process fixed-window RateLimiter.
type MemoryRateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	windows map[string]*window
	now     func() time.Time
}

func NewMemoryRateLimiter(limit int, w time.Duration) *MemoryRateLimiter {
	return &MemoryRateLimiter{
		limit:   limit,
		window:  w,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

func (l *MemoryRateLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.window {
		w = &window{start: now}
		l.windows[key] = w
	}
	w.count++
	if len(l.windows) > 1024 {
		for k, win := range l.windows {
			if now.Sub(win.start) >= l.window {
				delete(l.windows, k)
			}
		}
	}
	return w.count <= l.limit, nil
}

var (
	_ OnceGuard   = (*RedisGuard)(nil)
	_ OnceGuard   = (*MemoryGuard)(nil)
	_ RateLimiter = (*RedisRateLimiter)(nil)
	_ RateLimiter = (*MemoryRateLimiter)(nil)
	_ Locker      = (*RedisLocker)(nil)
	_ Locker      = (*MemoryLocker)(nil)
)
