package auth

import (
	"sync"
	"time"
)

const (
	maxAttempts    = 5
	blockDuration  = 15 * time.Minute
	windowDuration = 15 * time.Minute
	maxTracked     = 10000
)

type attemptData struct {
	count        int
	firstAttempt time.Time
}

// Limiter counts failed attempts per key and blocks a key after too many
// failures within the window. It is safe for concurrent use.
type Limiter struct {
	mu       sync.Mutex
	attempts map[string]*attemptData
	blocked  map[string]time.Time
	now      func() time.Time
}

func NewLimiter() *Limiter {
	return &Limiter{
		attempts: make(map[string]*attemptData),
		blocked:  make(map[string]time.Time),
		now:      time.Now,
	}
}

// Allow returns false while key is blocked. Expired blocks are dropped.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if until, ok := l.blocked[key]; ok {
		if l.now().Before(until) {
			return false
		}
		delete(l.blocked, key)
		delete(l.attempts, key)
	}
	return true
}

// RecordFailure counts a failure and blocks key once the threshold is hit.
func (l *Limiter) RecordFailure(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.attempts) > maxTracked {
		l.evict(now)
	}

	data, ok := l.attempts[key]
	if !ok || now.Sub(data.firstAttempt) > windowDuration {
		l.attempts[key] = &attemptData{count: 1, firstAttempt: now}
		return
	}
	data.count++
	if data.count >= maxAttempts {
		l.blocked[key] = now.Add(blockDuration)
	}
}

// Reset forgets key, used after a successful attempt.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.attempts, key)
	delete(l.blocked, key)
}

func (l *Limiter) evict(now time.Time) {
	for k, d := range l.attempts {
		if now.Sub(d.firstAttempt) > windowDuration {
			delete(l.attempts, k)
		}
	}
	for k, until := range l.blocked {
		if !now.Before(until) {
			delete(l.blocked, k)
		}
	}
}
