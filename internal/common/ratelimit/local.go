package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type localLimiter struct {
	mu          sync.Mutex
	config      Config
	every       rate.Limit
	buckets     map[string]*bucket
	lastCleanup time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

func newLocalLimiter(cfg Config) *localLimiter {
	return &localLimiter{
		config:      cfg,
		every:       rate.Every(cfg.Window / time.Duration(cfg.Limit)),
		buckets:     make(map[string]*bucket),
		lastCleanup: time.Now(),
	}
}

func (l *localLimiter) Allow(_ context.Context, key string) (bool, int, error) {
	b := l.bucketFor(key)
	ok := b.Allow()
	remaining := int(b.Tokens())
	if remaining < 0 {
		remaining = 0
	}
	return ok, remaining, nil
}

func (l *localLimiter) Config() Config {
	return l.config
}

func (l *localLimiter) bucketFor(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastCleanup) > l.config.CleanupPeriod {
		l.cleanup(now)
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.every, l.config.Limit), lastUsed: now}
		l.buckets[key] = b
		if len(l.buckets) > l.config.MaxKeys {
			l.cleanup(now)
		}
	}
	b.lastUsed = now
	return b.limiter
}

// cleanup drops buckets idle for a full cleanup period.
func (l *localLimiter) cleanup(now time.Time) {
	cutoff := now.Add(-l.config.CleanupPeriod)
	for k, b := range l.buckets {
		if b.lastUsed.Before(cutoff) {
			delete(l.buckets, k)
		}
	}
	l.lastCleanup = now
}

func (l *localLimiter) activeKeys() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
