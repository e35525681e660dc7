package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter implements a token bucket rate limiter
type Limiter struct {
	tokens     int
	maxTokens  int
	refillRate time.Duration
	mu         sync.Mutex
	lastRefill time.Time
}

// NewLimiter creates a token bucket holding maxTokens that gains one token
// every refillRate.
func NewLimiter(maxTokens int, refillRate time.Duration) *Limiter {
	if maxTokens < 1 {
		maxTokens = 1
	}
	if refillRate <= 0 {
		refillRate = time.Millisecond
	}
	return &Limiter{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// PerMinute returns a limiter allowing n requests per minute with a burst
// of up to n/10 (at least 1).
func PerMinute(n int) *Limiter {
	if n < 1 {
		n = 1
	}
	return NewLimiter(max(1, n/10), time.Minute/time.Duration(n))
}

// Allow consumes a token if one is available.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refillTokens()

	if l.tokens > 0 {
		l.tokens--
		return true
	}

	return false
}

// Wait blocks until a token is available or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	for !l.Allow() {
		timer := time.NewTimer(l.refillRate / time.Duration(l.maxTokens))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}

// TokensAvailable returns the current number of tokens available
func (l *Limiter) TokensAvailable() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refillTokens()
	return l.tokens
}

// refillTokens adds tokens based on elapsed time.
// Must be called with mutex held.
func (l *Limiter) refillTokens() {
	elapsed := time.Since(l.lastRefill)

	tokensToAdd := int(elapsed / l.refillRate)
	if tokensToAdd > 0 {
		l.tokens = min(l.maxTokens, l.tokens+tokensToAdd)
		l.lastRefill = l.lastRefill.Add(time.Duration(tokensToAdd) * l.refillRate)
	}
}
