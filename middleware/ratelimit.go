// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// maxLimiters bounds the per-key limiter map.
const maxLimiters = 10000

// RateLimiter applies a token bucket per key.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
	key      func(*http.Request) string
}

// NewRateLimiter creates a limiter allowing perSecond requests per key
// with the given burst. key defaults to the client IP.
func NewRateLimiter(perSecond float64, burst int, key func(*http.Request) string) *RateLimiter {
	if key == nil {
		key = GetClientIP
	}
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(perSecond),
		burst:    burst,
		key:      key,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.limiters[key]
	if !ok {
		if len(rl.limiters) >= maxLimiters {
			// Reset once the bound is reached.
			rl.limiters = make(map[string]*rate.Limiter)
		}
		l = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = l
	}
	return l
}

// Limit wraps next, answering 429 once a key's bucket is empty.
func (rl *RateLimiter) Limit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := rl.key(r)
		if !rl.limiter(key).Allow() {
			slog.Warn("rate limit exceeded", "key", key, "path", r.URL.Path)
			w.Header().Set("Retry-After", "1")
			ErrorResponse(w, http.StatusTooManyRequests, "too many requests, slow down")
			return
		}
		next(w, r)
	}
}
