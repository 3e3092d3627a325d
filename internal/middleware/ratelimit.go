package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterConfig holds the rate limit settings. Limits are keyed by
// client IP since readers are anonymous.
type RateLimiterConfig struct {
	GeneralRate     rate.Limit    // general API rate, req/sec
	GeneralBurst    int           // general burst size
	SubmissionRate  rate.Limit    // comment/reaction write rate, req/sec
	SubmissionBurst int           // submission burst size
	CleanupInterval time.Duration // expired entry cleanup interval
}

// DefaultRateLimiterConfig returns the defaults: 120 req/min per IP
// for reads, 20 req/min per IP for submissions.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(120.0 / 60.0),
		GeneralBurst:    120,
		SubmissionRate:  rate.Limit(20.0 / 60.0),
		SubmissionBurst: 20,
		CleanupInterval: 5 * time.Minute,
	}
}

// ipLimiter pairs a limiter with its last access time for cleanup.
type ipLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter enforces per-IP rate limits. The general limit covers
// every API route; the submission limit additionally covers the two
// write endpoints and operates independently.
type RateLimiter struct {
	config RateLimiterConfig

	generalMu       sync.RWMutex
	generalLimiters map[string]*ipLimiter

	submissionMu       sync.RWMutex
	submissionLimiters map[string]*ipLimiter

	stopCh chan struct{}
}

// NewRateLimiter creates a RateLimiter and starts its background
// cleanup of idle entries.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config:             config,
		generalLimiters:    make(map[string]*ipLimiter),
		submissionLimiters: make(map[string]*ipLimiter),
		stopCh:             make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop terminates the background cleanup goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// GeneralMiddleware returns the general API rate limit middleware.
// Must run after the client IP middleware.
func (rl *RateLimiter) GeneralMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, err := ClientIPFromContext(r.Context())
			if err != nil {
				WriteInternalServerError(w)
				return
			}

			limiter := rl.getOrCreate(&rl.generalMu, rl.generalLimiters, ip, rl.config.GeneralRate, rl.config.GeneralBurst)

			if !limiter.Allow() {
				writeRateLimitResponse(w, rl.config.GeneralRate)
				slog.Warn("rate limit exceeded",
					slog.String("client_ip", ip),
					slog.String("limit_type", "general"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SubmissionMiddleware returns the rate limit middleware for the
// comment and reaction write endpoints.
func (rl *RateLimiter) SubmissionMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, err := ClientIPFromContext(r.Context())
			if err != nil {
				WriteInternalServerError(w)
				return
			}

			limiter := rl.getOrCreate(&rl.submissionMu, rl.submissionLimiters, ip, rl.config.SubmissionRate, rl.config.SubmissionBurst)

			if !limiter.Allow() {
				writeRateLimitResponse(w, rl.config.SubmissionRate)
				slog.Warn("rate limit exceeded",
					slog.String("client_ip", ip),
					slog.String("limit_type", "submission"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GeneralLimiterCount returns the number of tracked general limiter
// entries. For tests and metrics.
func (rl *RateLimiter) GeneralLimiterCount() int {
	rl.generalMu.RLock()
	defer rl.generalMu.RUnlock()
	return len(rl.generalLimiters)
}

// SubmissionLimiterCount returns the number of tracked submission
// limiter entries. For tests and metrics.
func (rl *RateLimiter) SubmissionLimiterCount() int {
	rl.submissionMu.RLock()
	defer rl.submissionMu.RUnlock()
	return len(rl.submissionLimiters)
}

func (rl *RateLimiter) getOrCreate(mu *sync.RWMutex, limiters map[string]*ipLimiter, ip string, r rate.Limit, burst int) *rate.Limiter {
	mu.RLock()
	il, exists := limiters[ip]
	mu.RUnlock()

	if exists {
		mu.Lock()
		il.lastAccess = time.Now()
		mu.Unlock()
		return il.limiter
	}

	mu.Lock()
	defer mu.Unlock()

	// double check under the write lock
	if il, exists := limiters[ip]; exists {
		il.lastAccess = time.Now()
		return il.limiter
	}

	limiter := rate.NewLimiter(r, burst)
	limiters[ip] = &ipLimiter{
		limiter:    limiter,
		lastAccess: time.Now(),
	}

	return limiter
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup drops entries idle for more than twice the cleanup interval.
func (rl *RateLimiter) cleanup() {
	ttl := rl.config.CleanupInterval * 2

	now := time.Now()

	rl.generalMu.Lock()
	for ip, il := range rl.generalLimiters {
		if now.Sub(il.lastAccess) > ttl {
			delete(rl.generalLimiters, ip)
		}
	}
	rl.generalMu.Unlock()

	rl.submissionMu.Lock()
	for ip, il := range rl.submissionLimiters {
		if now.Sub(il.lastAccess) > ttl {
			delete(rl.submissionLimiters, ip)
		}
	}
	rl.submissionMu.Unlock()
}

// writeRateLimitResponse writes a 429 with a Retry-After estimating
// when one token will be available again.
func writeRateLimitResponse(w http.ResponseWriter, r rate.Limit) {
	retryAfterSec := int(math.Ceil(1.0 / float64(r)))
	if retryAfterSec < 1 {
		retryAfterSec = 1
	}

	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSec))
	WriteJSON(w, http.StatusTooManyRequests, ErrorResponseBody{
		Success: false,
		Error:   "too many requests, please try again later",
		Code:    "RATE_LIMIT_EXCEEDED",
	})
}
