package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func limitedRequest(ip string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	return req.WithContext(ContextWithClientIP(req.Context(), ip))
}

func TestRateLimitMiddleware_AllowsRequestsWithinLimit(t *testing.T) {
	cfg := RateLimiterConfig{
		GeneralRate:     2,
		GeneralBurst:    5,
		SubmissionRate:  1,
		SubmissionBurst: 10,
		CleanupInterval: 1 * time.Minute,
	}

	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	mw := rl.GeneralMiddleware()

	handlerCallCount := 0
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCallCount++
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, limitedRequest("203.0.113.1"))

		if w.Result().StatusCode != http.StatusOK {
			t.Errorf("request %d: status = %d, want %d", i, w.Result().StatusCode, http.StatusOK)
		}
	}

	if handlerCallCount != 5 {
		t.Errorf("handler call count = %d, want 5", handlerCallCount)
	}
}

func TestRateLimitMiddleware_Returns429WhenLimitExceeded(t *testing.T) {
	cfg := RateLimiterConfig{
		GeneralRate:     1,
		GeneralBurst:    2,
		SubmissionRate:  1,
		SubmissionBurst: 10,
		CleanupInterval: 1 * time.Minute,
	}

	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	mw := rl.GeneralMiddleware()

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, limitedRequest("203.0.113.2"))

		if w.Result().StatusCode != http.StatusOK {
			t.Errorf("request %d: status = %d, want %d", i, w.Result().StatusCode, http.StatusOK)
		}
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, limitedRequest("203.0.113.2"))

	if w.Result().StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusTooManyRequests)
	}
}

func TestRateLimitMiddleware_Returns429WithRetryAfterHeader(t *testing.T) {
	cfg := RateLimiterConfig{
		GeneralRate:     1,
		GeneralBurst:    1,
		SubmissionRate:  1,
		SubmissionBurst: 10,
		CleanupInterval: 1 * time.Minute,
	}

	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	mw := rl.GeneralMiddleware()

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, limitedRequest("203.0.113.3"))

	w2 := httptest.NewRecorder()
	handler.ServeHTTP(w2, limitedRequest("203.0.113.3"))

	if w2.Result().StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", w2.Result().StatusCode, http.StatusTooManyRequests)
	}

	retryAfter := w2.Result().Header.Get("Retry-After")
	if retryAfter == "" {
		t.Fatal("expected Retry-After header to be present")
	}

	retrySeconds, err := strconv.Atoi(retryAfter)
	if err != nil {
		t.Errorf("Retry-After header should be a number, got %q", retryAfter)
	}
	if retrySeconds < 1 {
		t.Errorf("Retry-After = %d, should be at least 1", retrySeconds)
	}
}

func TestRateLimitMiddleware_IsolatesClientIPs(t *testing.T) {
	cfg := RateLimiterConfig{
		GeneralRate:     1,
		GeneralBurst:    1,
		SubmissionRate:  1,
		SubmissionBurst: 10,
		CleanupInterval: 1 * time.Minute,
	}

	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	mw := rl.GeneralMiddleware()

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	wA := httptest.NewRecorder()
	handler.ServeHTTP(wA, limitedRequest("198.51.100.1"))
	if wA.Result().StatusCode != http.StatusOK {
		t.Errorf("first client first request: status = %d, want %d", wA.Result().StatusCode, http.StatusOK)
	}

	wA2 := httptest.NewRecorder()
	handler.ServeHTTP(wA2, limitedRequest("198.51.100.1"))
	if wA2.Result().StatusCode != http.StatusTooManyRequests {
		t.Errorf("first client second request: status = %d, want %d", wA2.Result().StatusCode, http.StatusTooManyRequests)
	}

	// A second client is not affected by the first client's limit.
	wB := httptest.NewRecorder()
	handler.ServeHTTP(wB, limitedRequest("198.51.100.2"))
	if wB.Result().StatusCode != http.StatusOK {
		t.Errorf("second client first request: status = %d, want %d", wB.Result().StatusCode, http.StatusOK)
	}
}

func TestSubmissionRateLimit_Returns429WhenLimitExceeded(t *testing.T) {
	cfg := RateLimiterConfig{
		GeneralRate:     100,
		GeneralBurst:    200,
		SubmissionRate:  1,
		SubmissionBurst: 1,
		CleanupInterval: 1 * time.Minute,
	}

	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	mw := rl.SubmissionMiddleware()

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w1 := httptest.NewRecorder()
	handler.ServeHTTP(w1, limitedRequest("203.0.113.4"))
	if w1.Result().StatusCode != http.StatusOK {
		t.Errorf("request 1: status = %d, want %d", w1.Result().StatusCode, http.StatusOK)
	}

	w2 := httptest.NewRecorder()
	handler.ServeHTTP(w2, limitedRequest("203.0.113.4"))
	if w2.Result().StatusCode != http.StatusTooManyRequests {
		t.Errorf("request 2: status = %d, want %d", w2.Result().StatusCode, http.StatusTooManyRequests)
	}

	if w2.Result().Header.Get("Retry-After") == "" {
		t.Error("expected Retry-After header to be present")
	}
}

func TestSubmissionRateLimit_IndependentFromGeneralLimit(t *testing.T) {
	cfg := RateLimiterConfig{
		GeneralRate:     1,
		GeneralBurst:    1,
		SubmissionRate:  1,
		SubmissionBurst: 1,
		CleanupInterval: 1 * time.Minute,
	}

	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	generalHandler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w1 := httptest.NewRecorder()
	generalHandler.ServeHTTP(w1, limitedRequest("203.0.113.5"))

	// The general budget is spent; the submission budget is separate.
	submissionHandler := rl.SubmissionMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w2 := httptest.NewRecorder()
	submissionHandler.ServeHTTP(w2, limitedRequest("203.0.113.5"))
	if w2.Result().StatusCode != http.StatusOK {
		t.Errorf("submission should still be allowed: status = %d, want %d",
			w2.Result().StatusCode, http.StatusOK)
	}
}

func TestRateLimitMiddleware_NoClientIP_Returns500(t *testing.T) {
	cfg := DefaultRateLimiterConfig()
	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called without a client IP")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusInternalServerError)
	}
}

func TestRateLimitMiddleware_429ResponseIsJSON(t *testing.T) {
	cfg := RateLimiterConfig{
		GeneralRate:     1,
		GeneralBurst:    1,
		SubmissionRate:  1,
		SubmissionBurst: 10,
		CleanupInterval: 1 * time.Minute,
	}

	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, limitedRequest("203.0.113.6"))

	w2 := httptest.NewRecorder()
	handler.ServeHTTP(w2, limitedRequest("203.0.113.6"))

	resp := w2.Result()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusTooManyRequests)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("Content-Type = %q, want %q", contentType, "application/json")
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if body.Success {
		t.Error("rate limit response must have success false")
	}
	if body.Code != "RATE_LIMIT_EXCEEDED" {
		t.Errorf("code = %q, want RATE_LIMIT_EXCEEDED", body.Code)
	}
	if body.Error == "" {
		t.Error("expected non-empty error message")
	}
}

func TestRateLimiter_CleanupRemovesExpiredEntries(t *testing.T) {
	cfg := RateLimiterConfig{
		GeneralRate:     2,
		GeneralBurst:    5,
		SubmissionRate:  1,
		SubmissionBurst: 10,
		CleanupInterval: 50 * time.Millisecond,
	}

	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, limitedRequest("203.0.113.7"))

	if rl.GeneralLimiterCount() == 0 {
		t.Fatal("expected at least one limiter entry")
	}

	// The entry TTL is twice the cleanup interval, 100ms here.
	time.Sleep(200 * time.Millisecond)

	if count := rl.GeneralLimiterCount(); count != 0 {
		t.Errorf("expected 0 limiter entries after cleanup, got %d", count)
	}
}

func TestDefaultRateLimiterConfig(t *testing.T) {
	cfg := DefaultRateLimiterConfig()

	if cfg.GeneralRate != 2.0 { // 120/60
		t.Errorf("GeneralRate = %f, want 2.0", cfg.GeneralRate)
	}
	if cfg.GeneralBurst != 120 {
		t.Errorf("GeneralBurst = %d, want 120", cfg.GeneralBurst)
	}
	if cfg.SubmissionRate == 0 {
		t.Error("SubmissionRate should not be 0")
	}
	if cfg.SubmissionBurst != 20 {
		t.Errorf("SubmissionBurst = %d, want 20", cfg.SubmissionBurst)
	}
}
