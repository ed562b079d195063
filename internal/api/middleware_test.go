package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestFrom(addr string) *http.Request {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = addr
	return req
}

func TestRateLimitMiddleware_AllowsWithinLimit(t *testing.T) {
	handler := RateLimitMiddleware(5)(okHandler())

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestFrom("10.0.0.1:4000"))

		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}
}

func TestRateLimitMiddleware_BlocksOverLimit(t *testing.T) {
	handler := RateLimitMiddleware(3)(okHandler())

	for i := 0; i < 3; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), requestFrom("10.0.0.1:4000"))
	}

	// 4th request should be rate-limited, even from a new source port
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom("10.0.0.1:4001"))

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", w.Code)
	}
}

func TestRateLimitMiddleware_KeysByRemoteHost(t *testing.T) {
	handler := RateLimitMiddleware(2)(okHandler())

	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), requestFrom("10.0.0.1:4000"))
	}

	// another host should still be allowed
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom("10.0.0.2:4000"))
	if w.Code != http.StatusOK {
		t.Errorf("10.0.0.2 should not be rate-limited, got %d", w.Code)
	}

	// rotating the client header does not reset the limit
	for _, id := range []string{"client-a", "client-b", "client-c"} {
		req := requestFrom("10.0.0.1:4000")
		req.Header.Set(ClientIDHeader, id)
		w = httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusTooManyRequests {
			t.Errorf("%s from 10.0.0.1 should be rate-limited, got %d", id, w.Code)
		}
	}
}

func TestRateLimiter_DropsIdleKeys(t *testing.T) {
	rl := newRateLimiter(1, time.Minute)
	t0 := time.Now()

	if !rl.allow("a", t0) || !rl.allow("b", t0) {
		t.Fatal("first request per key should be allowed")
	}
	if rl.allow("a", t0.Add(time.Second)) {
		t.Error("second request for a within the window should be blocked")
	}

	if !rl.allow("c", t0.Add(2*time.Minute)) {
		t.Fatal("c should be allowed")
	}
	if len(rl.requests) != 1 {
		t.Errorf("expected idle keys to be dropped, have %d keys", len(rl.requests))
	}
	if !rl.allow("a", t0.Add(2*time.Minute)) {
		t.Error("a should be allowed again after the window")
	}
}

func TestRateLimitMiddleware_DisabledWhenZero(t *testing.T) {
	handler := RateLimitMiddleware(0)(okHandler())
	for i := 0; i < 50; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}
}

func TestRequestLogger(t *testing.T) {
	called := false
	handler := RequestLogger(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if !called {
		t.Error("inner handler was not called")
	}
	if w.Code != http.StatusTeapot {
		t.Errorf("expected 418, got %d", w.Code)
	}
}
