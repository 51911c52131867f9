package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestNewIPRateLimiter(t *testing.T) {
	limiter := NewIPRateLimiter("test", 10, 20)

	require.NotNil(t, limiter)
	assert.Equal(t, rate.Limit(10), limiter.rate)
	assert.Equal(t, 20, limiter.burst)
}

func TestIPRateLimiter_GetLimiter(t *testing.T) {
	limiter := NewIPRateLimiter("test", 10, 20)

	l1 := limiter.GetLimiter("192.168.1.1")
	require.NotNil(t, l1)

	// Same IP yields the same limiter instance
	l2 := limiter.GetLimiter("192.168.1.1")
	assert.Same(t, l1, l2)

	// Different IP yields a different instance
	l3 := limiter.GetLimiter("192.168.1.2")
	assert.NotSame(t, l1, l3)
}

func TestIPRateLimiter_Allow(t *testing.T) {
	// 1 per second, burst of 2
	limiter := NewIPRateLimiter("test", 1, 2)
	ip := "192.168.1.1"

	assert.True(t, limiter.Allow(ip), "first request within burst")
	assert.True(t, limiter.Allow(ip), "second request within burst")
	assert.False(t, limiter.Allow(ip), "third request exceeds burst")
}

func TestIPRateLimiter_AllowAfterWait(t *testing.T) {
	limiter := NewIPRateLimiter("test", rate.Limit(10), 1)
	ip := "192.168.1.1"

	require.True(t, limiter.Allow(ip))
	require.False(t, limiter.Allow(ip))

	// 10/sec refills one token within ~100ms
	time.Sleep(150 * time.Millisecond)
	assert.True(t, limiter.Allow(ip))
}

func TestIPRateLimiter_IndependentIPs(t *testing.T) {
	limiter := NewIPRateLimiter("test", 1, 1)

	require.True(t, limiter.Allow("10.0.0.1"))
	require.False(t, limiter.Allow("10.0.0.1"))

	// A different IP has its own bucket
	assert.True(t, limiter.Allow("10.0.0.2"))
}

func TestRateLimitFunc(t *testing.T) {
	limiter := NewIPRateLimiter("test", 1, 1)

	handler := RateLimitFunc(limiter, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/ws", nil)
	req.RemoteAddr = "10.1.1.1:1234"

	w := httptest.NewRecorder()
	handler(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestGetIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1:5555", getIP(req))

	req.Header.Set("X-Real-IP", "1.2.3.4")
	assert.Equal(t, "1.2.3.4", getIP(req))

	req.Header.Set("X-Forwarded-For", "5.6.7.8")
	assert.Equal(t, "5.6.7.8", getIP(req))
}

func TestIPRateLimiter_Concurrency(t *testing.T) {
	limiter := NewIPRateLimiter("test", 100, 100)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			limiter.Allow("10.0.0.1")
			limiter.GetLimiter("10.0.0.2")
		}()
	}
	wg.Wait()
}
