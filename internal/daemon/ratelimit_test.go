package daemon

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_AllowWithinBurst(t *testing.T) {
	rl := NewRateLimiter(5.0, 10)
	defer rl.Stop()

	for i := 0; i < 10; i++ {
		assert.True(t, rl.Allow("192.168.1.1"), "Request %d should be allowed within burst", i+1)
	}
	assert.False(t, rl.Allow("192.168.1.1"), "Request exceeding burst should be denied")
}

func TestRateLimiter_RefillTokens(t *testing.T) {
	rl := NewRateLimiter(5.0, 2)
	defer rl.Stop()

	assert.True(t, rl.Allow("192.168.1.1"))
	assert.True(t, rl.Allow("192.168.1.1"))
	assert.False(t, rl.Allow("192.168.1.1"))

	// 200ms is one token at 5 tokens/second
	time.Sleep(220 * time.Millisecond)

	assert.True(t, rl.Allow("192.168.1.1"))
	assert.False(t, rl.Allow("192.168.1.1"))
}

func TestRateLimiter_IndependentKeys(t *testing.T) {
	rl := NewRateLimiter(1.0, 1)
	defer rl.Stop()

	assert.True(t, rl.Allow("192.168.1.1"))
	assert.False(t, rl.Allow("192.168.1.1"))
	assert.True(t, rl.Allow("192.168.1.2"))
	assert.Equal(t, 2, rl.Size())
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := &RateLimiter{
		rate:        5.0,
		burst:       10,
		stopCleanup: make(chan struct{}),
	}
	rl.cleanupTicker = time.NewTicker(50 * time.Millisecond)
	go rl.cleanup()
	defer rl.Stop()

	rl.Allow("192.168.1.1")
	assert.Equal(t, 1, rl.Size())

	value, _ := rl.buckets.Load("192.168.1.1")
	b := value.(*bucket)
	b.mu.Lock()
	b.lastRefill = time.Now().Add(-15 * time.Minute)
	b.mu.Unlock()

	assert.Eventually(t, func() bool { return rl.Size() == 0 }, time.Second, 20*time.Millisecond)
}

func TestRateLimiter_StopTwice(t *testing.T) {
	rl := NewRateLimiter(5.0, 10)
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}

func TestRateLimiter_ConcurrentAccess(t *testing.T) {
	rl := NewRateLimiter(100.0, 200)
	defer rl.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rl.Allow("192.168.1.1")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, rl.Size())
}

func TestRateLimiter_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		rate     float64
		burst    int
		requests int
		lastCode int
	}{
		{name: "within burst", rate: 1, burst: 3, requests: 3, lastCode: http.StatusOK},
		{name: "over burst", rate: 1, burst: 2, requests: 3, lastCode: http.StatusTooManyRequests},
		{name: "disabled", rate: 0, burst: 1, requests: 5, lastCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewRateLimiter(tt.rate, tt.burst)
			defer rl.Stop()

			router := gin.New()
			router.POST("/login", rl.Middleware(), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			var w *httptest.ResponseRecorder
			for i := 0; i < tt.requests; i++ {
				w = httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodPost, "/login", nil)
				req.RemoteAddr = "10.0.0.1:1234"
				router.ServeHTTP(w, req)
			}

			assert.Equal(t, tt.lastCode, w.Code)
			if tt.lastCode == http.StatusTooManyRequests {
				assert.JSONEq(t, `{"message":"too many login attempts, try again later"}`, w.Body.String())
			}
		})
	}
}
