package daemon

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RateLimiter throttles login attempts per client address with a token
// bucket: bursts up to burst requests, refilled at rate tokens per second.
// A non-positive rate disables it.
type RateLimiter struct {
	buckets       sync.Map // client address -> *bucket
	rate          float64
	burst         int
	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
	stopOnce      sync.Once
}

type bucket struct {
	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

func NewRateLimiter(rate float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}

	rl := &RateLimiter{
		rate:        rate,
		burst:       burst,
		stopCleanup: make(chan struct{}),
	}

	rl.cleanupTicker = time.NewTicker(5 * time.Minute)
	go rl.cleanup()

	logrus.WithFields(logrus.Fields{
		"rate":  rate,
		"burst": burst,
	}).Debugln("Login rate limiter initialized")

	return rl
}

func (rl *RateLimiter) Enabled() bool {
	return rl.rate > 0
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Enabled() {
			c.Next()
			return
		}

		ip := c.ClientIP()

		if !rl.Allow(ip) {
			logrus.WithFields(logrus.Fields{
				"ip":     ip,
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Warn("Login rate limit exceeded")

			respondError(c, http.StatusTooManyRequests, "too many login attempts, try again later")
			return
		}

		c.Next()
	}
}

// Allow refills the bucket for key by the time elapsed since its last use,
// capped at burst, and consumes one token if available.
func (rl *RateLimiter) Allow(key string) bool {
	now := time.Now()

	value, _ := rl.buckets.LoadOrStore(key, &bucket{
		tokens:     float64(rl.burst),
		lastRefill: now,
	})

	b := value.(*bucket)
	b.mu.Lock()
	defer b.mu.Unlock()

	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens = min(b.tokens+elapsed*rl.rate, float64(rl.burst))
	b.lastRefill = now

	if b.tokens >= 1.0 {
		b.tokens -= 1.0
		return true
	}

	return false
}

// cleanup drops buckets idle for ten minutes.
func (rl *RateLimiter) cleanup() {
	for {
		select {
		case <-rl.cleanupTicker.C:
			cutoff := time.Now().Add(-10 * time.Minute)
			count := 0

			rl.buckets.Range(func(key, value any) bool {
				b := value.(*bucket)
				b.mu.Lock()
				stale := b.lastRefill.Before(cutoff)
				b.mu.Unlock()

				if stale {
					rl.buckets.Delete(key)
					count++
				}
				return true
			})

			if count > 0 {
				logrus.WithField("count", count).Debug("Cleaned up stale rate limiter buckets")
			}

		case <-rl.stopCleanup:
			rl.cleanupTicker.Stop()
			return
		}
	}
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

// Size returns the number of tracked client addresses.
func (rl *RateLimiter) Size() int {
	count := 0
	rl.buckets.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}
