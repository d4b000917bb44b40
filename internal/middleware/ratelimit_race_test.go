package middleware

import (
	"strconv"
	"sync"
	"testing"
	"time"
)

// TestRateLimiterConcurrentAccess verifies the rate limiter is safe under concurrent access.
// Run with: go test -race -count=1 ./internal/middleware/ -run TestRateLimiterConcurrentAccess
func TestRateLimiterConcurrentAccess(t *testing.T) {
	limiter := NewRateLimiter("test-concurrent", 100, nil)
	defer limiter.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(goroutineID int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				// Mix of a shared key and per-goroutine keys to stress both paths
				key := "ip:192.168.1.1"
				if j%3 == 0 {
					key = "ip:10.0.0." + strconv.Itoa(goroutineID%10)
				}
				limiter.allow(key, time.Now())
			}
		}(i)
	}
	wg.Wait()
}

// TestRateLimiterConcurrentWithSweep verifies no race between request handling and cleanup.
func TestRateLimiterConcurrentWithSweep(t *testing.T) {
	limiter := NewRateLimiter("test-sweep-race", 5, nil)
	defer limiter.Stop()
	limiter.idleTTL = 0

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				limiter.allow("ip:10.0.0."+strconv.Itoa(id%10), time.Now())
				if j%10 == 0 {
					limiter.sweep(time.Now().Add(time.Second))
				}
			}
		}(i)
	}
	wg.Wait()
}
