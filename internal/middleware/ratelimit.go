package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/mrmorrispmorris/dailymood/backend/internal/apierror"
	"github.com/mrmorrispmorris/dailymood/backend/internal/logger"
)

// RateLimitMetrics is the subset of the metrics recorder used by RateLimit
type RateLimitMetrics interface {
	ObserveRateLimited(limiter string)
}

// RateLimiter keeps one token bucket per key (user id or client IP). A
// janitor goroutine drops buckets idle for longer than idleTTL.
type RateLimiter struct {
	name      string
	perMinute int
	limit     rate.Limit
	idleTTL   time.Duration
	metrics   RateLimitMetrics

	mu      sync.Mutex
	clients map[string]*client

	stop     chan struct{}
	stopOnce sync.Once
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing perMinute requests per key with a
// burst of the same size. m may be nil.
func NewRateLimiter(name string, perMinute int, m RateLimitMetrics) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	rl := &RateLimiter{
		name:      name,
		perMinute: perMinute,
		limit:     rate.Every(time.Minute / time.Duration(perMinute)),
		idleTTL:   3 * time.Minute,
		metrics:   m,
		clients:   make(map[string]*client),
		stop:      make(chan struct{}),
	}

	go rl.janitor(time.Minute)

	logger.Debug("rate limiter initialized",
		logger.String("name", name),
		logger.Int("per_minute", perMinute),
	)
	return rl
}

// Stop ends the janitor goroutine
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			if cleaned := rl.sweep(now); cleaned > 0 {
				logger.Debug("rate limiter cleanup completed",
					logger.String("name", rl.name),
					logger.Int("cleaned", cleaned),
				)
			}
		}
	}
}

// sweep removes buckets not used since now-idleTTL and returns how many
func (rl *RateLimiter) sweep(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cleaned := 0
	for key, c := range rl.clients {
		if now.Sub(c.lastSeen) > rl.idleTTL {
			delete(rl.clients, key)
			cleaned++
		}
	}
	return cleaned
}

// allow consumes a token for key at now
func (rl *RateLimiter) allow(key string, now time.Time) bool {
	rl.mu.Lock()
	c, ok := rl.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rl.limit, rl.perMinute)}
		rl.clients[key] = c
	}
	c.lastSeen = now
	rl.mu.Unlock()

	return c.limiter.AllowN(now, 1)
}

// retryAfter is the wait in whole seconds until one token is available
func (rl *RateLimiter) retryAfter() int {
	secs := int((time.Minute / time.Duration(rl.perMinute)).Seconds())
	if secs < 1 {
		return 1
	}
	return secs
}

func (rl *RateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// RateLimit rejects requests over the limiter's budget with a 429 problem.
// Authenticated requests are keyed by user id, others by client IP.
func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if userID := UserID(c); userID != "" {
			key = "user:" + userID
		}

		if rl.allow(key, time.Now()) {
			c.Next()
			return
		}

		logger.Ctx(c.Request.Context()).Warn("rate limit exceeded",
			logger.String("limiter", rl.name),
			logger.String("key", key),
			logger.Int("per_minute", rl.perMinute),
		)
		if rl.metrics != nil {
			rl.metrics.ObserveRateLimited(rl.name)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.perMinute))
		c.Header("X-RateLimit-Remaining", "0")
		apierror.AbortWithProblem(c, apierror.NewRateLimitError(apierror.GetRequestID(c), rl.retryAfter()))
	}
}
