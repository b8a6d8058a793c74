package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/GeoCluster-Insight/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/GeoCluster-Insight/pkg/errors"
)

// RateLimiter decides whether a request keyed by client identity may proceed.
type RateLimiter interface {
	Allow(key string) bool
}

// TokenBucketLimiter is an in-memory per-key token bucket. Each key refills
// at rps tokens per second up to burst; a request spends one token.
type TokenBucketLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rps     float64
	burst   float64
	now     func() time.Time

	maxIdle time.Duration
	lastGC  time.Time
}

type bucket struct {
	tokens float64
	last   time.Time
}

// NewTokenBucketLimiter constructs a TokenBucketLimiter.
func NewTokenBucketLimiter(rps float64, burst int) *TokenBucketLimiter {
	return &TokenBucketLimiter{
		buckets: make(map[string]*bucket),
		rps:     rps,
		burst:   float64(burst),
		now:     time.Now,
		maxIdle: 10 * time.Minute,
	}
}

// Allow implements RateLimiter.
func (l *TokenBucketLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.gcLocked(now)

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.burst, last: now}
		l.buckets[key] = b
	}

	b.tokens += now.Sub(b.last).Seconds() * l.rps
	if b.tokens > l.burst {
		b.tokens = l.burst
	}
	b.last = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// gcLocked drops buckets idle longer than maxIdle, at most once per minute,
// so the key space cannot grow without bound.
func (l *TokenBucketLimiter) gcLocked(now time.Time) {
	if now.Sub(l.lastGC) < time.Minute {
		return
	}
	l.lastGC = now
	for key, b := range l.buckets {
		if now.Sub(b.last) > l.maxIdle {
			delete(l.buckets, key)
		}
	}
}

// RateLimit rejects requests whose client IP exceeds the limiter's budget
// with a 429 response.
func RateLimit(limiter RateLimiter, logger logging.Logger) gin.HandlerFunc {
	log := logger.Named("ratelimit")
	return func(c *gin.Context) {
		key := c.ClientIP()
		if !limiter.Allow(key) {
			log.Warn("rate limit exceeded",
				logging.String("client_ip", key),
				logging.String("path", c.Request.URL.Path))
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    apperrors.ErrCodeTooManyRequests.String(),
				"message": "too many requests",
			})
			return
		}
		c.Next()
	}
}
