package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/turtacn/GeoCluster-Insight/internal/infrastructure/monitoring/logging"
)

func TestTokenBucketLimiterBurstAndRefill(t *testing.T) {
	current := time.Unix(1000, 0)
	l := NewTokenBucketLimiter(1, 2)
	l.now = func() time.Time { return current }

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"), "burst of 2 exhausted")

	// A different key has its own bucket.
	assert.True(t, l.Allow("b"))

	// One second refills one token at 1 rps.
	current = current.Add(time.Second)
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
}

func TestTokenBucketLimiterDropsIdleKeys(t *testing.T) {
	current := time.Unix(1000, 0)
	l := NewTokenBucketLimiter(1, 1)
	l.now = func() time.Time { return current }

	assert.True(t, l.Allow("a"))
	assert.Len(t, l.buckets, 1)

	current = current.Add(20 * time.Minute)
	assert.True(t, l.Allow("b"))
	_, stale := l.buckets["a"]
	assert.False(t, stale, "idle bucket collected")
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter := NewTokenBucketLimiter(0.001, 1)
	router := gin.New()
	router.Use(RateLimit(limiter, logging.NewNopLogger()))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(CORS())
	router.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLoggingPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestLogging(logging.NewNopLogger(), nil, "/healthz"))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/ok", "/healthz"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}
