package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Kosench/go-article-counter/internal/cache"
)

func tooManyRequests(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":   "rate_limit_exceeded",
		"message": "Too many requests. Please try again later.",
	})
}

// RedisRateLimit counts requests per client IP in fixed windows shared by all
// replicas. Redis errors let the request through.
func RedisRateLimit(limiter cache.RateLimiter, maxRequests int, window time.Duration, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		count, err := limiter.IncrementRateLimit(c.Request.Context(), c.ClientIP(), window)
		if err != nil {
			log.Warn("rate limit check failed", zap.Error(err))
			c.Next()
			return
		}

		if count > int64(maxRequests) {
			tooManyRequests(c)
			return
		}

		c.Next()
	}
}

type clientLimiter struct {
	limiter *rate.Limiter
	expires time.Time
}

// LocalRateLimiter is a per-process token bucket per client IP, used when no
// Redis is configured.
type LocalRateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	now       func() time.Time
	lastSweep time.Time
}

func NewLocalRateLimiter(maxRequests int, window time.Duration) *LocalRateLimiter {
	if maxRequests < 1 {
		maxRequests = 1
	}
	return &LocalRateLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Every(window / time.Duration(maxRequests)),
		burst:   maxRequests,
		idleTTL: 5 * window,
		now:     time.Now,
	}
}

func (l *LocalRateLimiter) Allow(clientIP string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > l.idleTTL {
		for ip, cl := range l.clients {
			if now.After(cl.expires) {
				delete(l.clients, ip)
			}
		}
		l.lastSweep = now
	}

	cl, ok := l.clients[clientIP]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[clientIP] = cl
	}
	cl.expires = now.Add(l.idleTTL)

	return cl.limiter.AllowN(now, 1)
}

func LocalRateLimit(l *LocalRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		if !l.Allow(c.ClientIP()) {
			tooManyRequests(c)
			return
		}

		c.Next()
	}
}
