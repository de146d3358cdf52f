package http

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// CORSMiddleware allows browser clients from the configured origins.
// Entries ending in "*" match any origin with that prefix.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return isAllowedOrigin(origin, allowedOrigins)
		},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Requested-With", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           time.Hour,
	})
}

// isAllowedOrigin checks if the origin is in the allowed list
func isAllowedOrigin(origin string, allowedOrigins []string) bool {
	if origin == "" {
		return false
	}
	for _, allowed := range allowedOrigins {
		if strings.HasSuffix(allowed, "*") {
			prefix := strings.TrimSuffix(allowed, "*")
			if strings.HasPrefix(origin, prefix) {
				return true
			}
		} else if origin == allowed {
			return true
		}
	}
	return false
}

// RequestIDMiddleware tags every request with an X-Request-ID
func RequestIDMiddleware() gin.HandlerFunc {
	return requestid.New()
}

// LoggerMiddleware writes one access log line per request
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", requestid.Get(c)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("request completed", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			logger.Warn("request completed", fields...)
		default:
			logger.Info("request completed", fields...)
		}
	}
}

// RecoveryMiddleware recovers from panics and answers 500
func RecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", requestid.Get(c)),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	})
}

// limiterIdleAfter is how long a client may stay silent before its bucket is
// dropped. A bucket refills completely within a minute, so a dropped client
// comes back to the same state it would have had.
const limiterIdleAfter = 2 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipRateLimiter hands out one token bucket per client IP
type ipRateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*clientLimiter
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func newIPRateLimiter(perMinute int) *ipRateLimiter {
	return &ipRateLimiter{
		limiters:  make(map[string]*clientLimiter),
		limit:     rate.Every(time.Minute / time.Duration(perMinute)),
		burst:     perMinute,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (l *ipRateLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= limiterIdleAfter {
		l.removeIdle(now)
	}

	client, ok := l.limiters[ip]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = client
	}
	client.lastSeen = now
	return client.limiter
}

// removeIdle drops buckets of clients not seen for limiterIdleAfter.
// Caller holds mu.
func (l *ipRateLimiter) removeIdle(now time.Time) {
	for ip, client := range l.limiters {
		if now.Sub(client.lastSeen) >= limiterIdleAfter {
			delete(l.limiters, ip)
		}
	}
	l.lastSweep = now
}

// RateLimitMiddleware rejects clients exceeding perMinute requests.
// A non-positive limit disables it.
func RateLimitMiddleware(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiters := newIPRateLimiter(perMinute)
	return func(c *gin.Context) {
		if !limiters.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
