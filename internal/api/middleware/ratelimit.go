package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/config"
)

const (
	limiterCleanupInterval = 10 * time.Minute
	limiterIdleTimeout     = 30 * time.Minute
)

// clientLimiter stores the rate limiter for a specific client.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterMiddleware applies a token bucket per client IP.
type RateLimiterMiddleware struct {
	clients map[string]*clientLimiter
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
}

// NewRateLimiterMiddleware creates a new RateLimiterMiddleware. Idle client
// entries are dropped in the background until ctx is cancelled.
func NewRateLimiterMiddleware(ctx context.Context, cfg *config.Config) *RateLimiterMiddleware {
	rm := &RateLimiterMiddleware{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(cfg.RateLimitRefillRate),
		burst:   cfg.RateLimitBucketSize,
	}
	go rm.cleanupClients(ctx)
	return rm
}

// getClientLimiter retrieves or creates the limiter for a client.
func (rm *RateLimiterMiddleware) getClientLimiter(key string) *rate.Limiter {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	cl, exists := rm.clients[key]
	if !exists {
		cl = &clientLimiter{limiter: rate.NewLimiter(rm.limit, rm.burst)}
		rm.clients[key] = cl
	}
	cl.lastSeen = time.Now()
	return cl.limiter
}

func (rm *RateLimiterMiddleware) cleanupClients(ctx context.Context) {
	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rm.evictIdle(time.Now()); n > 0 {
				zap.L().Debug("rate limiter cleanup", zap.Int("removed", n))
			}
		}
	}
}

// evictIdle removes clients not seen within limiterIdleTimeout of now.
func (rm *RateLimiterMiddleware) evictIdle(now time.Time) int {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	count := 0
	for key, cl := range rm.clients {
		if now.Sub(cl.lastSeen) > limiterIdleTimeout {
			delete(rm.clients, key)
			count++
		}
	}
	return count
}

// Limit creates the Gin middleware handler.
func (rm *RateLimiterMiddleware) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientKey := c.ClientIP()
		if !rm.getClientLimiter(clientKey).Allow() {
			LoggerFromContext(c).Warn("rate limit exceeded", zap.String("client", clientKey), zap.String("path", c.FullPath()))
			abortJSON(c, http.StatusTooManyRequests, "Too many requests, please try again later")
			return
		}
		c.Next()
	}
}
