package middleware

import (
	"net/http"
	"sync"
	"time"

	"medibook/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// rateLimiterStore holds a map of client IPs to their rate limiters.
type rateLimiterStore struct {
	limiters  map[string]*rate.Limiter
	perMinute int
	mu        sync.Mutex
}

// getLimiter returns the rate limiter for a given IP, creating one if it doesn't exist.
func (s *rateLimiterStore) getLimiter(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[ip]
	if !exists {
		// perMinute tokens refilled evenly over a minute, full minute as burst.
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMinute)), s.perMinute)
		s.limiters[ip] = limiter
	}
	return limiter
}

// RateLimitMiddleware limits requests per client IP to perMinute.
func RateLimitMiddleware(perMinute int, logger *zap.Logger) gin.HandlerFunc {
	if perMinute <= 0 {
		perMinute = 100
	}
	store := &rateLimiterStore{
		limiters:  make(map[string]*rate.Limiter),
		perMinute: perMinute,
	}
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !store.getLimiter(ip).Allow() {
			logger.Warn("Rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.SubmissionResult{
				Success: false,
				Error:   "Rate limit exceeded. Try again later.",
			})
			return
		}
		c.Next()
	}
}
