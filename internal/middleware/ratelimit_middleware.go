package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schedulepro/internal/app/models/dto"
	"github.com/yigit/schedulepro/internal/pkg/logger"
)

// RateLimiter enforces a fixed-window per-client-IP request limit. State is
// in-memory, so limits reset on restart and are per-instance.
type RateLimiter struct {
	mu      sync.Mutex
	perMin  int
	clients map[string]*clientWindow
}

type clientWindow struct {
	count   int
	resetAt time.Time
}

// NewRateLimiter creates a rate limiter allowing perMin requests per client
// IP per minute.
func NewRateLimiter(perMin int) *RateLimiter {
	return &RateLimiter{
		perMin:  perMin,
		clients: make(map[string]*clientWindow),
	}
}

// allow records one request for the client and reports whether it is within
// the limit.
func (r *RateLimiter) allow(clientIP string, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	window, ok := r.clients[clientIP]
	if !ok || now.After(window.resetAt) {
		r.clients[clientIP] = &clientWindow{count: 1, resetAt: now.Add(time.Minute)}
		return true
	}

	window.count++
	return window.count <= r.perMin
}

// Limit is the gin middleware enforcing the per-IP limit.
func (r *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		if !r.allow(clientIP, time.Now()) {
			logger.Warn().Str("clientIP", clientIP).Msg("Rate limit exceeded")
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeRateLimited, "Rate limit exceeded, try again later")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse(errorDetail))
			return
		}
		c.Next()
	}
}
