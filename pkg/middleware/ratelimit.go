package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"gynergy/pkg/metrics"
	"gynergy/pkg/ratelimit"
	"gynergy/pkg/utils"
)

// RateLimit applies rule per authenticated user, falling back to the client
// IP. It must run after JWTAuthMiddleware so rejected callers are never
// counted before authentication. A limiter failure lets the request through.
func RateLimit(limiter ratelimit.Limiter, scope string, rule ratelimit.Rule) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := c.GetString(ctxUserID)
		if subject == "" {
			subject = "ip:" + c.ClientIP()
		}

		d, err := limiter.Allow(c.Request.Context(), scope+":"+subject, rule)
		if err != nil {
			zap.L().Warn("rate limiter unavailable", zap.String("scope", scope), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rule.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))

		if !d.Allowed {
			metrics.RecordRateLimited(scope)
			utils.HandleServiceError(c, &utils.RateLimitError{
				Limit:      rule.Limit,
				Unit:       rule.Unit,
				Window:     rule.Window,
				RetryAfter: d.RetryAfter,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPThrottle is a per-client-IP token bucket for public endpoints.
type IPThrottle struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     rate.Limit
	burst    int
	now      func() time.Time
}

func NewIPThrottle(rps float64, burst int) *IPThrottle {
	return &IPThrottle{
		visitors: make(map[string]*visitor),
		rate:     rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
	}
}

func (t *IPThrottle) limiter(ip string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	v, ok := t.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(t.rate, t.burst)}
		t.visitors[ip] = v
	}
	v.lastSeen = t.now()
	return v.limiter
}

func (t *IPThrottle) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !t.limiter(c.ClientIP()).AllowN(t.now(), 1) {
			metrics.RecordRateLimited("public")
			c.Header("Retry-After", "1")
			utils.HandleServiceError(c, utils.ErrRateLimited)
			c.Abort()
			return
		}
		c.Next()
	}
}

// Cleanup forgets clients idle for longer than maxIdle.
func (t *IPThrottle) Cleanup(maxIdle time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := t.now().Add(-maxIdle)
	for ip, v := range t.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(t.visitors, ip)
		}
	}
}
