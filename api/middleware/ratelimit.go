package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/usesift/sift/config"
	"github.com/usesift/sift/models"
)

const (
	limiterIdleTTL    = time.Hour
	limiterSweepEvery = 5 * time.Minute
)

// limiterPool hands out one token bucket per caller identity and evicts
// buckets idle past limiterIdleTTL so the map cannot grow unbounded.
type limiterPool struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rps     float64
	burst   int
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func (p *limiterPool) get(identity string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	b, ok := p.buckets[identity]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(p.rps), p.burst)}
		p.buckets[identity] = b
	}
	b.lastSeen = time.Now()
	return b.limiter
}

func (p *limiterPool) sweep() {
	ticker := time.NewTicker(limiterSweepEvery)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-limiterIdleTTL)
		p.mu.Lock()
		for id, b := range p.buckets {
			if b.lastSeen.Before(cutoff) {
				delete(p.buckets, id)
			}
		}
		p.mu.Unlock()
	}
}

// RateLimit returns token-bucket rate limiting middleware backed by
// golang.org/x/time/rate. The bucket identity is the API key set by the
// auth middleware, or the client IP when requests are unauthenticated.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	pool := &limiterPool{
		buckets: make(map[string]*bucket),
		rps:     cfg.RequestsPerSecond,
		burst:   cfg.Burst,
	}
	go pool.sweep()

	return func(c *gin.Context) {
		identity, ok := c.Get("api_key")
		if !ok {
			identity = c.ClientIP()
		}

		if !pool.get(identity.(string)).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ScrapeResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeRateLimited,
					Message: "rate limit exceeded, please slow down",
				},
			})
			return
		}

		c.Next()
	}
}
