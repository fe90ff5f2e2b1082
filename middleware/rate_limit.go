package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/cppla/missionboard/utils"
)

const limiterIdleTTL = 5 * time.Minute

type rateLimiter struct {
	limiter *rate.Limiter
	expires time.Time
}

// ipLimiters keeps one token bucket per client IP.
type ipLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rateLimiter
	limit    rate.Limit
	burst    int
}

// RateLimitMiddleware applies an IP based token bucket allowing perMinute
// requests per minute with a burst of half that.
func RateLimitMiddleware(perMinute int) gin.HandlerFunc {
	perMinute = max(perMinute, 1)
	l := &ipLimiters{
		limiters: map[string]*rateLimiter{},
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    max(perMinute/2, 1),
	}

	return func(ctx *gin.Context) {
		if !l.get(ctx.ClientIP()).Allow() {
			utils.Error(ctx, http.StatusTooManyRequests, 42901, "요청이 너무 많습니다. 잠시 후 다시 시도해주세요.")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

func (l *ipLimiters) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for k, rl := range l.limiters {
		if now.After(rl.expires) {
			delete(l.limiters, k)
		}
	}

	if rl, ok := l.limiters[key]; ok {
		rl.expires = now.Add(limiterIdleTTL)
		return rl.limiter
	}

	rl := &rateLimiter{
		limiter: rate.NewLimiter(l.limit, l.burst),
		expires: now.Add(limiterIdleTTL),
	}
	l.limiters[key] = rl
	return rl.limiter
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
