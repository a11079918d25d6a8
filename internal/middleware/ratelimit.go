package middleware

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	apperrors "github.com/paiban/roster/pkg/errors"
)

// RateLimiter 滑动窗口请求频率限制器
type RateLimiter struct {
	requests map[string][]time.Time // key -> 请求时间
	limit    int                    // 时间窗口内最大请求数
	window   time.Duration          // 时间窗口
	now      func() time.Time
	mu       sync.Mutex
}

// NewRateLimiter 创建频率限制器
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// Allow 检查是否允许请求
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	valid := rl.prune(rl.requests[key], now.Add(-rl.window))
	if len(valid) >= rl.limit {
		rl.requests[key] = valid
		return false
	}
	rl.requests[key] = append(valid, now)
	return true
}

func (rl *RateLimiter) prune(reqs []time.Time, windowStart time.Time) []time.Time {
	valid := reqs[:0]
	for _, t := range reqs {
		if t.After(windowStart) {
			valid = append(valid, t)
		}
	}
	return valid
}

// Run 定期清理过期数据，直到 ctx 结束
func (rl *RateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.mu.Lock()
			windowStart := rl.now().Add(-rl.window)
			for key, reqs := range rl.requests {
				if valid := rl.prune(reqs, windowStart); len(valid) == 0 {
					delete(rl.requests, key)
				} else {
					rl.requests[key] = valid
				}
			}
			rl.mu.Unlock()
		}
	}
}

// RateLimit 按客户端IP限流的中间件
func RateLimit(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.Allow(clientIP(r)) {
				w.Header().Set("Retry-After", "1")
				writeError(w, apperrors.RateLimited())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
