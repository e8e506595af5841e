package middleware

import (
	"context"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"github.com/mushroomhunter/backend/config"
	"github.com/mushroomhunter/backend/pkg/errorx"
	"github.com/mushroomhunter/backend/pkg/router"
	"github.com/mushroomhunter/backend/pkg/xcontext"
	"github.com/puzpuzpuz/xsync"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter      *rate.Limiter
	lastSeenNano atomic.Int64
}

// RateLimiter keeps one token bucket per client address.
type RateLimiter struct {
	cfg      config.RateLimitConfigs
	visitors *xsync.MapOf[string, *visitor]
}

func NewRateLimiter(cfg config.RateLimitConfigs) *RateLimiter {
	return &RateLimiter{cfg: cfg, visitors: xsync.NewMapOf[*visitor]()}
}

func (l *RateLimiter) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if l.cfg.Rate <= 0 {
			return ctx, nil
		}

		ip := clientIP(ctx)
		v, _ := l.visitors.LoadOrCompute(ip, func() *visitor {
			return &visitor{limiter: rate.NewLimiter(rate.Limit(l.cfg.Rate), l.cfg.Burst)}
		})
		v.lastSeenNano.Store(time.Now().UnixNano())

		if !v.limiter.Allow() {
			return ctx, errorx.New(errorx.TooManyRequests, "Too many requests")
		}

		return ctx, nil
	}
}

// Cleanup removes the clients which have been idle longer than idle. It
// blocks until ctx is done.
func (l *RateLimiter) Cleanup(ctx context.Context, idle time.Duration) {
	ticker := time.NewTicker(idle)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.visitors.Range(func(ip string, v *visitor) bool {
				if time.Since(time.Unix(0, v.lastSeenNano.Load())) > idle {
					l.visitors.Delete(ip)
				}
				return true
			})
		}
	}
}

func clientIP(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)
	if forwarded := req.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}

	ip, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}

	return ip
}
