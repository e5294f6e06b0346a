package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"minimarket/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// window tracks one client's requests within a fixed window.
type window struct {
	count int
	end   time.Time
}

// Limiter is a per-IP fixed-window rate limiter.
type Limiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	msg     string
	entries map[string]*window
	now     func() time.Time
}

func NewLimiter(limit int, w time.Duration, msg string) *Limiter {
	return &Limiter{limit: limit, window: w, msg: msg, entries: make(map[string]*window), now: time.Now}
}

// LoginRateLimiter allows 20 login attempts per minute per IP.
func LoginRateLimiter() *Limiter {
	return NewLimiter(20, time.Minute, "Demasiados intentos de inicio de sesión. Intente en 1 minuto.")
}

// APIRateLimiter is the general limiter for every route.
func APIRateLimiter(limit int, w time.Duration) *Limiter {
	return NewLimiter(limit, w, "Demasiadas solicitudes. Intente nuevamente en un momento.")
}

// allow counts a request from key and reports whether it is within the limit.
func (l *Limiter) allow(key string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[key]
	if !ok || now.After(e.end) {
		e = &window{end: now.Add(l.window)}
		l.entries[key] = e
	}
	e.count++
	return e.count <= l.limit, e.end
}

func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, reset := l.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", reset.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.msg))
			return
		}
		c.Next()
	}
}

// Purge drops expired windows and returns how many were removed.
func (l *Limiter) Purge() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	n := 0
	for ip, e := range l.entries {
		if now.After(e.end) {
			delete(l.entries, ip)
			n++
		}
	}
	return n
}

// RunPurge calls Purge every interval until ctx is cancelled, so clients
// that never return do not accumulate.
func (l *Limiter) RunPurge(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := l.Purge(); n > 0 {
				log.Debug().Int("purged", n).Msg("rate limiter entries purged")
			}
		}
	}
}
