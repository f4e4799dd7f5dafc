package middleware

// Sliding-window per-IP limiters. The kiosk limiter is the interesting one:
// movement endpoints authenticate with a short numeric code, so throttling
// per IP is the brute-force mitigation for the PIN space.

import (
	"net/http"
	"sync"
	"time"

	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type windowEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

// ipLimiter tracks request counts per client IP in fixed windows.
type ipLimiter struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	limit   int
	window  time.Duration
	mensaje string
}

func newIPLimiter(limit int, window time.Duration, mensaje string) *ipLimiter {
	l := &ipLimiter{
		entries: make(map[string]*windowEntry),
		limit:   limit,
		window:  window,
		mensaje: mensaje,
	}
	go l.purgeLoop()
	return l
}

func (l *ipLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		l.mu.Lock()
		entry, exists := l.entries[ip]
		if !exists {
			entry = &windowEntry{}
			l.entries[ip] = entry
		}
		l.mu.Unlock()

		entry.mu.Lock()
		defer entry.mu.Unlock()

		now := time.Now()
		if now.After(entry.windowEnd) {
			entry.count = 0
			entry.windowEnd = now.Add(l.window)
		}

		entry.count++
		if entry.count > l.limit {
			c.Header("Retry-After", entry.windowEnd.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.mensaje))
			return
		}
		c.Next()
	}
}

const purgeInterval = 5 * time.Minute

// purgeLoop removes expired entries so IPs that never return don't
// accumulate forever.
func (l *ipLimiter) purgeLoop() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		purged := 0

		l.mu.Lock()
		for ip, entry := range l.entries {
			entry.mu.Lock()
			if now.After(entry.windowEnd) {
				delete(l.entries, ip)
				purged++
			}
			entry.mu.Unlock()
		}
		remaining := len(l.entries)
		l.mu.Unlock()

		if purged > 0 {
			log.Debug().
				Int("purged", purged).
				Int("remaining", remaining).
				Msg("rate limiter entries purged")
		}
	}
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	l := newIPLimiter(20, time.Minute, "Demasiados intentos de login. Intente en 1 minuto.")
	return l.middleware()
}

// RateLimiter returns a general sliding-window limiter, used on the kiosk
// movement endpoints among others.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	l := newIPLimiter(limit, window, "Demasiadas solicitudes. Intente nuevamente en un momento.")
	return l.middleware()
}
