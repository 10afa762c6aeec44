package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/lazarohernan/ezorder-backend/internal/apierror"
)

// In-memory sliding windows per client IP. Enough for a single server
// process; the counters are not shared across replicas.

type ventana struct {
	mu     sync.Mutex
	count  int
	cierre time.Time
}

type limiter struct {
	mu       sync.Mutex
	ventanas map[string]*ventana
	limit    int
	window   time.Duration
}

func newLimiter(limit int, window time.Duration) *limiter {
	l := &limiter{ventanas: make(map[string]*ventana), limit: limit, window: window}
	registrarParaPurga(l)
	return l
}

// permitir counts one request for the ip and reports whether it stays under
// the limit, plus when the current window closes.
func (l *limiter) permitir(ip string) (bool, time.Time) {
	l.mu.Lock()
	v, ok := l.ventanas[ip]
	if !ok {
		v = &ventana{}
		l.ventanas[ip] = v
	}
	l.mu.Unlock()

	v.mu.Lock()
	defer v.mu.Unlock()

	now := time.Now()
	if now.After(v.cierre) {
		v.count = 0
		v.cierre = now.Add(l.window)
	}
	v.count++
	return v.count <= l.limit, v.cierre
}

// LoginRateLimiter caps login attempts at 20 per minute per IP to slow down
// credential stuffing.
func LoginRateLimiter() gin.HandlerFunc {
	l := newLimiter(20, time.Minute)
	return func(c *gin.Context) {
		if ok, _ := l.permitir(c.ClientIP()); !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiados intentos de login. Intente en 1 minuto."))
			return
		}
		c.Next()
	}
}

// RateLimiter protects the whole API with a per-IP sliding window.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	l := newLimiter(limit, window)
	return func(c *gin.Context) {
		ok, cierre := l.permitir(c.ClientIP())
		if !ok {
			c.Header("Retry-After", cierre.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}

// Expired windows are dropped periodically so IPs that never come back do
// not accumulate forever.

const purgeInterval = 5 * time.Minute

var (
	purgaMu       sync.Mutex
	limiters      []*limiter
	purgaIniciada bool
)

func registrarParaPurga(l *limiter) {
	purgaMu.Lock()
	defer purgaMu.Unlock()
	limiters = append(limiters, l)
	if !purgaIniciada {
		purgaIniciada = true
		go purgarVentanas()
	}
}

func purgarVentanas() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		purgaMu.Lock()
		activos := make([]*limiter, len(limiters))
		copy(activos, limiters)
		purgaMu.Unlock()

		total := 0
		for _, l := range activos {
			l.mu.Lock()
			for ip, v := range l.ventanas {
				v.mu.Lock()
				if now.After(v.cierre) {
					delete(l.ventanas, ip)
					total++
				}
				v.mu.Unlock()
			}
			l.mu.Unlock()
		}
		if total > 0 {
			log.Debug().Int("ventanas_purgadas", total).Msg("rate limiter: ventanas expiradas eliminadas")
		}
	}
}
