package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"bookstore/internal/auth"
	"bookstore/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Limiter hands out one token bucket per client id. Buckets idle for longer
// than expiry are dropped on a later call.
type Limiter struct {
	limit   rate.Limit
	burst   int
	expiry  time.Duration
	clients map[string]*clientLimiter
	mu      sync.Mutex
	swept   time.Time
	now     func() time.Time
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewLimiter creates a limiter allowing rps requests per second per client
// with bursts of up to burst.
func NewLimiter(rps float64, burst int, expiry time.Duration) *Limiter {
	return &Limiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		expiry:  expiry,
		clients: make(map[string]*clientLimiter),
		now:     time.Now,
	}
}

// Allow reports whether client id may make a request now.
func (l *Limiter) Allow(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	cl, ok := l.clients[id]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[id] = cl
	}
	cl.lastAccess = now

	return cl.limiter.AllowN(now, 1)
}

func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.swept) < l.expiry {
		return
	}
	for id, cl := range l.clients {
		if now.Sub(cl.lastAccess) > l.expiry {
			delete(l.clients, id)
		}
	}
	l.swept = now
}

// RateLimit throttles requests per authenticated user. It must run after
// auth.Authenticate; requests without an identity pass through.
func RateLimit(limiter *Limiter, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := auth.FromContext(r.Context())
			if ok && !limiter.Allow(id.UserID) {
				logger.Warn().
					Str("user_id", id.UserID).
					Str("path", r.URL.Path).
					Msg("rate limit exceeded")
				w.Header().Set("Retry-After", strconv.Itoa(1))
				writeError(w, r, http.StatusTooManyRequests, model.ErrCodeRateLimited, "too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
