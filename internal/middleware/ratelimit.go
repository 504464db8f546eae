package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"bakery-storefront/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const visitorTTL = 3 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitorStore keeps one token bucket per client address. Stale entries are
// swept on access at most once per ttl, so no background goroutine is needed.
type visitorStore struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newVisitorStore(rps float64, burst int, ttl time.Duration) *visitorStore {
	return &visitorStore{
		visitors:  make(map[string]*visitor),
		limit:     rate.Limit(rps),
		burst:     burst,
		ttl:       ttl,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (s *visitorStore) limiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) > s.ttl {
		for k, v := range s.visitors {
			if now.Sub(v.lastSeen) > s.ttl {
				delete(s.visitors, k)
			}
		}
		s.lastSweep = now
	}

	v, ok := s.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter
}

func (s *visitorStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visitors)
}

// RateLimit throttles each client address to rps requests per second with
// the given burst and answers 429 RATE_LIMITED once the bucket is empty.
// A non-positive rps disables the limiter.
func RateLimit(rps float64, burst int, logger zerolog.Logger) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst < 1 {
		burst = 1
	}
	store := newVisitorStore(rps, burst, visitorTTL)
	log := logger.With().Str("middleware", "rate_limit").Logger()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !store.limiter(ip).Allow() {
				log.Warn().
					Str("ip", ip).
					Str("path", r.URL.Path).
					Msg("Rate limit exceeded")
				w.Header().Set("Retry-After", "1")
				writeError(w, r, http.StatusTooManyRequests, model.ErrCodeRateLimited, "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP relies on chi's RealIP having already rewritten RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
