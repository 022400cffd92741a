package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterTTL is how long an idle client keeps its limiter entry before the
// cleanup sweep drops it.
const limiterTTL = 15 * time.Minute

// LoginRateLimit throttles credential submissions per client address.
// perMinute <= 0 disables the limiter.
func LoginRateLimit(perMinute int) func(http.Handler) http.Handler {
	store := &limiterStore{
		limit:    rate.Every(time.Minute / time.Duration(max(perMinute, 1))),
		burst:    max(perMinute, 1),
		ttl:      limiterTTL,
		limiters: make(map[string]*limiterEntry),
	}
	if perMinute > 0 {
		go store.cleanupLoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if perMinute <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			if !store.limiter(clientKey(r)).Allow() {
				w.Header().Set("Retry-After", "60")
				w.Header().Set("Content-Type", "application/problem+json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"type":"about:blank","title":"Too many login attempts","status":429}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type limiterStore struct {
	limit rate.Limit
	burst int
	ttl   time.Duration

	mu       sync.Mutex
	limiters map[string]*limiterEntry
}

func (s *limiterStore) limiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.limiters[key]; ok {
		entry.lastSeen = time.Now()
		return entry.limiter
	}
	entry := &limiterEntry{
		limiter:  rate.NewLimiter(s.limit, s.burst),
		lastSeen: time.Now(),
	}
	s.limiters[key] = entry
	return entry.limiter
}

// cleanupLoop periodically drops limiter entries for clients not seen
// within the TTL, keeping the map bounded.
func (s *limiterStore) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.cleanup()
	}
}

func (s *limiterStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, entry := range s.limiters {
		if now.Sub(entry.lastSeen) > s.ttl {
			delete(s.limiters, key)
		}
	}
}

func clientKey(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if first, _, ok := strings.Cut(forwarded, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(forwarded)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
