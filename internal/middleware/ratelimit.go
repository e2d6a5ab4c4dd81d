package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/pkordes/tripplanner/internal/apierror"
)

// RateLimiter limits requests per client IP with a token bucket per IP.
// Idle buckets are evicted after ten minutes, and at most maxClients are kept.
type RateLimiter struct {
	perMinute int

	mu      sync.Mutex // serialises get-or-create so one IP never gets two buckets
	buckets *expirable.LRU[string, *rate.Limiter]
}

const maxClients = 10_000

// NewRateLimiter allows perMinute requests per IP, with bursts up to perMinute.
func NewRateLimiter(perMinute int) *RateLimiter {
	return &RateLimiter{
		perMinute: perMinute,
		buckets:   expirable.NewLRU[string, *rate.Limiter](maxClients, nil, 10*time.Minute),
	}
}

// Limit is the middleware. It keys on r.RemoteAddr, so wire it after
// chimiddleware.RealIP when running behind a proxy.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.limiter(clientIP(r)).Allow() {
			retry := int(math.Ceil(60.0 / float64(rl.perMinute)))
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			apierror.Write(w, http.StatusTooManyRequests,
				apierror.New(apierror.CodeRateLimited, "too many requests, please slow down"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if l, ok := rl.buckets.Get(ip); ok {
		return l
	}
	l := rate.NewLimiter(rate.Every(time.Minute/time.Duration(rl.perMinute)), rl.perMinute)
	rl.buckets.Add(ip, l)
	return l
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
