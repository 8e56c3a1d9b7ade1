// Package middleware provides the HTTP middleware shopfront wires in
// internal/kernel.
package middleware

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/shashiranjanraj/shopfront/config"
	"github.com/shashiranjanraj/shopfront/pkg/logger"
	"github.com/shashiranjanraj/shopfront/pkg/metrics"
	"github.com/shashiranjanraj/shopfront/pkg/response"
)

// Limiter decides whether the caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Name() string
}

// ─── memory driver ───────────────────────────────────────────────────────────

type visitor struct {
	lim  *rate.Limiter
	seen time.Time
}

// MemoryLimiter keeps one token bucket per key in process memory.
type MemoryLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	every    rate.Limit
	burst    int
	idle     time.Duration
}

// NewMemoryLimiter allows perMinute requests per key with a burst of the
// same size. Buckets idle for longer than idle are evicted by Sweep.
func NewMemoryLimiter(perMinute int, idle time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		visitors: make(map[string]*visitor),
		every:    rate.Limit(float64(perMinute) / 60),
		burst:    perMinute,
		idle:     idle,
	}
}

func (m *MemoryLimiter) Name() string { return "memory" }

func (m *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	v, ok := m.visitors[key]
	if !ok {
		v = &visitor{lim: rate.NewLimiter(m.every, m.burst)}
		m.visitors[key] = v
	}
	v.seen = time.Now()
	m.mu.Unlock()

	return v.lim.Allow(), nil
}

// Sweep drops idle buckets.
func (m *MemoryLimiter) Sweep() {
	cutoff := time.Now().Add(-m.idle)
	m.mu.Lock()
	for k, v := range m.visitors {
		if v.seen.Before(cutoff) {
			delete(m.visitors, k)
		}
	}
	m.mu.Unlock()
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *MemoryLimiter) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// ─── redis driver ────────────────────────────────────────────────────────────

// RedisLimiter is a fixed-window counter shared by every replica.
type RedisLimiter struct {
	rdb    redis.UniversalClient
	limit  int64
	window time.Duration
	prefix string
}

func NewRedisLimiter(rdb redis.UniversalClient, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, limit: int64(limit), window: window, prefix: "shopfront:ratelimit:"}
}

func (l *RedisLimiter) Name() string { return "redis" }

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	slot := time.Now().UnixNano() / int64(l.window)
	k := l.prefix + key + ":" + strconv.FormatInt(slot, 10)

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, err
	}
	return incr.Val() <= l.limit, nil
}

// ─── middleware ──────────────────────────────────────────────────────────────

// RateLimit rejects callers over their limit with 429. Limiter errors are
// logged and the request is let through.
func RateLimit(l Limiter) func(http.Handler) http.Handler {
	trusted := trustedProxies()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, err := l.Allow(r.Context(), clientIP(r, trusted))
			if err != nil {
				logger.WithCtx(r.Context()).Warn("rate limit: limiter error", "driver", l.Name(), "error", err)
			}
			if !ok {
				metrics.RateLimited.WithLabelValues(l.Name()).Inc()
				w.Header().Set("Retry-After", "60")
				response.TooManyRequests(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// trustedProxies parses TRUSTED_PROXIES. Entries that are neither an IP nor
// a CIDR are logged and skipped.
func trustedProxies() []netip.Prefix {
	var out []netip.Prefix
	for _, entry := range config.TrustedProxies() {
		if p, err := netip.ParsePrefix(entry); err == nil {
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			logger.Warn("ignoring bad TRUSTED_PROXIES entry", "entry", entry)
			continue
		}
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out
}

// clientIP is the peer address, or the forwarded client address when the
// peer is a trusted proxy.
func clientIP(r *http.Request, trusted []netip.Prefix) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if !isTrusted(host, trusted) {
		return host
	}

	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-Ip")); ip != "" {
		return ip
	}
	return host
}

func isTrusted(host string, trusted []netip.Prefix) bool {
	if len(trusted) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
