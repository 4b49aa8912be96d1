package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/devlinb/EscapeRoom/internal/metrics"
)

// violationThreshold is the number of rate limit violations within an hour
// after which an IP is blocked, when auto-blocking is enabled.
const violationThreshold = 10

// RateLimit defines the limit for one route.
type RateLimit struct {
	Name     string // metrics label, e.g. "check_solution"
	Requests int
	Window   time.Duration
}

// RateLimiterConfig holds configuration for the rate limiter.
type RateLimiterConfig struct {
	Whitelist        []string // IPs or CIDRs exempt from rate limiting
	AutoBlockEnabled bool     // Enable auto-blocking after repeated violations
}

// RateLimiter implements per-IP fixed window rate limiting backed by Redis.
// A limiter without a Redis client lets every request through.
type RateLimiter struct {
	client           *redis.Client
	blocker          *IPBlocker
	logger           zerolog.Logger
	whitelist        []*net.IPNet
	whitelistIPs     map[string]bool
	autoBlockEnabled bool
}

// NewRateLimiter creates a new rate limiter. client may be nil.
func NewRateLimiter(client *redis.Client, logger zerolog.Logger, cfg RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		client:           client,
		logger:           logger,
		whitelistIPs:     make(map[string]bool),
		autoBlockEnabled: cfg.AutoBlockEnabled,
	}
	if client != nil {
		rl.blocker = NewIPBlocker(client)
	} else {
		logger.Warn().Msg("rate limiting disabled: no redis client")
	}

	// Parse whitelist entries
	for _, entry := range cfg.Whitelist {
		if strings.Contains(entry, "/") {
			// CIDR notation
			_, ipNet, err := net.ParseCIDR(entry)
			if err != nil {
				logger.Warn().Str("entry", entry).Err(err).Msg("invalid CIDR in whitelist")
				continue
			}
			rl.whitelist = append(rl.whitelist, ipNet)
		} else {
			// Single IP
			rl.whitelistIPs[entry] = true
		}
	}

	if len(cfg.Whitelist) > 0 {
		logger.Info().
			Int("ips", len(rl.whitelistIPs)).
			Int("cidrs", len(rl.whitelist)).
			Msg("rate limit whitelist configured")
	}

	return rl
}

// Enabled reports whether requests are counted at all.
func (rl *RateLimiter) Enabled() bool {
	return rl.client != nil
}

// isWhitelisted checks if an IP is in the whitelist.
func (rl *RateLimiter) isWhitelisted(ipStr string) bool {
	// Check exact IP match
	if rl.whitelistIPs[ipStr] {
		return true
	}

	// Check CIDR ranges
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}
	for _, ipNet := range rl.whitelist {
		if ipNet.Contains(ip) {
			return true
		}
	}
	return false
}

// RealIP extracts the real client IP from headers or connection.
func RealIP(r *http.Request) string {
	// Check Fly.io header first
	if ip := r.Header.Get("Fly-Client-IP"); ip != "" {
		return ip
	}
	// Then X-Forwarded-For
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return strings.TrimSpace(strings.Split(ip, ",")[0])
	}
	// Then X-Real-IP
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	// Fallback to RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// CheckAndIncrement checks rate limit and increments counter.
// Returns (allowed, remaining, resetAt).
func (rl *RateLimiter) CheckAndIncrement(ctx context.Context, key string, limit int, window time.Duration) (bool, int, time.Time) {
	now := time.Now()
	bucket := now.Unix() / int64(window.Seconds())
	windowKey := fmt.Sprintf("%s:%d", key, bucket)

	pipe := rl.client.TxPipeline()
	countCmd := pipe.Incr(ctx, windowKey)
	pipe.Expire(ctx, windowKey, window)

	if _, err := pipe.Exec(ctx); err != nil {
		// Fail open, the store is the source of truth for the game itself.
		rl.logger.Warn().Err(err).Str("key", key).Msg("rate limit check failed")
		return true, limit, now.Add(window)
	}

	count := countCmd.Val()
	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	resetAt := time.Unix((bucket+1)*int64(window.Seconds()), 0)
	return count <= int64(limit), remaining, resetAt
}

// Limit returns middleware enforcing limit per client IP.
func (rl *RateLimiter) Limit(limit RateLimit) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !rl.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := RealIP(r)

			// Skip rate limiting for whitelisted IPs
			if rl.isWhitelisted(ip) {
				next.ServeHTTP(w, r)
				return
			}

			// Check IP block first
			if rl.blocker.IsBlocked(r.Context(), ip) {
				metrics.BlockedRequests.WithLabelValues("ip_blocked").Inc()
				rl.logger.Warn().
					Str("type", "security").
					Str("event", "blocked_request").
					Str("ip", ip).
					Str("endpoint", limit.Name).
					Msg("blocked IP attempted request")
				jsonError(w, http.StatusForbidden, "temporarily blocked")
				return
			}

			key := "ratelimit:" + limit.Name + ":ip:" + ip
			allowed, remaining, resetAt := rl.CheckAndIncrement(r.Context(), key, limit.Requests, limit.Window)

			// Set rate limit headers
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit.Requests))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

			if !allowed {
				retry := int(time.Until(resetAt).Seconds())
				if retry < 1 {
					retry = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retry))

				metrics.RateLimitHits.WithLabelValues(limit.Name).Inc()
				rl.trackViolation(r.Context(), ip)

				rl.logger.Warn().
					Str("type", "security").
					Str("event", "rate_limit_exceeded").
					Str("ip", ip).
					Str("endpoint", limit.Name).
					Msg("rate limit exceeded")

				jsonError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// trackViolation tracks rate limit violations and auto-blocks repeat offenders.
func (rl *RateLimiter) trackViolation(ctx context.Context, ip string) {
	if !rl.autoBlockEnabled {
		return
	}

	key := fmt.Sprintf("violations:ip:%s", ip)
	count, err := rl.client.Incr(ctx, key).Result()
	if err != nil {
		return
	}
	rl.client.Expire(ctx, key, time.Hour)

	if count >= violationThreshold {
		rl.blocker.Block(ctx, ip, 24*time.Hour, "repeated rate limit violations")
		metrics.BlockedRequests.WithLabelValues("auto_block").Inc()
		rl.logger.Warn().
			Str("type", "security").
			Str("event", "ip_auto_blocked").
			Str("ip", ip).
			Int64("violations", count).
			Msg("IP auto-blocked for repeated violations")
	}
}

// IPBlocker manages temporary IP blocks.
type IPBlocker struct {
	client *redis.Client
}

// NewIPBlocker creates a new IP blocker.
func NewIPBlocker(client *redis.Client) *IPBlocker {
	return &IPBlocker{client: client}
}

func blockKey(ip string) string {
	return "blocked:ip:" + ip
}

// IsBlocked checks if an IP is blocked.
func (b *IPBlocker) IsBlocked(ctx context.Context, ip string) bool {
	exists, _ := b.client.Exists(ctx, blockKey(ip)).Result()
	return exists > 0
}

// Block blocks an IP for the specified duration.
func (b *IPBlocker) Block(ctx context.Context, ip string, duration time.Duration, reason string) {
	b.client.Set(ctx, blockKey(ip), reason, duration)
}

// Unblock removes an IP block.
func (b *IPBlocker) Unblock(ctx context.Context, ip string) {
	b.client.Del(ctx, blockKey(ip))
}
