// Package ratelimit throttles password logins and self-service registration.
package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Clock interface for testing time-dependent behavior.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Config holds rate limit configuration.
type Config struct {
	LoginMaxFailures  int           // Failed logins per email before lockout (default: 5)
	LoginLockout      time.Duration // Lockout after max failures (default: 15m)
	LoginMaxIPPerHour int           // Login attempts per IP per hour (default: 30)

	RegisterMaxIPPerHour int // Registrations per IP per hour (default: 10)

	// Clock for testing (nil uses real time)
	Clock Clock
}

// DefaultConfig returns production-ready defaults.
func DefaultConfig() *Config {
	return &Config{
		LoginMaxFailures:     5,
		LoginLockout:         15 * time.Minute,
		LoginMaxIPPerHour:    30,
		RegisterMaxIPPerHour: 10,
	}
}

// LimitResult contains the result of a rate limit check.
type LimitResult struct {
	Allowed    bool
	RetryAfter time.Duration
	Reason     string // For logging
}

const cleanupInterval = 5 * time.Minute

type entry struct {
	count    int
	firstAt  time.Time // First attempt in window
	lastAt   time.Time
	lockedAt time.Time // Zero unless locked out
}

type Limiter struct {
	config *Config
	clock  Clock
	mu     sync.RWMutex
	// Keyed by hash of email or IP
	failuresByEmail map[string]*entry
	loginByIP       map[string]*entry
	registerByIP    map[string]*entry

	cleanupCtx    context.Context
	cleanupCancel context.CancelFunc
	cleanupOnce   sync.Once
	cleanupWg     sync.WaitGroup
}

func New(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = realClock{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Limiter{
		config:          cfg,
		clock:           clock,
		failuresByEmail: make(map[string]*entry),
		loginByIP:       make(map[string]*entry),
		registerByIP:    make(map[string]*entry),
		cleanupCtx:      ctx,
		cleanupCancel:   cancel,
	}
}

// Close stops the cleanup goroutine.
func (l *Limiter) Close() {
	l.cleanupCancel()
	l.cleanupWg.Wait()
}

// CheckLogin reports whether a login attempt may proceed. It does not record
// the attempt.
func (l *Limiter) CheckLogin(email, ip string) LimitResult {
	l.startCleanup()
	now := l.clock.Now()
	emailKey := hashKey("login:email:", normalizeEmail(email))
	ipKey := hashKey("login:ip:", ip)

	l.mu.RLock()
	defer l.mu.RUnlock()

	if e := l.failuresByEmail[emailKey]; e != nil && !e.lockedAt.IsZero() {
		if elapsed := now.Sub(e.lockedAt); elapsed < l.config.LoginLockout {
			return LimitResult{
				Allowed:    false,
				RetryAfter: l.config.LoginLockout - elapsed,
				Reason:     "lockout",
			}
		}
	}

	if e := l.loginByIP[ipKey]; e != nil {
		if now.Sub(e.firstAt) < time.Hour && e.count >= l.config.LoginMaxIPPerHour {
			return LimitResult{
				Allowed:    false,
				RetryAfter: time.Hour - now.Sub(e.firstAt),
				Reason:     "ip_hourly_limit",
			}
		}
	}

	return LimitResult{Allowed: true}
}

// RecordLoginAttempt counts an attempt against the client IP.
func (l *Limiter) RecordLoginAttempt(ip string) {
	now := l.clock.Now()
	ipKey := hashKey("login:ip:", ip)

	l.mu.Lock()
	defer l.mu.Unlock()
	bumpWindow(l.loginByIP, ipKey, now)
}

// RecordLoginFailure counts a wrong password for email. It returns true when
// this failure starts a lockout.
func (l *Limiter) RecordLoginFailure(email string) (lockedOut bool) {
	now := l.clock.Now()
	emailKey := hashKey("login:email:", normalizeEmail(email))

	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.failuresByEmail[emailKey]
	switch {
	case e == nil:
		e = &entry{count: 1, firstAt: now, lastAt: now}
		l.failuresByEmail[emailKey] = e
	case !e.lockedAt.IsZero() && now.Sub(e.lockedAt) >= l.config.LoginLockout:
		// Lockout expired, start over
		e = &entry{count: 1, firstAt: now, lastAt: now}
		l.failuresByEmail[emailKey] = e
	default:
		e.count++
		e.lastAt = now
	}

	if e.count >= l.config.LoginMaxFailures && e.lockedAt.IsZero() {
		e.lockedAt = now
		lockedOut = true
	}
	return lockedOut
}

// ResetLogin clears the failure counter after a successful login.
func (l *Limiter) ResetLogin(email string) {
	emailKey := hashKey("login:email:", normalizeEmail(email))
	l.mu.Lock()
	delete(l.failuresByEmail, emailKey)
	l.mu.Unlock()
}

// CheckRegister reports whether ip may register another account this hour.
func (l *Limiter) CheckRegister(ip string) LimitResult {
	l.startCleanup()
	now := l.clock.Now()
	ipKey := hashKey("register:ip:", ip)

	l.mu.RLock()
	defer l.mu.RUnlock()

	if e := l.registerByIP[ipKey]; e != nil {
		if now.Sub(e.firstAt) < time.Hour && e.count >= l.config.RegisterMaxIPPerHour {
			return LimitResult{
				Allowed:    false,
				RetryAfter: time.Hour - now.Sub(e.firstAt),
				Reason:     "ip_hourly_limit",
			}
		}
	}
	return LimitResult{Allowed: true}
}

func (l *Limiter) RecordRegister(ip string) {
	now := l.clock.Now()
	ipKey := hashKey("register:ip:", ip)

	l.mu.Lock()
	defer l.mu.Unlock()
	bumpWindow(l.registerByIP, ipKey, now)
}

// bumpWindow increments a one-hour fixed window. Caller holds the lock.
func bumpWindow(m map[string]*entry, key string, now time.Time) {
	e := m[key]
	if e == nil || now.Sub(e.firstAt) >= time.Hour {
		m[key] = &entry{count: 1, firstAt: now, lastAt: now}
		return
	}
	e.count++
	e.lastAt = now
}

func hashKey(prefix, value string) string {
	hash := sha256.Sum256([]byte(value))
	return prefix + hex.EncodeToString(hash[:8])
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (l *Limiter) startCleanup() {
	l.cleanupOnce.Do(func() {
		l.cleanupWg.Add(1)
		go func() {
			defer l.cleanupWg.Done()
			ticker := time.NewTicker(cleanupInterval)
			defer ticker.Stop()
			for {
				select {
				case <-l.cleanupCtx.Done():
					return
				case <-ticker.C:
					l.cleanup()
				}
			}
		}()
	})
}

func (l *Limiter) cleanup() {
	now := l.clock.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	maxAge := l.config.LoginLockout + time.Hour
	for k, e := range l.failuresByEmail {
		if now.Sub(e.lastAt) > maxAge {
			delete(l.failuresByEmail, k)
		}
	}
	for _, m := range []map[string]*entry{l.loginByIP, l.registerByIP} {
		for k, e := range m {
			if now.Sub(e.lastAt) > time.Hour {
				delete(m, k)
			}
		}
	}
}

// GetClientIP returns the address the limits are keyed on. Forwarding headers
// count only when trustProxy is set; then the rightmost public hop of
// X-Forwarded-For wins, falling back to X-Real-IP.
func GetClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			hops := strings.Split(xff, ",")
			for i := len(hops) - 1; i >= 0; i-- {
				if hop := strings.TrimSpace(hops[i]); hop != "" && !isPrivateIP(hop) {
					return hop
				}
			}
			return strings.TrimSpace(hops[len(hops)-1])
		}
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}

	if addrPort, err := netip.ParseAddrPort(r.RemoteAddr); err == nil {
		return addrPort.Addr().Unmap().String()
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// isPrivateIP covers RFC 1918, unique local, loopback and link-local ranges.
func isPrivateIP(value string) bool {
	addr, err := netip.ParseAddr(value)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	return addr.IsPrivate() || addr.IsLoopback() || addr.IsLinkLocalUnicast()
}

// SanitizeEmail masks an email address for logging.
func SanitizeEmail(email string) string {
	email = normalizeEmail(email)
	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return "***"
	}
	if len(local) > 2 {
		return local[:2] + "***@" + domain
	}
	return "***@" + domain
}

// LogRateLimitExceeded logs a rate limit event with a masked email.
func LogRateLimitExceeded(limitType, email, ip, reason string) {
	log.Warn().
		Str("event", "rate_limit_exceeded").
		Str("type", limitType).
		Str("email", SanitizeEmail(email)).
		Str("ip", ip).
		Str("reason", reason).
		Msg("Rate limit exceeded")
}
