package services

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type credentialLimit struct {
	minute *rate.Limiter
	day    string
	used   int
}

// RateLimiter enforces a per-minute token bucket and a per-UTC-day quota
// per credential.
type RateLimiter struct {
	mu        sync.Mutex
	perMinute int
	perDay    int
	now       func() time.Time
	day       string
	limits    map[string]*credentialLimit
}

// NewRateLimiter builds a limiter. A limit <= 0 disables that window.
func NewRateLimiter(perMinute, perDay int, now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		perMinute: perMinute,
		perDay:    perDay,
		now:       now,
		limits:    make(map[string]*credentialLimit),
	}
}

// Allow consumes one call for key. When rejected it returns how long until
// the call would be admitted and which window was exceeded.
func (l *RateLimiter) Allow(key string) (bool, time.Duration, string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	day := now.UTC().Format("2006-01-02")
	if l.day != day {
		l.pruneLocked(now)
		l.day = day
	}
	cl, ok := l.limits[key]
	if !ok {
		cl = &credentialLimit{day: day}
		if l.perMinute > 0 {
			cl.minute = rate.NewLimiter(rate.Limit(float64(l.perMinute)/60), l.perMinute)
		}
		l.limits[key] = cl
	}
	if cl.day != day {
		cl.day, cl.used = day, 0
	}

	if l.perDay > 0 && cl.used >= l.perDay {
		midnight := now.UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
		return false, midnight.Sub(now), fmt.Sprintf("%d requests per day", l.perDay)
	}
	if cl.minute != nil {
		r := cl.minute.ReserveN(now, 1)
		if delay := r.DelayFrom(now); delay > 0 {
			r.CancelAt(now)
			return false, delay, fmt.Sprintf("%d requests per minute", l.perMinute)
		}
	}
	cl.used++
	return true, 0, ""
}

// pruneLocked drops credentials whose minute bucket has refilled; their
// daily count belongs to a finished day.
func (l *RateLimiter) pruneLocked(now time.Time) {
	for k, cl := range l.limits {
		if cl.minute == nil || cl.minute.TokensAt(now) >= float64(l.perMinute) {
			delete(l.limits, k)
		}
	}
}

// Len returns the number of tracked credentials.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limits)
}
