package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	h "sheeets/internal/delivery/http/helpers"
	"sheeets/internal/domain"
)

// RateLimit admits calls per credential through limiter. Rejected calls get
// 429 with a Retry-After header in whole seconds. It must run after RequireAuth.
func RateLimit(limiter domain.RateLimiter, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				h.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			key := p.CredentialID
			if key == "" {
				key = "user:" + p.UserID
			}
			allowed, retryAfter, reason := limiter.Allow(key)
			if !allowed {
				secs := int(math.Ceil(retryAfter.Seconds()))
				if secs < 1 {
					secs = 1
				}
				logger.WarnContext(r.Context(), "rate limited", "credential", key, "reason", reason, "retry_after_s", secs)
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				h.WriteJSONError(w, http.StatusTooManyRequests, domain.ErrRateLimited.Error()+": "+reason)
				return
			}
			next(w, r)
		}
	}
}

// Chain applies wrappers so the first one listed runs first.
func Chain(handler http.HandlerFunc, wrappers ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	for i := len(wrappers) - 1; i >= 0; i-- {
		handler = wrappers[i](handler)
	}
	return handler
}
