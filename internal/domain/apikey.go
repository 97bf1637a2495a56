package domain

import (
	"context"
	"slices"
	"time"
)

// Scopes granted to API credentials.
const (
	ScopeEventsRead          = "events:read"
	ScopeItineraryRead       = "itinerary:read"
	ScopeItineraryWrite      = "itinerary:write"
	ScopeFriendsRead         = "friends:read"
	ScopeRSVPRead            = "rsvp:read"
	ScopeRSVPWrite           = "rsvp:write"
	ScopeRecommendationsRead = "recommendations:read"
	ScopeKeysWrite           = "keys:write"
)

// AllScopes lists every scope a key may carry.
var AllScopes = []string{
	ScopeEventsRead,
	ScopeItineraryRead,
	ScopeItineraryWrite,
	ScopeFriendsRead,
	ScopeRSVPRead,
	ScopeRSVPWrite,
	ScopeRecommendationsRead,
	ScopeKeysWrite,
}

// Principal is an authenticated caller.
type Principal struct {
	UserID       string
	CredentialID string
	Scopes       []string
}

// HasScope reports whether the principal was granted scope.
func (p Principal) HasScope(scope string) bool {
	return slices.Contains(p.Scopes, scope)
}

// APIKey is a stored credential. Only the bcrypt hash of the secret is kept.
// swagger:model APIKey
type APIKey struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Name       string     `json:"name"`
	Prefix     string     `json:"prefix"`
	SecretHash string     `json:"-"`
	Scopes     []string   `json:"scopes"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
}

// APIKeyRepository stores API keys.
type APIKeyRepository interface {
	Create(ctx context.Context, k *APIKey) error
	GetByPrefix(ctx context.Context, prefix string) (*APIKey, error)
}

// SecretHasher hashes and checks API key secrets.
type SecretHasher interface {
	Hash(secret string) (string, error)
	Compare(hash, secret string) error
}

// TokenIssuer issues signed session tokens.
type TokenIssuer interface {
	Issue(userID string, scopes []string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a bearer credential and returns its principal.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Principal, error)
}

// APIKeyService creates API keys. The plaintext key is only returned here.
type APIKeyService interface {
	Create(ctx context.Context, userID, name string, scopes []string, ttl time.Duration) (key *APIKey, plaintext string, err error)
	// Authenticate resolves a plaintext key; unknown, revoked and expired
	// keys yield ErrUnauthorized.
	Authenticate(ctx context.Context, plaintext string) (Principal, error)
}

// RateLimiter admits or rejects one call for a credential.
type RateLimiter interface {
	Allow(key string) (ok bool, retryAfter time.Duration, reason string)
}
