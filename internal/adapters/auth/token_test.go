package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheeets/internal/domain"
)

func TestJWTIssuer_Issue(t *testing.T) {
	secret := "test-secret"
	issuer := NewJWTIssuer(secret)

	token, err := issuer.Issue("user-123", []string{domain.ScopeEventsRead, domain.ScopeRSVPWrite}, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Parse and verify claims
	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	claims, ok := parsed.Claims.(*jwtClaims)
	require.True(t, ok)
	assert.Equal(t, "user-123", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, []string{domain.ScopeEventsRead, domain.ScopeRSVPWrite}, claims.Scopes)
}

func TestJWTVerifier_Verify(t *testing.T) {
	secret := "test-secret"
	issuer := NewJWTIssuer(secret)
	verifier := NewJWTVerifier(secret)
	ctx := context.Background()

	t.Run("valid token", func(t *testing.T) {
		token, err := issuer.Issue("user-1", []string{domain.ScopeItineraryRead}, time.Hour)
		require.NoError(t, err)

		p, err := verifier.Verify(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", p.UserID)
		assert.NotEmpty(t, p.CredentialID)
		assert.True(t, p.HasScope(domain.ScopeItineraryRead))
		assert.False(t, p.HasScope(domain.ScopeKeysWrite))
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewJWTIssuer("other").Issue("user-1", nil, time.Hour)
		require.NoError(t, err)

		_, err = verifier.Verify(ctx, token)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("expired", func(t *testing.T) {
		iss := &jwtIssuer{secret: []byte(secret), now: func() time.Time { return time.Now().Add(-2 * time.Hour) }}
		token, err := iss.Issue("user-1", nil, time.Hour)
		require.NoError(t, err)

		_, err = verifier.Verify(ctx, token)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Contains(t, err.Error(), "expired")
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := verifier.Verify(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("missing jti falls back to subject", func(t *testing.T) {
		claims := jwtClaims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-9",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)

		p, err := verifier.Verify(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "user:user-9", p.CredentialID)
	})

	t.Run("missing expiry rejected", func(t *testing.T) {
		claims := jwtClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-9"}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)

		_, err = verifier.Verify(ctx, token)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}
