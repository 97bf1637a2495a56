package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheeets/internal/domain"
)

func TestAPIKeyService_CreateAndAuthenticate(t *testing.T) {
	repo := newFakeAPIKeyRepo()
	svc := NewAPIKeyService(repo, plainHasher{}, time.Second)
	ctx := context.Background()

	key, plaintext, err := svc.Create(ctx, "u1", " laptop ", []string{domain.ScopeEventsRead, domain.ScopeEventsRead, domain.ScopeRSVPWrite}, 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(plaintext, "sk_"+key.Prefix+"_"))
	assert.Equal(t, "laptop", key.Name)
	assert.Equal(t, []string{domain.ScopeEventsRead, domain.ScopeRSVPWrite}, key.Scopes)
	assert.NotContains(t, key.SecretHash, plaintext)
	assert.Nil(t, key.ExpiresAt)

	p, err := svc.Authenticate(ctx, plaintext)
	require.NoError(t, err)
	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, key.ID, p.CredentialID)
	assert.True(t, p.HasScope(domain.ScopeRSVPWrite))
}

func TestAPIKeyService_CreateValidation(t *testing.T) {
	svc := NewAPIKeyService(newFakeAPIKeyRepo(), plainHasher{}, time.Second)
	ctx := context.Background()

	tests := []struct {
		name   string
		key    string
		scopes []string
	}{
		{"blank name", "  ", []string{domain.ScopeEventsRead}},
		{"long name", strings.Repeat("n", 101), []string{domain.ScopeEventsRead}},
		{"no scopes", "k", nil},
		{"unknown scope", "k", []string{"admin"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Create(ctx, "u1", tt.key, tt.scopes, 0)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestAPIKeyService_AuthenticateRejects(t *testing.T) {
	repo := newFakeAPIKeyRepo()
	s := NewAPIKeyService(repo, plainHasher{}, time.Second).(*apiKeyService)
	clock := &fakeClock{t: time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)}
	s.now = clock.Now
	ctx := context.Background()

	key, plaintext, err := s.Create(ctx, "u1", "k", []string{domain.ScopeEventsRead}, time.Hour)
	require.NoError(t, err)
	require.NotNil(t, key.ExpiresAt)

	for _, bad := range []string{"", "sk_", "sk_abc", "sk__secret", "pk_" + key.Prefix + "_x", "sk_" + key.Prefix + "_wrong", "sk_unknown_secret"} {
		_, err := s.Authenticate(ctx, bad)
		assert.ErrorIs(t, err, domain.ErrUnauthorized, bad)
	}

	clock.Advance(time.Hour)
	_, err = s.Authenticate(ctx, plaintext)
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "expired")

	key2, plaintext2, err := s.Create(ctx, "u1", "k2", []string{domain.ScopeEventsRead}, 0)
	require.NoError(t, err)
	revoked := clock.Now()
	key2.RevokedAt = &revoked
	_, err = s.Authenticate(ctx, plaintext2)
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "revoked")
}

type fakeTokenVerifier struct{}

func (fakeTokenVerifier) Verify(ctx context.Context, token string) (domain.Principal, error) {
	if token == "good-jwt" {
		return domain.Principal{UserID: "jwt-user", CredentialID: "jti-1"}, nil
	}
	return domain.Principal{}, domain.ErrUnauthorized
}

func TestCredentialVerifier(t *testing.T) {
	keys := NewAPIKeyService(newFakeAPIKeyRepo(), plainHasher{}, time.Second)
	_, plaintext, err := keys.Create(context.Background(), "key-user", "k", []string{domain.ScopeEventsRead}, 0)
	require.NoError(t, err)

	v := NewCredentialVerifier(keys, fakeTokenVerifier{})
	p, err := v.Verify(context.Background(), plaintext)
	require.NoError(t, err)
	assert.Equal(t, "key-user", p.UserID)

	p, err = v.Verify(context.Background(), "good-jwt")
	require.NoError(t, err)
	assert.Equal(t, "jwt-user", p.UserID)

	_, err = v.Verify(context.Background(), "bad")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	onlyJWT := NewCredentialVerifier(nil, fakeTokenVerifier{})
	_, err = onlyJWT.Verify(context.Background(), plaintext)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
