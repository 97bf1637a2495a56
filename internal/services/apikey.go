package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"sheeets/internal/domain"
)

// API keys look like sk_<prefix>_<secret>. The prefix is stored in clear for
// lookup; only a hash of the secret is stored.
const (
	apiKeyMarker  = "sk_"
	prefixBytes   = 6
	secretBytes   = 24
	maxKeyNameLen = 100
)

type apiKeyService struct {
	repo           domain.APIKeyRepository
	hasher         domain.SecretHasher
	now            func() time.Time
	contextTimeout time.Duration
}

// NewAPIKeyService creates and authenticates API keys.
func NewAPIKeyService(repo domain.APIKeyRepository, hasher domain.SecretHasher, timeout time.Duration) domain.APIKeyService {
	return &apiKeyService{repo: repo, hasher: hasher, now: time.Now, contextTimeout: timeout}
}

// IsAPIKey reports whether a bearer credential has the API key shape.
func IsAPIKey(token string) bool {
	return strings.HasPrefix(token, apiKeyMarker)
}

func (s *apiKeyService) Create(ctx context.Context, userID, name string, scopes []string, ttl time.Duration) (*domain.APIKey, string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxKeyNameLen {
		return nil, "", fmt.Errorf("%w: name must be 1-%d characters", domain.ErrInvalidInput, maxKeyNameLen)
	}
	if len(scopes) == 0 {
		return nil, "", fmt.Errorf("%w: at least one scope is required", domain.ErrInvalidInput)
	}
	var granted []string
	for _, sc := range scopes {
		if !slices.Contains(domain.AllScopes, sc) {
			return nil, "", fmt.Errorf("%w: unknown scope %q", domain.ErrInvalidInput, sc)
		}
		if !slices.Contains(granted, sc) {
			granted = append(granted, sc)
		}
	}

	prefix, err := randomHex(prefixBytes)
	if err != nil {
		return nil, "", err
	}
	secret, err := randomHex(secretBytes)
	if err != nil {
		return nil, "", err
	}
	hash, err := s.hasher.Hash(secret)
	if err != nil {
		return nil, "", err
	}

	now := s.now()
	key := &domain.APIKey{
		ID:         uuid.NewString(),
		UserID:     userID,
		Name:       name,
		Prefix:     prefix,
		SecretHash: hash,
		Scopes:     granted,
		CreatedAt:  now,
	}
	if ttl > 0 {
		exp := now.Add(ttl)
		key.ExpiresAt = &exp
	}
	if err := s.repo.Create(ctx, key); err != nil {
		return nil, "", fmt.Errorf("failed to store api key: %w", err)
	}
	return key, apiKeyMarker + prefix + "_" + secret, nil
}

func (s *apiKeyService) Authenticate(ctx context.Context, plaintext string) (domain.Principal, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	prefix, secret, ok := splitAPIKey(plaintext)
	if !ok {
		return domain.Principal{}, fmt.Errorf("%w: malformed api key", domain.ErrUnauthorized)
	}
	key, err := s.repo.GetByPrefix(ctx, prefix)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Principal{}, fmt.Errorf("%w: unknown api key", domain.ErrUnauthorized)
		}
		return domain.Principal{}, err
	}
	if key.RevokedAt != nil {
		return domain.Principal{}, fmt.Errorf("%w: api key revoked", domain.ErrUnauthorized)
	}
	if key.ExpiresAt != nil && !s.now().Before(*key.ExpiresAt) {
		return domain.Principal{}, fmt.Errorf("%w: api key expired", domain.ErrUnauthorized)
	}
	if err := s.hasher.Compare(key.SecretHash, secret); err != nil {
		return domain.Principal{}, fmt.Errorf("%w: invalid api key", domain.ErrUnauthorized)
	}
	return domain.Principal{UserID: key.UserID, CredentialID: key.ID, Scopes: key.Scopes}, nil
}

func splitAPIKey(s string) (prefix, secret string, ok bool) {
	rest, found := strings.CutPrefix(s, apiKeyMarker)
	if !found {
		return "", "", false
	}
	prefix, secret, found = strings.Cut(rest, "_")
	if !found || prefix == "" || secret == "" {
		return "", "", false
	}
	return prefix, secret, true
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
