package services

import (
	"context"

	"sheeets/internal/domain"
)

type credentialVerifier struct {
	keys   domain.APIKeyService
	tokens domain.TokenVerifier
}

// NewCredentialVerifier accepts both API keys and session JWTs as bearer
// credentials. Either may be nil to disable that kind.
func NewCredentialVerifier(keys domain.APIKeyService, tokens domain.TokenVerifier) domain.TokenVerifier {
	return &credentialVerifier{keys: keys, tokens: tokens}
}

func (v *credentialVerifier) Verify(ctx context.Context, token string) (domain.Principal, error) {
	if IsAPIKey(token) {
		if v.keys == nil {
			return domain.Principal{}, domain.ErrUnauthorized
		}
		return v.keys.Authenticate(ctx, token)
	}
	if v.tokens == nil {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	return v.tokens.Verify(ctx, token)
}
