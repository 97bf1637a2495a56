package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"sheeets/internal/domain"
)

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a SecretHasher that bcrypts the hex SHA256 digest
// of the secret, keeping inputs under bcrypt's 72 byte limit.
func NewBcryptHasher(cost int) domain.SecretHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func digest(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	return []byte(hex.EncodeToString(sum[:]))
}

func (h *bcryptHasher) Hash(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(digest(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash secret: %w", err)
	}
	return string(hash), nil
}

func (h *bcryptHasher) Compare(hash, secret string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), digest(secret))
}
