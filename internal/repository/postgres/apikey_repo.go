package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"sheeets/internal/domain"
)

type apiKeyRepository struct {
	DB *sql.DB
}

// NewAPIKeyRepository returns a domain.APIKeyRepository implemented with Postgres.
func NewAPIKeyRepository(db *sql.DB) domain.APIKeyRepository {
	return &apiKeyRepository{DB: db}
}

func (r *apiKeyRepository) Create(ctx context.Context, k *domain.APIKey) error {
	query := `
		INSERT INTO api_keys (id, user_id, name, prefix, secret_hash, scopes, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	var expires sql.NullTime
	if k.ExpiresAt != nil {
		expires = sql.NullTime{Time: *k.ExpiresAt, Valid: true}
	}
	_, err := r.DB.ExecContext(ctx, query, k.ID, k.UserID, k.Name, k.Prefix, k.SecretHash, pq.Array(k.Scopes), k.CreatedAt, expires)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *apiKeyRepository) GetByPrefix(ctx context.Context, prefix string) (*domain.APIKey, error) {
	query := `
		SELECT id, user_id, name, prefix, secret_hash, scopes, created_at, expires_at, revoked_at
		FROM api_keys
		WHERE prefix = $1
	`
	k := &domain.APIKey{}
	var scopes pq.StringArray
	var expires, revoked sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, prefix).Scan(
		&k.ID, &k.UserID, &k.Name, &k.Prefix, &k.SecretHash, &scopes, &k.CreatedAt, &expires, &revoked,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	k.Scopes = []string(scopes)
	if expires.Valid {
		k.ExpiresAt = &expires.Time
	}
	if revoked.Valid {
		k.RevokedAt = &revoked.Time
	}
	return k, nil
}
