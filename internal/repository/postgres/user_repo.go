package postgres

import (
	"context"
	"database/sql"
	"errors"

	"sheeets/internal/domain"
)

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, email, display_name, created_at
		FROM users
		WHERE id = $1
	`
	u := &domain.User{}
	var displayName sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Email, &displayName, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	u.DisplayName = displayName.String
	return u, nil
}
