package postgres

import (
	"context"
	"database/sql"

	"sheeets/internal/domain"
)

type friendRepository struct {
	DB *sql.DB
}

// NewFriendRepository reads accepted friendships. Rows are stored in both
// directions, so a user's friends are the rows keyed by their id.
func NewFriendRepository(db *sql.DB) domain.FriendRepository {
	return &friendRepository{DB: db}
}

func (r *friendRepository) ListFriends(ctx context.Context, userID string) ([]domain.Friend, error) {
	query := `
		SELECT u.id, u.display_name
		FROM friendships f
		JOIN users u ON u.id = f.friend_id
		WHERE f.user_id = $1 AND f.status = 'accepted'
		ORDER BY u.display_name, u.id
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	friends := make([]domain.Friend, 0)
	for rows.Next() {
		var f domain.Friend
		var name sql.NullString
		if err := rows.Scan(&f.UserID, &name); err != nil {
			return nil, err
		}
		f.DisplayName = name.String
		friends = append(friends, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return friends, nil
}
