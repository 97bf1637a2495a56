package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"sheeets/internal/domain"
)

type itineraryRepository struct {
	DB *sql.DB
}

// NewItineraryRepository returns a domain.ItineraryRepository implemented with Postgres.
func NewItineraryRepository(db *sql.DB) domain.ItineraryRepository {
	return &itineraryRepository{DB: db}
}

func (r *itineraryRepository) ListEventIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT event_id FROM itinerary_items WHERE user_id = $1 ORDER BY created_at, event_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *itineraryRepository) ListEventIDsForUsers(ctx context.Context, userIDs []string) (map[string][]string, error) {
	out := make(map[string][]string, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT user_id, event_id FROM itinerary_items WHERE user_id = ANY($1) ORDER BY user_id, created_at, event_id`,
		pq.Array(userIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var userID, eventID string
		if err := rows.Scan(&userID, &eventID); err != nil {
			return nil, err
		}
		out[userID] = append(out[userID], eventID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *itineraryRepository) Add(ctx context.Context, item *domain.ItineraryItem) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO itinerary_items (user_id, event_id, created_at) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, event_id) DO NOTHING`,
		item.UserID, item.EventID, item.CreatedAt)
	return err
}

func (r *itineraryRepository) Remove(ctx context.Context, userID, eventID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM itinerary_items WHERE user_id = $1 AND event_id = $2`, userID, eventID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
