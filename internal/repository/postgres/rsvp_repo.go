package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"sheeets/internal/domain"
)

type rsvpRepository struct {
	DB *sql.DB
}

// NewRSVPRepository returns a domain.RSVPRepository implemented with Postgres.
func NewRSVPRepository(db *sql.DB) domain.RSVPRepository {
	return &rsvpRepository{DB: db}
}

func (r *rsvpRepository) Create(ctx context.Context, rv *domain.RSVP) error {
	query := `
		INSERT INTO rsvps (id, user_id, event_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.DB.ExecContext(ctx, query, rv.ID, rv.UserID, rv.EventID, rv.Status, rv.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *rsvpRepository) GetByUserAndEvent(ctx context.Context, userID, eventID string) (*domain.RSVP, error) {
	query := `
		SELECT id, user_id, event_id, status, created_at
		FROM rsvps
		WHERE user_id = $1 AND event_id = $2
	`
	rv := &domain.RSVP{}
	err := r.DB.QueryRowContext(ctx, query, userID, eventID).Scan(&rv.ID, &rv.UserID, &rv.EventID, &rv.Status, &rv.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rv, nil
}

func (r *rsvpRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.RSVP, error) {
	query := `
		SELECT id, user_id, event_id, status, created_at
		FROM rsvps
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.RSVP, 0)
	for rows.Next() {
		rv := &domain.RSVP{}
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.EventID, &rv.Status, &rv.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
