package domain

import (
	"context"
	"time"
)

// RSVP records that a user intends to attend an event.
// swagger:model RSVP
type RSVP struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	EventID   string    `json:"event_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// RSVPStatusGoing is the only status the API creates.
const RSVPStatusGoing = "going"

// RSVPRepository stores RSVPs.
type RSVPRepository interface {
	Create(ctx context.Context, r *RSVP) error
	GetByUserAndEvent(ctx context.Context, userID, eventID string) (*RSVP, error)
	ListByUserID(ctx context.Context, userID string) ([]*RSVP, error)
}

// RSVPService creates and lists RSVPs. Create returns created=false when the
// user already had an RSVP for the event.
type RSVPService interface {
	Create(ctx context.Context, userID, eventID string) (*RSVP, bool, error)
	List(ctx context.Context, userID string) ([]*RSVP, error)
}
