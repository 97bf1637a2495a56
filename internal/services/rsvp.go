package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"sheeets/internal/domain"
)

type rsvpService struct {
	repo           domain.RSVPRepository
	users          domain.UserRepository
	events         domain.EventProvider
	email          domain.EmailService
	logger         *slog.Logger
	now            func() time.Time
	contextTimeout time.Duration
}

// NewRSVPService creates RSVPs for cached events. email may be nil.
func NewRSVPService(repo domain.RSVPRepository, users domain.UserRepository, events domain.EventProvider, email domain.EmailService, logger *slog.Logger, timeout time.Duration) domain.RSVPService {
	return &rsvpService{
		repo:           repo,
		users:          users,
		events:         events,
		email:          email,
		logger:         logger,
		now:            time.Now,
		contextTimeout: timeout,
	}
}

// Create records a "going" RSVP. An existing RSVP for the same event is
// returned with created=false. The confirmation email is best-effort.
func (s *rsvpService) Create(ctx context.Context, userID, eventID string) (*domain.RSVP, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if eventID == "" {
		return nil, false, fmt.Errorf("%w: event_id is required", domain.ErrInvalidInput)
	}
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, false, err
	}
	existing, err := s.repo.GetByUserAndEvent(ctx, userID, eventID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, err
	}

	r := &domain.RSVP{
		ID:        uuid.NewString(),
		UserID:    userID,
		EventID:   eventID,
		Status:    domain.RSVPStatusGoing,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, r); err != nil {
		// A concurrent request created it first.
		if errors.Is(err, domain.ErrConflict) {
			if existing, gerr := s.repo.GetByUserAndEvent(ctx, userID, eventID); gerr == nil {
				return existing, false, nil
			}
		}
		return nil, false, err
	}
	s.sendConfirmation(ctx, userID, event)
	return r, true, nil
}

func (s *rsvpService) List(ctx context.Context, userID string) ([]*domain.RSVP, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	list, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*domain.RSVP{}
	}
	return list, nil
}

func (s *rsvpService) sendConfirmation(ctx context.Context, userID string, e *domain.Event) {
	if s.email == nil || s.users == nil {
		return
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "rsvp confirmation skipped", "user_id", userID, "err", err)
		return
	}
	data := &domain.RSVPConfirmationEmailData{
		Email:       user.Email,
		DisplayName: user.DisplayName,
		EventName:   e.Name,
		Date:        e.DateISO,
		StartTime:   e.StartTime,
		Address:     e.Address,
		Link:        e.Link,
	}
	if err := s.email.SendRSVPConfirmation(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "rsvp confirmation failed", "user_id", userID, "event_id", e.ID, "err", err)
	}
}
