// Package service holds the application logic between the HTTP handlers
// and the repositories.  RegistrationService owns the one real invariant
// of the system: a user is registered for an event at most once.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iliyamo/event-registration/internal/model"
	"github.com/iliyamo/event-registration/internal/queue"
	"github.com/iliyamo/event-registration/internal/repository"
)

// Caller-facing messages.
const (
	MsgEventNotFound     = "Event not found"
	MsgUserNotFound      = "User not found"
	MsgAlreadyRegistered = "User already registered"
	MsgNotRegistered     = "User was not registered for this event"
	MsgEventFull         = "Event is at full capacity"
	MsgInvalidUserID     = "userId must be a positive integer"
)

// EventReader looks events up by id.  It returns
// repository.ErrEventNotFound when the event does not exist.
type EventReader interface {
	GetByID(ctx context.Context, id uint64) (*model.Event, error)
}

// RegistrationStore persists registrations.  Create must return
// repository.ErrDuplicateRegistration on a primary-key violation.
type RegistrationStore interface {
	Exists(ctx context.Context, userID, eventID uint64) (bool, error)
	Create(ctx context.Context, userID, eventID uint64) error
	Delete(ctx context.Context, userID, eventID uint64) error
	CountByEvent(ctx context.Context, eventID uint64) (int, error)
	ListRegistrants(ctx context.Context, eventID uint64) ([]model.Registrant, error)
}

// Notifier receives registration events after they are committed.
type Notifier interface {
	Publish(ctx context.Context, ev queue.RegistrationEvent) error
}

// RegistrationService registers and cancels users for events and computes
// event statistics.
type RegistrationService struct {
	events          EventReader
	regs            RegistrationStore
	notifier        Notifier
	enforceCapacity bool
	log             *slog.Logger
	now             func() time.Time
}

// Option configures a RegistrationService.
type Option func(*RegistrationService)

// WithNotifier publishes an event after every successful register or
// cancel.  Publish failures are logged and never fail the request.
func WithNotifier(n Notifier) Option { return func(s *RegistrationService) { s.notifier = n } }

// WithCapacityEnforcement makes Register fail with ErrConflict once the
// event has as many registrations as its capacity.
func WithCapacityEnforcement(on bool) Option {
	return func(s *RegistrationService) { s.enforceCapacity = on }
}

// WithLogger sets the logger used for notification failures.
func WithLogger(l *slog.Logger) Option { return func(s *RegistrationService) { s.log = l } }

// NewRegistrationService wires the service to its stores.
func NewRegistrationService(events EventReader, regs RegistrationStore, opts ...Option) *RegistrationService {
	if events == nil || regs == nil {
		panic("nil store passed to NewRegistrationService")
	}
	s := &RegistrationService{events: events, regs: regs, log: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register records that userID attends eventID.
//
// The existence pre-check only produces the friendly error early; two
// concurrent calls can both pass it, and then the primary key rejects the
// second insert, which is reported as the same conflict.
func (s *RegistrationService) Register(ctx context.Context, eventID, userID uint64) error {
	if userID == 0 {
		return validation(MsgInvalidUserID)
	}
	event, err := s.event(ctx, eventID)
	if err != nil {
		return err
	}
	if s.enforceCapacity {
		n, err := s.regs.CountByEvent(ctx, eventID)
		if err != nil {
			return err
		}
		if n >= event.Capacity {
			return conflict(MsgEventFull)
		}
	}

	exists, err := s.regs.Exists(ctx, userID, eventID)
	if err != nil {
		return err
	}
	if exists {
		return conflict(MsgAlreadyRegistered)
	}

	switch err := s.regs.Create(ctx, userID, eventID); {
	case errors.Is(err, repository.ErrDuplicateRegistration):
		return conflict(MsgAlreadyRegistered)
	case errors.Is(err, repository.ErrUserNotFound):
		return notFound(MsgUserNotFound)
	case err != nil:
		return err
	}

	s.notify(ctx, queue.TypeRegistered, eventID, userID)
	return nil
}

// Cancel removes the registration for the pair.  Neither the event nor
// the user is looked up first.
func (s *RegistrationService) Cancel(ctx context.Context, eventID, userID uint64) error {
	if userID == 0 {
		return validation(MsgInvalidUserID)
	}
	if err := s.regs.Delete(ctx, userID, eventID); err != nil {
		if errors.Is(err, repository.ErrRegistrationNotFound) {
			return notFound(MsgNotRegistered)
		}
		return err
	}
	s.notify(ctx, queue.TypeCancelled, eventID, userID)
	return nil
}

// GetEventWithRegistrations returns the event and its registrants.
func (s *RegistrationService) GetEventWithRegistrations(ctx context.Context, eventID uint64) (*model.EventDetails, error) {
	event, err := s.event(ctx, eventID)
	if err != nil {
		return nil, err
	}
	regs, err := s.regs.ListRegistrants(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if regs == nil {
		regs = []model.Registrant{}
	}
	return &model.EventDetails{Event: *event, Registrations: regs}, nil
}

// GetEventStats reports registrations against capacity.
func (s *RegistrationService) GetEventStats(ctx context.Context, eventID uint64) (*model.EventStats, error) {
	event, err := s.event(ctx, eventID)
	if err != nil {
		return nil, err
	}
	n, err := s.regs.CountByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return ComputeStats(event.Capacity, n)
}

// ComputeStats derives the stats for an event of the given capacity with
// registered registrations.  Remaining capacity goes negative when an
// event is oversubscribed.
func ComputeStats(capacity, registered int) (*model.EventStats, error) {
	if capacity <= 0 {
		return nil, invalidState("event capacity must be positive, got %d", capacity)
	}
	used := float64(registered) / float64(capacity) * 100
	return &model.EventStats{
		TotalRegistrations: registered,
		RemainingCapacity:  capacity - registered,
		CapacityUsed:       fmt.Sprintf("%.2f%%", used),
	}, nil
}

func (s *RegistrationService) event(ctx context.Context, eventID uint64) (*model.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if errors.Is(err, repository.ErrEventNotFound) {
		return nil, notFound(MsgEventNotFound)
	}
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (s *RegistrationService) notify(ctx context.Context, typ string, eventID, userID uint64) {
	if s.notifier == nil {
		return
	}
	ev := queue.RegistrationEvent{
		Type:       typ,
		EventID:    eventID,
		UserID:     userID,
		OccurredAt: s.now().UTC().Format(time.RFC3339),
	}
	if err := s.notifier.Publish(ctx, ev); err != nil {
		s.log.Warn("publish registration event failed", "type", typ, "event_id", eventID, "user_id", userID, "error", err)
	}
}
