package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/event-registration/internal/model"
)

// Bounds on Event.Capacity at creation.
const (
	MinCapacity = 1
	MaxCapacity = 1000
)

const (
	MsgFieldsRequired  = "All fields are required"
	MsgInvalidDateTime = "Invalid format of either date or time"
	MsgCapacityRange   = "Capacity must be between 1 and 1000"
)

// EventStore creates and lists events.
type EventStore interface {
	Create(ctx context.Context, e *model.Event) error
	ListUpcoming(ctx context.Context, after time.Time) ([]model.Event, error)
}

// UserStore creates users.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
}

// SchemaCreator creates the tables backing the stores.
type SchemaCreator interface {
	CreateTables(ctx context.Context) error
}

// CatalogService validates and stores users and events and bootstraps the
// schema.  None of it touches registrations.
type CatalogService struct {
	events EventStore
	users  UserStore
	schema SchemaCreator
	now    func() time.Time
}

// NewCatalogService wires the service to its stores.
func NewCatalogService(events EventStore, users UserStore, schema SchemaCreator) *CatalogService {
	if events == nil || users == nil || schema == nil {
		panic("nil dependency passed to NewCatalogService")
	}
	return &CatalogService{events: events, users: users, schema: schema, now: time.Now}
}

// NewUser is the input to CreateUser.
type NewUser struct {
	Name  string
	Email string
}

// CreateUser stores a user and returns its id.  Both fields are required;
// the email is not checked for format or uniqueness.
func (s *CatalogService) CreateUser(ctx context.Context, in NewUser) (uint64, error) {
	u := &model.User{Name: strings.TrimSpace(in.Name), Email: strings.TrimSpace(in.Email)}
	if u.Name == "" || u.Email == "" {
		return 0, validation(MsgFieldsRequired)
	}
	if err := s.users.Create(ctx, u); err != nil {
		return 0, err
	}
	return u.ID, nil
}

// NewEvent is the input to CreateEvent.  Date is YYYY-MM-DD and Time is
// HH:MM or HH:MM:SS, both read as UTC.
type NewEvent struct {
	Title    string
	Date     string
	Time     string
	Location string
	Capacity int
}

// CreateEvent validates and stores an event and returns its id.
func (s *CatalogService) CreateEvent(ctx context.Context, in NewEvent) (uint64, error) {
	title := strings.TrimSpace(in.Title)
	location := strings.TrimSpace(in.Location)
	date := strings.TrimSpace(in.Date)
	clock := strings.TrimSpace(in.Time)
	// A zero capacity counts as a missing field.
	if title == "" || location == "" || date == "" || clock == "" || in.Capacity == 0 {
		return 0, validation(MsgFieldsRequired)
	}
	at, err := ParseDateTime(date, clock)
	if err != nil {
		return 0, validation(MsgInvalidDateTime)
	}
	if in.Capacity < MinCapacity || in.Capacity > MaxCapacity {
		return 0, validation(MsgCapacityRange)
	}

	e := &model.Event{Title: title, DateTime: at, Location: location, Capacity: in.Capacity}
	if err := s.events.Create(ctx, e); err != nil {
		return 0, err
	}
	return e.ID, nil
}

var dateTimeLayouts = []string{"2006-01-02T15:04:05", "2006-01-02T15:04"}

// ParseDateTime combines a date and a time of day into a UTC instant.
func ParseDateTime(date, clock string) (time.Time, error) {
	joined := date + "T" + clock
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, joined, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse %q: unrecognised date/time", joined)
}

// UpcomingEvents lists events scheduled after now, earliest first.
func (s *CatalogService) UpcomingEvents(ctx context.Context) ([]model.Event, error) {
	events, err := s.events.ListUpcoming(ctx, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []model.Event{}
	}
	return events, nil
}

// CreateTables creates the events, users and registrations tables.  It
// succeeds when they already exist.
func (s *CatalogService) CreateTables(ctx context.Context) error {
	return s.schema.CreateTables(ctx)
}
