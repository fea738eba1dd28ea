package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-registration/internal/database"
	"github.com/iliyamo/event-registration/internal/repository"
	"github.com/iliyamo/event-registration/internal/testing/testdb"
)

func newCatalog(t *testing.T) *CatalogService {
	t.Helper()
	db := testdb.New(t)
	return NewCatalogService(
		repository.NewEventRepo(db),
		repository.NewUserRepo(db),
		database.Bootstrapper{DB: db, Dialect: database.SQLite},
	)
}

func TestCreateUser(t *testing.T) {
	svc := newCatalog(t)
	ctx := context.Background()

	id, err := svc.CreateUser(ctx, NewUser{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.NotZero(t, id)

	_, err = svc.CreateUser(ctx, NewUser{Name: "  ", Email: "ada@example.com"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, MsgFieldsRequired, Message(err))
}

func TestCreateEvent_Validation(t *testing.T) {
	svc := newCatalog(t)
	ctx := context.Background()
	valid := NewEvent{Title: "Meetup", Date: "2031-05-01", Time: "18:30", Location: "Berlin", Capacity: 50}

	cases := []struct {
		name string
		edit func(*NewEvent)
		msg  string
	}{
		{"missing title", func(e *NewEvent) { e.Title = "" }, MsgFieldsRequired},
		{"missing location", func(e *NewEvent) { e.Location = " " }, MsgFieldsRequired},
		{"zero capacity", func(e *NewEvent) { e.Capacity = 0 }, MsgFieldsRequired},
		{"bad date", func(e *NewEvent) { e.Date = "2031-13-45" }, MsgInvalidDateTime},
		{"bad time", func(e *NewEvent) { e.Time = "soon" }, MsgInvalidDateTime},
		{"negative capacity", func(e *NewEvent) { e.Capacity = -5 }, MsgCapacityRange},
		{"capacity too large", func(e *NewEvent) { e.Capacity = 1001 }, MsgCapacityRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.edit(&in)
			_, err := svc.CreateEvent(ctx, in)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, tc.msg, Message(err))
		})
	}

	id, err := svc.CreateEvent(ctx, valid)
	require.NoError(t, err)
	assert.NotZero(t, id)

	in := valid
	in.Capacity = MaxCapacity
	_, err = svc.CreateEvent(ctx, in)
	assert.NoError(t, err)
}

func TestParseDateTime(t *testing.T) {
	got, err := ParseDateTime("2031-05-01", "18:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2031, 5, 1, 18, 30, 0, 0, time.UTC), got)

	got, err = ParseDateTime("2031-05-01", "18:30:15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2031, 5, 1, 18, 30, 15, 0, time.UTC), got)

	_, err = ParseDateTime("05/01/2031", "18:30")
	assert.Error(t, err)
}

func TestUpcomingEvents(t *testing.T) {
	svc := newCatalog(t)
	ctx := context.Background()
	svc.now = func() time.Time { return time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC) }

	empty, err := svc.UpcomingEvents(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = svc.CreateEvent(ctx, NewEvent{Title: "Past", Date: "2030-12-31", Time: "10:00", Location: "A", Capacity: 1})
	require.NoError(t, err)
	_, err = svc.CreateEvent(ctx, NewEvent{Title: "Late", Date: "2031-02-01", Time: "10:00", Location: "B", Capacity: 1})
	require.NoError(t, err)
	_, err = svc.CreateEvent(ctx, NewEvent{Title: "Early", Date: "2031-01-02", Time: "10:00", Location: "C", Capacity: 1})
	require.NoError(t, err)

	events, err := svc.UpcomingEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Early", events[0].Title)
	assert.Equal(t, "Late", events[1].Title)
}

type failingSchema struct{}

func (failingSchema) CreateTables(context.Context) error { return errors.New("permission denied") }

func TestCreateTables(t *testing.T) {
	svc := newCatalog(t)
	assert.NoError(t, svc.CreateTables(context.Background()))

	db := testdb.New(t)
	broken := NewCatalogService(repository.NewEventRepo(db), repository.NewUserRepo(db), failingSchema{})
	assert.Error(t, broken.CreateTables(context.Background()))
}
