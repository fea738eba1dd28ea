package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-registration/internal/model"
	"github.com/iliyamo/event-registration/internal/repository"
	"github.com/iliyamo/event-registration/internal/testing/testdb"
)

func TestEventRepo_CreateAndGet(t *testing.T) {
	db := testdb.New(t)
	repo := repository.NewEventRepo(db)
	ctx := context.Background()

	at := time.Date(2031, 3, 14, 18, 30, 0, 0, time.UTC)
	e := &model.Event{Title: "GopherCon", DateTime: at, Location: "Berlin", Capacity: 250}
	require.NoError(t, repo.Create(ctx, e))
	assert.NotZero(t, e.ID)

	got, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "GopherCon", got.Title)
	assert.Equal(t, "Berlin", got.Location)
	assert.Equal(t, 250, got.Capacity)
	assert.True(t, at.Equal(got.DateTime), "got %s", got.DateTime)
}

func TestEventRepo_GetByID_NotFound(t *testing.T) {
	repo := repository.NewEventRepo(testdb.New(t))

	_, err := repo.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, repository.ErrEventNotFound)
}

func TestEventRepo_ListUpcoming(t *testing.T) {
	db := testdb.New(t)
	repo := repository.NewEventRepo(db)
	now := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)

	testdb.InsertEvent(t, db, "past", now.Add(-24*time.Hour), 10)
	later := testdb.InsertEvent(t, db, "later", now.Add(72*time.Hour), 10)
	sooner := testdb.InsertEvent(t, db, "sooner", now.Add(2*time.Hour), 10)

	events, err := repo.ListUpcoming(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, sooner, events[0].ID)
	assert.Equal(t, later, events[1].ID)
}

func TestEventRepo_ListUpcoming_Empty(t *testing.T) {
	repo := repository.NewEventRepo(testdb.New(t))

	events, err := repo.ListUpcoming(context.Background(), time.Now())
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestUserRepo_Create(t *testing.T) {
	db := testdb.New(t)
	repo := repository.NewUserRepo(db)

	u := &model.User{Name: "  Ada Lovelace ", Email: "ada@example.com"}
	require.NoError(t, repo.Create(context.Background(), u))
	assert.NotZero(t, u.ID)

	var name, email string
	require.NoError(t, db.QueryRow("SELECT name, email FROM users WHERE id = ?", u.ID).Scan(&name, &email))
	assert.Equal(t, "Ada Lovelace", name)
	assert.Equal(t, "ada@example.com", email)
}

func TestRegistrationRepo_Lifecycle(t *testing.T) {
	db := testdb.New(t)
	repo := repository.NewRegistrationRepo(db)
	ctx := context.Background()

	userID := testdb.InsertUser(t, db, "Ada", "ada@example.com")
	eventID := testdb.InsertEvent(t, db, "Meetup", time.Now().Add(time.Hour), 2)

	exists, err := repo.Exists(ctx, userID, eventID)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Create(ctx, userID, eventID))

	exists, err = repo.Exists(ctx, userID, eventID)
	require.NoError(t, err)
	assert.True(t, exists)

	n, err := repo.CountByEvent(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, repo.Delete(ctx, userID, eventID))
	assert.ErrorIs(t, repo.Delete(ctx, userID, eventID), repository.ErrRegistrationNotFound)
	assert.Equal(t, 0, testdb.CountRegistrations(t, db, userID, eventID))
}

func TestRegistrationRepo_Create_Duplicate(t *testing.T) {
	db := testdb.New(t)
	repo := repository.NewRegistrationRepo(db)
	ctx := context.Background()

	userID := testdb.InsertUser(t, db, "Ada", "ada@example.com")
	eventID := testdb.InsertEvent(t, db, "Meetup", time.Now().Add(time.Hour), 2)

	require.NoError(t, repo.Create(ctx, userID, eventID))
	assert.ErrorIs(t, repo.Create(ctx, userID, eventID), repository.ErrDuplicateRegistration)
	assert.Equal(t, 1, testdb.CountRegistrations(t, db, userID, eventID))
}

func TestRegistrationRepo_Create_UnknownUser(t *testing.T) {
	db := testdb.New(t)
	repo := repository.NewRegistrationRepo(db)

	eventID := testdb.InsertEvent(t, db, "Meetup", time.Now().Add(time.Hour), 2)

	err := repo.Create(context.Background(), 77, eventID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	assert.Equal(t, 0, testdb.CountRegistrations(t, db, 77, eventID))
}

func TestRegistrationRepo_ListRegistrants(t *testing.T) {
	db := testdb.New(t)
	repo := repository.NewRegistrationRepo(db)
	ctx := context.Background()

	eventID := testdb.InsertEvent(t, db, "Meetup", time.Now().Add(time.Hour), 5)
	other := testdb.InsertEvent(t, db, "Other", time.Now().Add(time.Hour), 5)
	ada := testdb.InsertUser(t, db, "Ada", "ada@example.com")
	alan := testdb.InsertUser(t, db, "Alan", "alan@example.com")

	empty, err := repo.ListRegistrants(ctx, eventID)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	require.NoError(t, repo.Create(ctx, ada, eventID))
	require.NoError(t, repo.Create(ctx, alan, eventID))
	require.NoError(t, repo.Create(ctx, alan, other))

	got, err := repo.ListRegistrants(ctx, eventID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []model.Registrant{
		{ID: ada, Name: "Ada", Email: "ada@example.com"},
		{ID: alan, Name: "Alan", Email: "alan@example.com"},
	}, got)
}
