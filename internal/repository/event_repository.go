package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/event-registration/internal/model"
)

// EventRepo provides persistence for events.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

const eventColumns = `id, title, datetime, location, capacity`

// Create inserts an event and sets its generated ID.  The scheduled time
// is stored in UTC.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	e.DateTime = e.DateTime.UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO events (title, datetime, location, capacity) VALUES (?, ?, ?, ?)`,
		e.Title, e.DateTime, e.Location, e.Capacity)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	e.ID = uint64(id)
	return nil
}

// GetByID retrieves an event.  It returns ErrEventNotFound when no row
// matches.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	var e model.Event
	err := r.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ?`, id).
		Scan(&e.ID, &e.Title, &e.DateTime, &e.Location, &e.Capacity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("get event %d: %w", id, err)
	}
	e.DateTime = e.DateTime.UTC()
	return &e, nil
}

// ListUpcoming returns events scheduled strictly after the given instant,
// earliest first.  The result is empty, not nil, when nothing matches.
func (r *EventRepo) ListUpcoming(ctx context.Context, after time.Time) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE datetime > ? ORDER BY datetime ASC, id ASC`,
		after.UTC())
	if err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	defer rows.Close()

	out := []model.Event{}
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.DateTime, &e.Location, &e.Capacity); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.DateTime = e.DateTime.UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	return out, nil
}
