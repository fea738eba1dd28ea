package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/event-registration/internal/database"
	"github.com/iliyamo/event-registration/internal/model"
)

// RegistrationRepo reads and writes the registrations join table.  Rows
// are inserted and hard-deleted, never updated.
type RegistrationRepo struct {
	db *sql.DB
}

// NewRegistrationRepo returns a new RegistrationRepo bound to the given database.
func NewRegistrationRepo(db *sql.DB) *RegistrationRepo { return &RegistrationRepo{db: db} }

// Exists reports whether the user is registered for the event.
func (r *RegistrationRepo) Exists(ctx context.Context, userID, eventID uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM registrations WHERE userid = ? AND eventid = ? LIMIT 1`,
		userID, eventID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check registration: %w", err)
	}
	return true, nil
}

// Create inserts a registration.  A primary-key violation becomes
// ErrDuplicateRegistration and a foreign-key violation ErrUserNotFound
// (callers look the event up first, so the user is the missing parent).
func (r *RegistrationRepo) Create(ctx context.Context, userID, eventID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO registrations (userid, eventid) VALUES (?, ?)`, userID, eventID)
	switch {
	case err == nil:
		return nil
	case database.IsDuplicateKey(err):
		return ErrDuplicateRegistration
	case database.IsForeignKeyViolation(err):
		return ErrUserNotFound
	default:
		return fmt.Errorf("insert registration: %w", err)
	}
}

// Delete removes the registration for the pair.  It returns
// ErrRegistrationNotFound when nothing was deleted.
func (r *RegistrationRepo) Delete(ctx context.Context, userID, eventID uint64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM registrations WHERE userid = ? AND eventid = ?`, userID, eventID)
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	if n == 0 {
		return ErrRegistrationNotFound
	}
	return nil
}

// CountByEvent returns how many users are registered for the event.
func (r *RegistrationRepo) CountByEvent(ctx context.Context, eventID uint64) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registrations WHERE eventid = ?`, eventID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count registrations: %w", err)
	}
	return n, nil
}

// ListRegistrants returns the users registered for the event in the
// store's natural order.  The slice is empty, not nil, when there are none.
func (r *RegistrationRepo) ListRegistrants(ctx context.Context, eventID uint64) ([]model.Registrant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT users.id, users.name, users.email
		 FROM registrations
		 JOIN users ON registrations.userid = users.id
		 WHERE registrations.eventid = ?`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list registrants: %w", err)
	}
	defer rows.Close()

	out := []model.Registrant{}
	for rows.Next() {
		var p model.Registrant
		if err := rows.Scan(&p.ID, &p.Name, &p.Email); err != nil {
			return nil, fmt.Errorf("scan registrant: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list registrants: %w", err)
	}
	return out, nil
}
