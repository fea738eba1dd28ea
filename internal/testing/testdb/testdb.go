// Package testdb provides an in-memory SQLite store with the application
// schema applied, for repository, service and handler tests.
package testdb

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/iliyamo/event-registration/internal/database"
)

// New opens a fresh in-memory database, bootstraps the schema and closes
// the handle when the test finishes.
func New(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("testdb: open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.Bootstrap(context.Background(), db, database.SQLite); err != nil {
		t.Fatalf("testdb: bootstrap: %v", err)
	}
	return db
}

// InsertUser adds a user row and returns its id.
func InsertUser(t *testing.T, db *sql.DB, name, email string) uint64 {
	t.Helper()
	res, err := db.Exec("INSERT INTO users (name, email) VALUES (?, ?)", name, email)
	if err != nil {
		t.Fatalf("testdb: insert user: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("testdb: last insert id: %v", err)
	}
	return uint64(id)
}

// InsertEvent adds an event row and returns its id.
func InsertEvent(t *testing.T, db *sql.DB, title string, at time.Time, capacity int) uint64 {
	t.Helper()
	res, err := db.Exec("INSERT INTO events (title, datetime, location, capacity) VALUES (?, ?, ?, ?)",
		title, at.UTC(), "Main Hall", capacity)
	if err != nil {
		t.Fatalf("testdb: insert event: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("testdb: last insert id: %v", err)
	}
	return uint64(id)
}

// CountRegistrations returns the number of registration rows for a pair.
func CountRegistrations(t *testing.T, db *sql.DB, userID, eventID uint64) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM registrations WHERE userid = ? AND eventid = ?", userID, eventID).Scan(&n); err != nil {
		t.Fatalf("testdb: count registrations: %v", err)
	}
	return n
}

// TotalRegistrations returns the number of rows in registrations.
func TotalRegistrations(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM registrations").Scan(&n); err != nil {
		t.Fatalf("testdb: count registrations: %v", err)
	}
	return n
}
