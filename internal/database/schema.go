package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Tables are created in dependency order: registrations references both
// events and users.
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS events (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		title TEXT NOT NULL,
		datetime DATETIME NOT NULL,
		location TEXT NOT NULL,
		capacity INT NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS registrations (
		userid BIGINT UNSIGNED NOT NULL,
		eventid BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (userid, eventid),
		KEY idx_registrations_eventid (eventid),
		CONSTRAINT fk_registrations_user FOREIGN KEY (userid) REFERENCES users(id),
		CONSTRAINT fk_registrations_event FOREIGN KEY (eventid) REFERENCES events(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		datetime DATETIME NOT NULL,
		location TEXT NOT NULL,
		capacity INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS registrations (
		userid INTEGER NOT NULL,
		eventid INTEGER NOT NULL,
		PRIMARY KEY (userid, eventid),
		FOREIGN KEY (userid) REFERENCES users(id),
		FOREIGN KEY (eventid) REFERENCES events(id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_registrations_eventid ON registrations (eventid)`,
}

// Bootstrap creates the events, users and registrations tables if they do
// not exist yet.  It is safe to call more than once.
func Bootstrap(ctx context.Context, db *sql.DB, d Dialect) error {
	stmts := mysqlSchema
	if d == SQLite {
		stmts = sqliteSchema
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap schema: %w", err)
		}
	}
	return nil
}

// Bootstrapper binds a handle and dialect so callers can create the
// tables without knowing either.
type Bootstrapper struct {
	DB      *sql.DB
	Dialect Dialect
}

// CreateTables runs Bootstrap with the bound handle.
func (b Bootstrapper) CreateTables(ctx context.Context) error {
	return Bootstrap(ctx, b.DB, b.Dialect)
}
