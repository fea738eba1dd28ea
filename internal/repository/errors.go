// Package repository holds the SQL for the events, users and registrations
// tables.  Queries use '?' placeholders so they run unchanged on MySQL and
// SQLite.  The sentinel errors below let the service layer tell missing
// rows and constraint violations apart from store failures.
package repository

import "errors"

// ErrEventNotFound is returned when no event has the requested id.
var ErrEventNotFound = errors.New("event not found")

// ErrUserNotFound is returned when a registration references a user that
// does not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicateRegistration is returned when the (user, event) pair is
// already registered.  The primary key on registrations is what raises it.
var ErrDuplicateRegistration = errors.New("registration already exists")

// ErrRegistrationNotFound is returned when a delete matched no row.
var ErrRegistrationNotFound = errors.New("registration not found")
