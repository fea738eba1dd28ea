package model

import "time"

// Event is a scheduled occasion with a location and an attendance
// capacity.  It corresponds to a row in the `events` table and is never
// modified after creation.
type Event struct {
	ID       uint64    `json:"id"`       // events.id
	Title    string    `json:"title"`    // events.title
	DateTime time.Time `json:"datetime"` // events.datetime (UTC)
	Location string    `json:"location"` // events.location
	Capacity int       `json:"capacity"` // events.capacity, 1..1000 at creation
}

// EventDetails is an event together with everyone registered for it.
// Registrations is never nil so it encodes as [] rather than null.
type EventDetails struct {
	Event
	Registrations []Registrant `json:"registrations"`
}

// EventStats summarises how full an event is.  RemainingCapacity can be
// negative because capacity is not enforced by default.
type EventStats struct {
	TotalRegistrations int    `json:"totalRegistrations"`
	RemainingCapacity  int    `json:"remainingCapacity"`
	CapacityUsed       string `json:"capacityUsed"` // e.g. "50.00%"
}
