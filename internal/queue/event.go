// Package queue defines message payloads exchanged over the message broker.
package queue

// QueueName is the durable queue registration events are published to.
const QueueName = "event.registrations"

// Registration event types.
const (
	TypeRegistered = "registration.created"
	TypeCancelled  = "registration.cancelled"
)

// RegistrationEvent is published after a registration is created or
// cancelled.  It carries enough for downstream consumers to log or notify
// without querying the primary database.
type RegistrationEvent struct {
	Type       string `json:"type"`
	EventID    uint64 `json:"event_id"`
	UserID     uint64 `json:"user_id"`
	OccurredAt string `json:"occurred_at"` // RFC 3339, UTC
}
