package models

import "time"

// Activity event types.
const (
	EventUserRegistered = "USER_REGISTERED"
	EventLogin          = "LOGIN"
	EventLogout         = "LOGOUT"
	EventPostCreated    = "POST_CREATED"
	EventPostUpdated    = "POST_UPDATED"
	EventPostDeleted    = "POST_DELETED"
)

// ActivityEvent is a single audit entry.
type ActivityEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`
	UserID      int64     `json:"user_id"`
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
