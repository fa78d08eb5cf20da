package service

import "time"

// ActivityFilter narrows the audit trail by owner, time range and type.
type ActivityFilter struct {
	UserID int64     // required; only this user's events are returned
	From   time.Time // inclusive; zero means no lower bound
	To     time.Time // inclusive; zero means no upper bound
	Type   string    // "" or one of the models.Event* constants
}
