package service

import "errors"

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrEmptyPassword      = errors.New("password is empty")
	ErrPostNotFound       = errors.New("post not found")
	ErrSlugConflict       = errors.New("could not allocate a unique slug")
	ErrInvalidTimeRange   = errors.New("invalid time range: from must be <= to")
	ErrActivityOwner      = errors.New("activity filter needs a user")
)
