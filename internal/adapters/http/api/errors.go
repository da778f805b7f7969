package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrUserNotFound = errors.New("user not found")
)
