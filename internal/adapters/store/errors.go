package store

import "errors"

// Sentinel kinds for store errors.
var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrRecordNotFound   = errors.New("record not found")
	ErrMalformedRecord  = errors.New("malformed record")
	ErrInvalidSnapshot  = errors.New("invalid snapshot")
)
