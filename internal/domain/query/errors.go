package query

import "errors"

// Sentinel kinds for query errors.
var (
	// ErrUnknownPeriod rejects a period name outside the closed set.
	// It is the only caller error this package produces; missing data
	// always resolves to an empty result instead.
	ErrUnknownPeriod = errors.New("unknown period")
)
