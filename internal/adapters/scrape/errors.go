package scrape

import "errors"

// Sentinel kinds for scrape errors.
var (
	ErrFetch = errors.New("page fetch failed")
	ErrParse = errors.New("page parse failed")
)
