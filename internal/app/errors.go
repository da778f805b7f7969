package service

import "errors"

// Common errors for the service package.
var (
	// ErrIngestInProgress is returned when an ingestion run is requested
	// while another one is still running.
	ErrIngestInProgress = errors.New("ingestion already in progress")

	// ErrNoSource is returned when ingestion is requested but no scrape
	// source is configured.
	ErrNoSource = errors.New("no scrape source configured")

	// ErrNotStarted is returned when an operation requires a started
	// service.
	ErrNotStarted = errors.New("service not started")
)
