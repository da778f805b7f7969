// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file, and env vars.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataDir is the root of the persisted store (snapshots,
	// all-time record, user index, avatar mirror).
	DataDir string `koanf:"data_dir"`

	// SourceURL is the leaderboard page to scrape. When empty,
	// scheduled ingestion is disabled and only queries are served.
	SourceURL string `koanf:"source_url"`

	// ScrapeSchedule is a cron expression for the daily ingestion
	// run, evaluated in Timezone.
	ScrapeSchedule string `koanf:"scrape_schedule"`

	// Timezone names the scoreboard's home zone. Every calendar-date
	// decision (today, yesterday, month boundaries) uses it.
	Timezone string `koanf:"timezone"`

	// AllTimeSize caps each game's all-time score list.
	AllTimeSize int `koanf:"alltime_size"`

	// ViewSize caps entries per game in query results.
	ViewSize int `koanf:"view_size"`

	// AvatarScanDays sets how far back all-time avatar resolution scans.
	AvatarScanDays int `koanf:"avatar_scan_days"`

	// FetchTimeoutSec bounds the page fetch and avatar downloads.
	FetchTimeoutSec int `koanf:"fetch_timeout_sec"`

	// MaxConcurrentReads bounds fan-out snapshot loads.
	MaxConcurrentReads int `koanf:"max_concurrent_reads"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9080",
		DataDir:            "./data",
		ScrapeSchedule:     "30 5 * * *",
		Timezone:           "America/Los_Angeles",
		AllTimeSize:        50,
		ViewSize:           10,
		AvatarScanDays:     30,
		FetchTimeoutSec:    30,
		MaxConcurrentReads: 8,
	}
}
