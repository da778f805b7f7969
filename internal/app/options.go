package service

import (
	"time"

	"github.com/okian/scorevault/internal/adapters/scrape"
	"github.com/okian/scorevault/internal/adapters/store"
	"github.com/okian/scorevault/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDataDir sets the root directory of the persisted archive.
func WithDataDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.dataDir = dir
		}
	}
}

// WithSourceURL sets the leaderboard page to scrape. An empty URL
// disables scheduled ingestion.
func WithSourceURL(url string) Option {
	return func(s *Service) {
		s.sourceURL = url
	}
}

// WithSchedule sets the cron expression for daily ingestion.
func WithSchedule(expr string) Option {
	return func(s *Service) {
		s.schedule = expr
	}
}

// WithLocation sets the scoreboard's home timezone. Calendar dates and
// the ingestion schedule are evaluated in it.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithAllTimeSize caps each game's all-time score list.
func WithAllTimeSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.allTimeSize = n
		}
	}
}

// WithViewSize caps entries per game in query results.
func WithViewSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.viewSize = n
		}
	}
}

// WithAvatarScanDays sets how far back all-time avatar resolution
// scans.
func WithAvatarScanDays(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.avatarScanDays = n
		}
	}
}

// WithFetchTimeout bounds the page fetch and avatar downloads.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// WithMaxConcurrentReads bounds fan-out snapshot loads.
func WithMaxConcurrentReads(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxConcurrentReads = n
		}
	}
}

// WithStore injects a store implementation, mainly for tests.
func WithStore(st store.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithSource injects a scrape source, mainly for tests.
func WithSource(src scrape.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
