package scrape

import (
	"net/http"
	"time"
)

// Option applies a configuration option to the PageSource.
type Option func(*PageSource)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *PageSource) {
		if c != nil {
			s.client = c
		}
	}
}

// WithTimeout sets the fetch timeout on the default client.
func WithTimeout(d time.Duration) Option {
	return func(s *PageSource) {
		if d > 0 {
			s.client.Timeout = d
		}
	}
}
