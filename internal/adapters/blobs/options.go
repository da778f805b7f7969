package blobs

import (
	"net/http"

	"github.com/okian/scorevault/pkg/logger"
)

// Option applies a configuration option to the Mirror.
type Option func(*Mirror)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(m *Mirror) {
		if c != nil {
			m.client = c
		}
	}
}

// WithLogger sets the mirror's logger.
func WithLogger(l logger.Logger) Option {
	return func(m *Mirror) {
		if l != nil {
			m.logger = l
		}
	}
}
