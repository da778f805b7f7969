package store

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithMaxConcurrentReads bounds the fan-out of date-range loads.
func WithMaxConcurrentReads(n int) Option {
	return func(s *FileStore) {
		if n > 0 {
			s.maxReads = n
		}
	}
}
