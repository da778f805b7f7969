package merge

// Option applies a configuration option to the Merger.
type Option func(*Merger)

// WithMaxEntries caps the per-game all-time score list.
func WithMaxEntries(n int) Option {
	return func(m *Merger) {
		if n > 0 {
			m.maxEntries = n
		}
	}
}
