package query

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithViewSize caps the number of entries returned per game.
func WithViewSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.viewSize = n
		}
	}
}

// WithAvatarScanDays sets how many recent days the all-time avatar
// resolution scans.
func WithAvatarScanDays(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.avatarScanDays = n
		}
	}
}
