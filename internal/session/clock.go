package session

import "time"

// Clock yields the current time in milliseconds since the Unix epoch. All
// draft timestamps (startedAt, pausedAt, createdAt, lastActionAt) come from
// the service's clock so tests can substitute a deterministic one.
type Clock func() int64

// SystemClock is the default wall clock.
func SystemClock() int64 {
	return time.Now().UnixMilli()
}

// Option configures a session service.
type Option func(*sessionService)

// WithClock overrides the service's time source.
func WithClock(clock Clock) Option {
	return func(s *sessionService) {
		s.now = clock
	}
}
