package track

import (
	"log/slog"
	"time"
)

type Option func(t *Tracker)

// WithLogger specifies the logger for the tracker
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) {
		t.logger = l
	}
}

// WithQueryInterval specifies how often the tracker checks for due polls.
// Defaults to 1s
func WithQueryInterval(q time.Duration) Option {
	return func(t *Tracker) {
		t.queryInterval = q
	}
}

// WithPollInterval specifies how often each open exchange is polled.
// Defaults to 30s
func WithPollInterval(p time.Duration) Option {
	return func(t *Tracker) {
		t.pollInterval = p
	}
}

// WithRetryInterval specifies the retry delay after a failed poll.
// Defaults to 10s
func WithRetryInterval(r time.Duration) Option {
	return func(t *Tracker) {
		t.retryInterval = r
	}
}
