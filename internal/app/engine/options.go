package engine

import "time"

// Options represents configuration options for the Engine.
type Options struct {
	// ReadBackoff is the pause after a failed feed read before retrying.
	ReadBackoff time.Duration
	// FlushBatchSize is the number of snapshot rows buffered before they are
	// persisted in one batch. Ignored when no repository is wired.
	FlushBatchSize int
}

// DefaultEngineOptions returns the default engine options.
func DefaultEngineOptions() *Options {
	return &Options{
		ReadBackoff:    100 * time.Millisecond,
		FlushBatchSize: 256,
	}
}
