package domain

import "time"

const (
	DefaultPollInterval = 60 * time.Second
	DefaultMaxTries     = 60
)

// PollObserver is called with the observed state and the number of completed tries.
type PollObserver func(state ProcessingState, tries int)

// WaitOptions configures WaitForBuildProcessing. Zero values take the documented defaults.
type WaitOptions struct {
	// InitialDelay is waited once before the first poll. Default 0. A negative value
	// also means no delay and is not replaced by a configured default.
	InitialDelay time.Duration
	// PollInterval separates two polls. Default 60s.
	PollInterval time.Duration
	// MaxTries bounds the number of polls. Default 60.
	MaxTries int
	Observer PollObserver
}

// WithDefaults returns a copy with every unset field replaced by its default.
func (o WaitOptions) WithDefaults() WaitOptions {
	if o.InitialDelay < 0 {
		o.InitialDelay = 0
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.MaxTries <= 0 {
		o.MaxTries = DefaultMaxTries
	}
	if o.Observer == nil {
		o.Observer = func(ProcessingState, int) {}
	}
	return o
}
