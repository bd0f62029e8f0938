package services

import (
	"time"

	"entrepreedge/internal/finance"
)

type options struct {
	now func() time.Time
	rnd finance.RandomSource
}

// Option customizes the clock and random source of a service.
type Option func(*options)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithRandom sets the projection random source. Nil keeps the unseeded
// process-wide generator.
func WithRandom(rnd finance.RandomSource) Option {
	return func(o *options) { o.rnd = rnd }
}

func applyOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
