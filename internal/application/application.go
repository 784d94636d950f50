package application

import (
	"context"
	"time"
)

// Transactor runs a unit of work. Repositories called with the callback's
// context take part in the same transaction.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
	InReadTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Clock returns the evaluation instant of an operation.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

// Option configures a service.
type Option func(*options)

type options struct {
	clock Clock
}

// WithClock overrides the wall clock used for "now".
func WithClock(clock Clock) Option {
	return func(o *options) { o.clock = clock }
}

func buildOptions(opts []Option) options {
	o := options{clock: systemClock}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
