package persistence

import (
	"time"

	"github.com/google/uuid"
)

// Option customises how a repository assigns ids and timestamps.
type Option func(*options)

type options struct {
	newID func() string
	now   func() time.Time
}

// WithIDGenerator overrides the id source. The default is uuid.NewString.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// WithClock overrides the time source used for record timestamps.
func WithClock(fn func() time.Time) Option {
	return func(o *options) {
		if fn != nil {
			o.now = fn
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		newID: uuid.NewString,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// touch returns the next updatedAt after prev. Clocks that stand still or run
// backwards still yield a strictly later value.
func (o options) touch(prev time.Time) time.Time {
	next := o.now()
	if !next.After(prev) {
		next = prev.Add(time.Nanosecond)
	}
	return next
}
