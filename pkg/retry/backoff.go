package retry

import (
	"math/rand"
	"time"
)

// Options configures a backoff schedule
type Options struct {
	// InitialDelay is the delay after the first failure
	InitialDelay time.Duration

	// MaxDelay caps the delay between attempts
	MaxDelay time.Duration

	// BackoffFactor is the factor by which the delay grows after each failure
	BackoffFactor float64

	// JitterFactor adds randomness to the delay (0.0 = no jitter, 1.0 = 100% jitter)
	JitterFactor float64
}

// DefaultOptions returns the schedule used for transient accept failures
func DefaultOptions() Options {
	return Options{
		InitialDelay:  5 * time.Millisecond,
		MaxDelay:      1 * time.Second,
		BackoffFactor: 2.0,
		JitterFactor:  0.2,
	}
}

// Backoff tracks consecutive failures and produces the next delay.
// It is not safe for concurrent use; the accept loop owns one instance.
type Backoff struct {
	opts  Options
	delay time.Duration
	rnd   *rand.Rand
}

// New creates a backoff schedule from the given options
func New(opts Options) *Backoff {
	if opts.BackoffFactor <= 1.0 {
		opts.BackoffFactor = 2.0
	}
	return &Backoff{
		opts: opts,
		rnd:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Next records a failure and returns how long to wait before retrying
func (b *Backoff) Next() time.Duration {
	if b.delay == 0 {
		b.delay = b.opts.InitialDelay
	} else {
		b.delay = time.Duration(float64(b.delay) * b.opts.BackoffFactor)
	}

	if b.opts.MaxDelay > 0 && b.delay > b.opts.MaxDelay {
		b.delay = b.opts.MaxDelay
	}

	delay := b.delay
	if b.opts.JitterFactor > 0 {
		jitter := float64(delay) * b.opts.JitterFactor
		delay = time.Duration(float64(delay) + (b.rnd.Float64()*jitter*2 - jitter))
	}
	if delay < 0 {
		delay = 0
	}

	return delay
}

// Reset clears the failure streak after a success
func (b *Backoff) Reset() {
	b.delay = 0
}
