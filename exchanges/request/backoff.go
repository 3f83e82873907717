package request

import (
	"math/rand/v2"
	"time"
)

const (
	defaultBackoffBase = 250 * time.Millisecond
	defaultBackoffMax  = 5 * time.Second
	defaultJitter      = 0.2
)

// Backoff determines how long to wait between request attempts. n is the
// number of attempts made so far and starts at one.
type Backoff func(n int) time.Duration

// DefaultBackoff returns an exponential backoff starting at 250ms, capped at
// five seconds with 20% jitter
func DefaultBackoff() Backoff {
	return ExponentialBackoff(defaultBackoffBase, defaultBackoffMax, defaultJitter)
}

// ExponentialBackoff returns a Backoff of base*2^(n-1), capped at max. jitter
// is the fraction the delay may vary by in either direction and is applied
// after the cap.
func ExponentialBackoff(base, maxDelay time.Duration, jitter float64) Backoff {
	return func(n int) time.Duration {
		if n < 1 {
			n = 1
		}
		d := base
		for i := 1; i < n && d < maxDelay; i++ {
			d *= 2
		}
		d = min(d, maxDelay)
		if jitter > 0 {
			d += time.Duration((rand.Float64()*2 - 1) * jitter * float64(d)) //nolint:gosec // jitter does not need a secure source
		}
		return max(d, 0)
	}
}

// LinearBackoff applies increasing backoff duration steps, capped at a maximum
// duration.
func LinearBackoff(base, maxDelay time.Duration) Backoff {
	return func(n int) time.Duration {
		if n < 1 {
			n = 1
		}
		return min(time.Duration(n)*base, maxDelay)
	}
}

// FixedBackoff waits the same duration between every attempt
func FixedBackoff(d time.Duration) Backoff {
	return func(int) time.Duration {
		return d
	}
}
