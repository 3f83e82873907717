package request

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/thrasher-corp/coinbase/common"
	"golang.org/x/time/rate"
)

// Const here define individual functionality sub types for rate limiting
const (
	Unset EndpointLimit = iota
	Auth
	UnAuth
)

// Rate limit errors
var (
	ErrRateLimiterAlreadyDisabled = errors.New("rate limiter already disabled")
	ErrRateLimiterAlreadyEnabled  = errors.New("rate limiter already enabled")
	// ErrDelayNotAllowed is returned when a request would have to wait on the
	// rate limiter and the context forbids waiting
	ErrDelayNotAllowed = errors.New("delay not allowed")

	errLimiterSystemIsNil   = errors.New("limiter system is nil")
	errInvalidWeightCount   = errors.New("invalid weight count must equal or greater than 1")
	errDeadlineExceedsDelay = errors.New("rate limit delay exceeds context deadline")
	errWeightExceedsBurst   = errors.New("rate limit weight exceeds limiter burst")
)

// EndpointLimit defines individual endpoint rate limits
type EndpointLimit uint16

// RateLimitDefinitions is a map of endpoint limits to rate limiters
type RateLimitDefinitions map[EndpointLimit]*RateLimiterWithWeight

// RateLimiterWithWeight is a rate limiter coupled with a weight count which
// refers to the number of tokens each request consumes
type RateLimiterWithWeight struct {
	endpoint *rate.Limiter
	weight   uint8
}

// NewRateLimit creates a new RateLimit based of time interval and how many
// actions allowed and breaks it down to an actions-per-second basis -- Burst
// rate is kept as one as this is not supported for out-bound requests.
func NewRateLimit(interval time.Duration, actions int) *rate.Limiter {
	if actions <= 0 || interval <= 0 {
		// Returns an un-restricted rate limiter
		return rate.NewLimiter(rate.Inf, 1)
	}

	i := 1 / interval.Seconds()
	rps := i * float64(actions)
	return rate.NewLimiter(rate.Limit(rps), 1)
}

// NewRateLimitWithWeight creates a new RateLimit based of time interval and how
// many actions allowed. This also has a weight count which refers to the number
// of tokens each request consumes.
func NewRateLimitWithWeight(interval time.Duration, actions int, weight uint8) *RateLimiterWithWeight {
	return GetRateLimiterWithWeight(NewRateLimit(interval, actions), weight)
}

// NewWeightedRateLimitByDuration creates a new RateLimit based of time
// interval. This equates to 1 action per interval. The weight is set to 1.
func NewWeightedRateLimitByDuration(interval time.Duration) *RateLimiterWithWeight {
	return NewRateLimitWithWeight(interval, 1, 1)
}

// GetRateLimiterWithWeight couples a rate limiter with a weight count into an
// accepted defined rate limiter with weight struct
func GetRateLimiterWithWeight(l *rate.Limiter, weight uint8) *RateLimiterWithWeight {
	return &RateLimiterWithWeight{endpoint: l, weight: weight}
}

// NewBasicRateLimit returns an object that implements the limiter interface
// for basic rate limit
func NewBasicRateLimit(interval time.Duration, actions int, weight uint8) RateLimitDefinitions {
	rl := NewRateLimitWithWeight(interval, actions, weight)
	return RateLimitDefinitions{Unset: rl, Auth: rl, UnAuth: rl}
}

// RateLimit is a function that will rate limit a request based on the rate
// limiter provided. It will return an error if the context is cancelled, the
// deadline is exceeded or a delay is not allowed.
func RateLimit(ctx context.Context, rl *RateLimiterWithWeight) error {
	if rl == nil {
		return fmt.Errorf("rate limiter: %w", common.ErrNilPointer)
	}

	if rl.weight == 0 {
		return errInvalidWeightCount
	}

	reservation := rl.endpoint.ReserveN(time.Now(), int(rl.weight))
	if !reservation.OK() {
		return fmt.Errorf("%w: weight %d %s", errWeightExceedsBurst, rl.weight, describeLimiter(rl.endpoint))
	}
	delay := reservation.Delay()
	if delay == 0 {
		return nil
	}

	if hasDelayNotAllowed(ctx) {
		reservation.Cancel()
		return fmt.Errorf("%w: %s %s", ErrDelayNotAllowed, delay, describeLimiter(rl.endpoint))
	}

	if dl, ok := ctx.Deadline(); ok && dl.Before(time.Now().Add(delay)) {
		reservation.Cancel()
		return fmt.Errorf("%w: %s, %w", errDeadlineExceedsDelay, delay, context.DeadlineExceeded)
	}

	if err := sleep(ctx, delay); err != nil {
		reservation.Cancel()
		return err
	}
	return nil
}

func describeLimiter(l *rate.Limiter) string {
	if l == nil {
		return "nil"
	}
	return fmt.Sprintf("limit=%.3f/s burst=%d", float64(l.Limit()), l.Burst())
}

// DisableRateLimiter disables the rate limiting system for the exchange
func (r *Requester) DisableRateLimiter() error {
	if r == nil {
		return ErrRequestSystemIsNil
	}
	if !atomic.CompareAndSwapInt32(&r.disableRateLimiter, 0, 1) {
		return fmt.Errorf("%s %w", r.Name, ErrRateLimiterAlreadyDisabled)
	}
	return nil
}

// EnableRateLimiter enables the rate limiting system for the exchange
func (r *Requester) EnableRateLimiter() error {
	if r == nil {
		return ErrRequestSystemIsNil
	}
	if !atomic.CompareAndSwapInt32(&r.disableRateLimiter, 1, 0) {
		return fmt.Errorf("%s %w", r.Name, ErrRateLimiterAlreadyEnabled)
	}
	return nil
}

// InitiateRateLimit sleeps for designated end point rate limits
func (r *Requester) InitiateRateLimit(ctx context.Context, e EndpointLimit) error {
	if r == nil {
		return ErrRequestSystemIsNil
	}
	if atomic.LoadInt32(&r.disableRateLimiter) == 1 {
		return nil
	}

	if r.limiter == nil {
		return fmt.Errorf("cannot rate limit request %w", errLimiterSystemIsNil)
	}

	rateLimiter := r.limiter[e]

	err := RateLimit(ctx, rateLimiter)
	if err != nil {
		return fmt.Errorf("cannot rate limit request %w for endpoint %d", err, e)
	}

	return nil
}
