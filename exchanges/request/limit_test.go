package request

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrasher-corp/coinbase/common"
	"golang.org/x/time/rate"
)

func TestRateLimitConstructors(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		name  string
		rl    *RateLimiterWithWeight
		limit rate.Limit
	}{
		{name: "ten per second", rl: NewRateLimitWithWeight(time.Second, 10, 1), limit: 10},
		{name: "five per ten seconds", rl: NewRateLimitWithWeight(10*time.Second, 5, 1), limit: 0.5},
		{name: "no actions", rl: NewRateLimitWithWeight(2*time.Second, 0, 1), limit: rate.Inf},
		{name: "no interval", rl: NewRateLimitWithWeight(0, 15, 1), limit: rate.Inf},
		{name: "by duration", rl: NewWeightedRateLimitByDuration(4 * time.Second), limit: 0.25},
		{name: "wrapped", rl: GetRateLimiterWithWeight(rate.NewLimiter(rate.Inf, 1), 3), limit: rate.Inf},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.limit, tc.rl.endpoint.Limit())
		})
	}
	assert.Equal(t, uint8(3), GetRateLimiterWithWeight(rate.NewLimiter(rate.Inf, 1), 3).weight)
	assert.Equal(t, 1, NewRateLimit(0, 0).Burst())

	defs := NewBasicRateLimit(time.Second, 5, 1)
	assert.Same(t, defs[Auth], defs[UnAuth], "basic definitions share one bucket")
	assert.Same(t, defs[Unset], defs[Auth])
}

func TestRateLimit(t *testing.T) {
	t.Parallel()
	require.ErrorIs(t, RateLimit(t.Context(), nil), common.ErrNilPointer)
	require.ErrorIs(t, RateLimit(t.Context(), &RateLimiterWithWeight{}), errInvalidWeightCount)

	oversized := GetRateLimiterWithWeight(NewRateLimit(time.Second, 1), 2)
	err := RateLimit(t.Context(), oversized)
	require.ErrorIs(t, err, errWeightExceedsBurst, "weight above the burst must fail instead of waiting forever")
	require.ErrorIs(t, RateLimit(WithDelayNotAllowed(t.Context()), NewRateLimitWithWeight(time.Second, 1, 3)), errWeightExceedsBurst)

	blocked := GetRateLimiterWithWeight(NewRateLimit(time.Hour, 1), 1)
	require.NoError(t, RateLimit(t.Context(), blocked), "first reservation must consume the burst")
	ctx, cancel := context.WithTimeout(t.Context(), time.Millisecond)
	defer cancel()
	err = RateLimit(ctx, blocked)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.ErrorIs(t, err, errDeadlineExceedsDelay)

	cancelled, cancelNow := context.WithCancel(t.Context())
	cancelNow()
	require.ErrorIs(t, RateLimit(cancelled, blocked), context.Canceled)
	require.ErrorIs(t, RateLimit(WithDelayNotAllowed(t.Context()), blocked), ErrDelayNotAllowed)

	require.NoError(t, RateLimit(t.Context(), GetRateLimiterWithWeight(rate.NewLimiter(rate.Inf, 1), 1)))

	paced := GetRateLimiterWithWeight(NewRateLimit(20*time.Millisecond, 1), 1)
	require.NoError(t, RateLimit(t.Context(), paced), "first reservation must pass immediately")
	start := time.Now()
	require.NoError(t, RateLimit(t.Context(), paced), "second reservation must wait")
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestDescribeLimiter(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "nil", describeLimiter(nil))
	assert.Equal(t, "limit=15.000/s burst=1", describeLimiter(NewRateLimit(time.Second, 15)))
}

func TestToggleRateLimiter(t *testing.T) {
	t.Parallel()
	require.ErrorIs(t, (*Requester)(nil).DisableRateLimiter(), ErrRequestSystemIsNil)
	require.ErrorIs(t, (*Requester)(nil).EnableRateLimiter(), ErrRequestSystemIsNil)

	r := &Requester{Name: "test"}
	require.ErrorIs(t, r.EnableRateLimiter(), ErrRateLimiterAlreadyEnabled)
	require.NoError(t, r.DisableRateLimiter())
	require.ErrorIs(t, r.DisableRateLimiter(), ErrRateLimiterAlreadyDisabled)
	require.NoError(t, r.EnableRateLimiter())
}

func TestInitiateRateLimit(t *testing.T) {
	t.Parallel()
	require.ErrorIs(t, (*Requester)(nil).InitiateRateLimit(t.Context(), Unset), ErrRequestSystemIsNil)

	r := &Requester{disableRateLimiter: 1}
	require.NoError(t, r.InitiateRateLimit(t.Context(), Auth), "a disabled limiter must not block")
	r.disableRateLimiter = 0
	require.ErrorIs(t, r.InitiateRateLimit(t.Context(), Auth), errLimiterSystemIsNil)

	r.limiter = RateLimitDefinitions{
		Auth:   NewRateLimitWithWeight(time.Second, 15, 1),
		UnAuth: NewRateLimitWithWeight(time.Second, 10, 1),
	}
	require.ErrorIs(t, r.InitiateRateLimit(t.Context(), Unset), common.ErrNilPointer)
	require.NoError(t, r.InitiateRateLimit(t.Context(), Auth))
	require.NoError(t, r.InitiateRateLimit(t.Context(), UnAuth))
}
