package request_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrasher-corp/coinbase/exchanges/request"
)

func TestDefaultRetryPolicy(t *testing.T) {
	t.Parallel()
	type args struct {
		Error    error
		Response *http.Response
	}
	type want struct {
		Error error
		Retry bool
	}
	dnsErr := &net.DNSError{Err: "fake"}
	testTable := map[string]struct {
		Args args
		Want want
	}{
		"DNS Error": {
			Args: args{Error: dnsErr},
			Want: want{Error: dnsErr},
		},
		"DNS Timeout": {
			Args: args{Error: &net.DNSError{Err: "fake", IsTimeout: true}},
			Want: want{Retry: true},
		},
		"Connection Refused": {
			Args: args{Error: &net.OpError{Op: "dial", Err: errors.New("connection refused")}},
			Want: want{Retry: true},
		},
		"Caller Cancelled": {
			Args: args{Error: fmt.Errorf("wrapped: %w", context.Canceled)},
			Want: want{Error: context.Canceled},
		},
		"Deadline": {
			Args: args{Error: context.DeadlineExceeded},
			Want: want{Retry: true},
		},
		"Too Many Requests": {
			Args: args{Response: &http.Response{StatusCode: http.StatusTooManyRequests}},
			Want: want{Retry: true},
		},
		"Service Unavailable": {
			Args: args{Response: &http.Response{StatusCode: http.StatusServiceUnavailable}},
			Want: want{Retry: true},
		},
		"Unauthorized": {
			Args: args{Response: &http.Response{StatusCode: http.StatusUnauthorized}},
		},
		"Not Found": {
			Args: args{Response: &http.Response{StatusCode: http.StatusNotFound}},
		},
		"Retry After On Client Error": {
			Args: args{Response: &http.Response{StatusCode: http.StatusTeapot, Header: http.Header{"Retry-After": []string{"1"}}}},
		},
		"OK": {
			Args: args{Response: &http.Response{StatusCode: http.StatusOK}},
		},
	}

	for name, tt := range testTable {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			retry, err := request.DefaultRetryPolicy(tt.Args.Response, tt.Args.Error)

			if exp := tt.Want.Error; exp != nil {
				require.ErrorIs(t, err, exp)
				assert.False(t, retry)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.Want.Retry, retry, "retry flag should be correct")
		})
	}
}

func TestRetryAfter(t *testing.T) {
	t.Parallel()
	now := time.Date(2020, time.April, 20, 13, 31, 13, 0, time.UTC)

	type args struct {
		Now      time.Time
		Response *http.Response
	}
	type want struct {
		Delay time.Duration
	}
	testTable := map[string]struct {
		Args args
		Want want
	}{
		"No Response": {},
		"Empty Header": {
			Args: args{Response: &http.Response{StatusCode: http.StatusTooManyRequests, Header: http.Header{"Retry-After": []string{""}}}},
		},
		"Partial Seconds": {
			Args: args{Response: &http.Response{StatusCode: http.StatusTooManyRequests, Header: http.Header{"Retry-After": []string{"0.5"}}}},
		},
		"Delay Seconds": {
			Args: args{Response: &http.Response{StatusCode: http.StatusTooManyRequests, Header: http.Header{"Retry-After": []string{"3"}}}},
			Want: want{Delay: 3 * time.Second},
		},
		"Invalid HTTP Date RFC3339": {
			Args: args{
				Now:      now,
				Response: &http.Response{StatusCode: http.StatusServiceUnavailable, Header: http.Header{"Retry-After": []string{"2020-04-02T13:31:18Z"}}},
			},
		},
		"Valid HTTP Date": {
			Args: args{
				Now:      now,
				Response: &http.Response{StatusCode: http.StatusServiceUnavailable, Header: http.Header{"Retry-After": []string{"Mon, 20 Apr 2020 13:31:18 GMT"}}},
			},
			Want: want{Delay: 5 * time.Second},
		},
	}

	for name, tt := range testTable {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.Want.Delay, request.RetryAfter(tt.Args.Response, tt.Args.Now))
		})
	}
}

func TestExponentialBackoff(t *testing.T) {
	t.Parallel()
	b := request.ExponentialBackoff(100*time.Millisecond, time.Second, 0)
	assert.Equal(t, 100*time.Millisecond, b(0))
	assert.Equal(t, 100*time.Millisecond, b(1))
	assert.Equal(t, 200*time.Millisecond, b(2))
	assert.Equal(t, 400*time.Millisecond, b(3))
	assert.Equal(t, 800*time.Millisecond, b(4))
	assert.Equal(t, time.Second, b(5))
	assert.Equal(t, time.Second, b(60))

	j := request.ExponentialBackoff(100*time.Millisecond, time.Second, 0.2)
	for n := 1; n <= 10; n++ {
		capped := min(100*time.Millisecond<<(n-1), time.Second)
		d := j(n)
		assert.GreaterOrEqual(t, d, capped*8/10, "jitter should not go below 80%")
		assert.LessOrEqual(t, d, capped*12/10, "jitter should not go above 120%")
	}
}

func TestLinearBackoff(t *testing.T) {
	t.Parallel()
	b := request.LinearBackoff(time.Second, 3*time.Second)
	assert.Equal(t, time.Second, b(0))
	assert.Equal(t, 2*time.Second, b(2))
	assert.Equal(t, 3*time.Second, b(4))
}

func TestFixedBackoff(t *testing.T) {
	t.Parallel()
	b := request.FixedBackoff(time.Millisecond)
	assert.Equal(t, time.Millisecond, b(1))
	assert.Equal(t, time.Millisecond, b(100))
}

func TestTransportError(t *testing.T) {
	t.Parallel()
	err := error(&request.TransportError{Err: context.DeadlineExceeded, Attempts: 3})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "transport error after 3 attempt(s): context deadline exceeded", err.Error())
}
