package request

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"
)

const (
	headerRetryAfter = "Retry-After"
)

// RetryPolicy determines whether the request should be retried. A non-nil
// error ends the request immediately.
type RetryPolicy func(resp *http.Response, err error) (bool, error)

// DefaultRetryPolicy retries on 429 and 5xx responses and on transport
// failures other than caller cancellation and unresolvable hosts
func DefaultRetryPolicy(resp *http.Response, err error) (bool, error) {
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return false, err
		}
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && !dnsErr.IsTimeout && !dnsErr.IsTemporary {
			return false, err
		}
		return true, nil
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return true, nil
	}

	return false, nil
}

// RetryAfter parses the Retry-After header in the response to determine the
// minimum duration needed to wait before retrying.
func RetryAfter(resp *http.Response, now time.Time) time.Duration {
	if resp == nil {
		return 0
	}

	after := resp.Header.Get(headerRetryAfter)
	if after == "" {
		return 0
	}

	if sec, err := strconv.ParseInt(after, 10, 32); err == nil {
		return time.Duration(sec) * time.Second
	}

	if when, err := time.Parse(time.RFC1123, after); err == nil {
		return when.Sub(now)
	}

	return 0
}
