package request

import (
	"net/http"
	"time"
)

// WithLimiter sets the rate limiter for a request
func WithLimiter(def RateLimitDefinitions) RequesterOption {
	return func(r *Requester) {
		r.limiter = def
	}
}

// WithBackoff configures the backoff strategy for a Requester.
func WithBackoff(b Backoff) RequesterOption {
	return func(r *Requester) {
		r.backoff = b
	}
}

// WithRetryPolicy configures the retry policy for a Requester.
func WithRetryPolicy(p RetryPolicy) RequesterOption {
	return func(r *Requester) {
		r.retryPolicy = p
	}
}

// WithMaxAttempts sets the total number of attempts made for a request,
// including the first
func WithMaxAttempts(n int) RequesterOption {
	return func(r *Requester) {
		r.maxAttempts = n
	}
}

// WithAttemptTimeout bounds every individual round trip
func WithAttemptTimeout(t time.Duration) RequesterOption {
	return func(r *Requester) {
		if t > 0 {
			r.attemptTimeout = t
		}
	}
}

// WithUserAgent sets the user agent sent with every request
func WithUserAgent(agent string) RequesterOption {
	return func(r *Requester) {
		r.userAgent = agent
	}
}

// WithRedactedHeaders stops the values of the named headers from being
// written to verbose logs
func WithRedactedHeaders(headers ...string) RequesterOption {
	return func(r *Requester) {
		for _, h := range headers {
			r.redacted[http.CanonicalHeaderKey(h)] = struct{}{}
		}
	}
}
