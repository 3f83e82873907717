package request

import (
	"net/http"
	"time"
)

// Const vars for rate limiter and retry behaviour
const (
	// DefaultMaxAttempts is the default number of attempts made for a single
	// request, including the first
	DefaultMaxAttempts = 3
	// DefaultAttemptTimeout bounds a single HTTP round trip
	DefaultAttemptTimeout = 10 * time.Second
	// MaxRequestJobs is the maximum number of in flight requests per requester
	MaxRequestJobs int32 = 50

	drainBodyLimit  = 100000
	proxyTLSTimeout = 15 * time.Second
	userAgent       = "User-Agent"
	redactedValue   = "[REDACTED]"
)

// Requester struct for the request client
type Requester struct {
	_HTTPClient        *client
	limiter            RateLimitDefinitions
	Name               string
	userAgent          string
	maxAttempts        int
	jobs               int32
	disableRateLimiter int32
	backoff            Backoff
	retryPolicy        RetryPolicy
	attemptTimeout     time.Duration
	redacted           map[string]struct{}
}

// Item is a temporary item for a single request attempt. Body holds the exact
// bytes put on the wire.
type Item struct {
	Method         string
	Path           string
	Headers        map[string]string
	Body           []byte
	HeaderResponse *http.Header
	Verbose        bool
	HTTPDebugging  bool
}

// Response is the fully read outcome of the final request attempt
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
	Attempts   int
}

// Generate is a function that builds a request item. It is called once per
// attempt so time sensitive values such as signatures are rebuilt on retry.
type Generate func() (*Item, error)

// ResponseHandler consumes the final response of a request and returns any
// error derived from it
type ResponseHandler func(*Response) error

// RequesterOption is a function option that can be applied to configure a
// Requester when creating it.
type RequesterOption func(*Requester)
