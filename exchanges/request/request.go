package request

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/thrasher-corp/coinbase/log"
)

var (
	// ErrRequestSystemIsNil defines and error if the request system has not
	// been set up yet.
	ErrRequestSystemIsNil = errors.New("request system is nil")
	// ErrUnsuccessfulStatus is returned when no response handler is supplied
	// and the final response is not 2xx
	ErrUnsuccessfulStatus = errors.New("unsuccessful HTTP status code")

	errMaxRequestJobs         = errors.New("max request jobs reached")
	errRequestFunctionIsNil   = errors.New("request function is nil")
	errServiceNameUnset       = errors.New("service name unset")
	errRequestItemNil         = errors.New("request item is nil")
	errInvalidPath            = errors.New("invalid path")
	errHeaderResponseMapIsNil = errors.New("header response map is nil")
	errNoProxyURLSupplied     = errors.New("no proxy URL supplied")
	errInvalidMaxAttempts     = errors.New("max attempts must be at least one")
)

// New returns a new Requester which takes ownership of httpRequester. The
// same *http.Client cannot be handed to two requesters.
func New(name string, httpRequester *http.Client, opts ...RequesterOption) (*Requester, error) {
	if name == "" {
		return nil, errServiceNameUnset
	}
	protectedClient, err := newProtectedClient(httpRequester)
	if err != nil {
		return nil, fmt.Errorf("cannot set up a new requester for %s: %w", name, err)
	}
	r := &Requester{
		_HTTPClient:    protectedClient,
		limiter:        NewBasicRateLimit(0, 0, 1),
		Name:           name,
		backoff:        DefaultBackoff(),
		retryPolicy:    DefaultRetryPolicy,
		maxAttempts:    DefaultMaxAttempts,
		attemptTimeout: DefaultAttemptTimeout,
		redacted:       map[string]struct{}{},
	}

	for _, o := range opts {
		o(r)
	}

	if r.backoff == nil {
		r.backoff = DefaultBackoff()
	}
	if r.retryPolicy == nil {
		r.retryPolicy = DefaultRetryPolicy
	}

	if r.maxAttempts < 1 {
		_ = protectedClient.release()
		return nil, fmt.Errorf("%w: %d", errInvalidMaxAttempts, r.maxAttempts)
	}

	return r, nil
}

// SendPayload handles sending HTTP/HTTPS requests. newRequest is invoked for
// every attempt and handle receives the final response.
func (r *Requester) SendPayload(ctx context.Context, ep EndpointLimit, newRequest Generate, handle ResponseHandler) error {
	if r == nil {
		return ErrRequestSystemIsNil
	}

	if newRequest == nil {
		return errRequestFunctionIsNil
	}

	if atomic.AddInt32(&r.jobs, 1) > MaxRequestJobs {
		atomic.AddInt32(&r.jobs, -1)
		return errMaxRequestJobs
	}
	defer atomic.AddInt32(&r.jobs, -1)

	if handle == nil {
		handle = defaultHandler
	}
	return r.doRequest(ctx, ep, newRequest, handle)
}

func defaultHandler(resp *Response) error {
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: %d raw response: %s", ErrUnsuccessfulStatus, resp.StatusCode, resp.Body)
	}
	return nil
}

// validateRequest validates the requester item fields and builds the HTTP
// request for one attempt
func (i *Item) validateRequest(ctx context.Context, r *Requester) (*http.Request, error) {
	if i == nil {
		return nil, errRequestItemNil
	}

	if i.Path == "" {
		return nil, errInvalidPath
	}

	if i.HeaderResponse != nil && *i.HeaderResponse == nil {
		return nil, errHeaderResponseMapIsNil
	}

	var body io.Reader
	if len(i.Body) > 0 {
		body = bytes.NewReader(i.Body)
	}
	req, err := http.NewRequestWithContext(ctx, i.Method, i.Path, body)
	if err != nil {
		return nil, err
	}

	for k, v := range i.Headers {
		req.Header.Add(k, v)
	}

	if r.userAgent != "" && req.Header.Get(userAgent) == "" {
		req.Header.Add(userAgent, r.userAgent)
	}

	return req, nil
}

// doRequest performs a HTTP/HTTPS request with the supplied params
func (r *Requester) doRequest(ctx context.Context, endpoint EndpointLimit, newRequest Generate, handle ResponseHandler) error {
	maxAttempts := r.maxAttempts
	if hasRetryNotAllowed(ctx) {
		maxAttempts = 1
	}
	requestID := RequestID(ctx)

	for attempt := 1; ; attempt++ {
		// Initiate a rate limit reservation and sleep on requested endpoint
		if err := r.InitiateRateLimit(ctx, endpoint); err != nil {
			return fmt.Errorf("failed to rate limit HTTP request: %w", err)
		}

		p, err := newRequest()
		if err != nil {
			return err
		}

		attemptCtx, cancel := context.WithTimeout(ctx, r.attemptTimeout)
		req, err := p.validateRequest(attemptCtx, r)
		if err != nil {
			cancel()
			return err
		}

		verbose := IsVerbose(ctx, p.Verbose)
		if verbose {
			log.Debugf(log.RequestSys, "%s %s attempt %d request path: %s", r.Name, requestID, attempt, p.Path)
			for k, d := range req.Header {
				log.Debugf(log.RequestSys, "%s %s request header [%s]: %s", r.Name, requestID, k, r.headerValue(k, d))
			}
			log.Debugf(log.RequestSys, "%s %s request type: %s", r.Name, requestID, p.Method)
			if len(p.Body) > 0 {
				log.Debugf(log.RequestSys, "%s %s request body: %s", r.Name, requestID, p.Body)
			}
		}
		if p.HTTPDebugging {
			dump, dumpErr := httputil.DumpRequestOut(req.Clone(attemptCtx), false)
			if dumpErr == nil {
				log.Debugf(log.RequestSys, "DumpRequest:\n%s", r.redactDump(dump))
			}
		}

		resp, err := r._HTTPClient.do(req)
		if errors.Is(err, errClientReleased) {
			cancel()
			return &TransportError{Err: err, Attempts: attempt}
		}
		retry, checkErr := r.retryPolicy(resp, err)
		if checkErr != nil {
			if resp != nil {
				r.drainBody(resp.Body)
			}
			cancel()
			return &TransportError{Err: checkErr, Attempts: attempt}
		}

		if retry && attempt < maxAttempts {
			delay := r.backoff(attempt)
			if after := RetryAfter(resp, time.Now()); after > delay {
				delay = after
			}
			if d, ok := ctx.Deadline(); !ok || time.Now().Add(delay).Before(d) {
				if resp != nil {
					// If the body isn't fully read, the connection cannot be re-used
					r.drainBody(resp.Body)
				}
				cancel()
				if verbose {
					log.Warnf(log.RequestSys, "%s %s request has failed (%s). Retrying request in %s, attempt %d",
						r.Name, requestID, failureReason(resp, err), delay, attempt)
				}
				if err := sleep(ctx, delay); err != nil {
					return err
				}
				continue
			}
			log.Warnf(log.RequestSys, "%s %s deadline would be exceeded by retry in %s, giving up after attempt %d",
				r.Name, requestID, delay, attempt)
		}

		if err != nil {
			cancel()
			return &TransportError{Err: err, Attempts: attempt}
		}

		contents, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		cancel()
		if err != nil {
			return &TransportError{Err: err, Attempts: attempt}
		}

		if p.HeaderResponse != nil {
			for k, v := range resp.Header {
				(*p.HeaderResponse)[k] = v
			}
		}

		if verbose {
			log.Debugf(log.RequestSys, "%s %s HTTP status: %s, Code: %v, attempts: %d", r.Name, requestID, resp.Status, resp.StatusCode, attempt)
			if !p.HTTPDebugging {
				log.Debugf(log.RequestSys, "%s %s raw response: %s", r.Name, requestID, contents)
			}
		}
		if p.HTTPDebugging {
			log.Debugf(log.RequestSys, "DumpResponse Body (%v):\n %s", p.Path, contents)
		}

		return handle(&Response{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Header:     resp.Header,
			Body:       contents,
			Attempts:   attempt,
		})
	}
}

func failureReason(resp *http.Response, err error) string {
	if err != nil {
		return err.Error()
	}
	return resp.Status
}

// sleep waits for d or until ctx is done
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (r *Requester) headerValue(key string, values []string) string {
	if _, ok := r.redacted[http.CanonicalHeaderKey(key)]; ok {
		return redactedValue
	}
	return strings.Join(values, ",")
}

func (r *Requester) redactDump(dump []byte) []byte {
	lines := bytes.Split(dump, []byte("\r\n"))
	for i := range lines {
		k, _, ok := bytes.Cut(lines[i], []byte(":"))
		if !ok {
			continue
		}
		if _, redact := r.redacted[http.CanonicalHeaderKey(string(k))]; redact {
			lines[i] = append(append([]byte{}, k...), []byte(": "+redactedValue)...)
		}
	}
	return bytes.Join(lines, []byte("\r\n"))
}

func (r *Requester) drainBody(body io.ReadCloser) {
	if body == nil {
		return
	}
	defer body.Close()
	if _, err := io.Copy(io.Discard, io.LimitReader(body, drainBodyLimit)); err != nil {
		log.Errorf(log.RequestSys, "%s failed to drain request body %s", r.Name, err)
	}
}

// SetProxy sets a proxy address for the client transport
func (r *Requester) SetProxy(p *url.URL) error {
	if r == nil {
		return ErrRequestSystemIsNil
	}
	return r._HTTPClient.setProxy(p)
}

// SetHTTPClientTimeout sets the timeout value for the exchanges HTTP Client and
// also the underlying transports idle connection timeout
func (r *Requester) SetHTTPClientTimeout(timeout time.Duration) error {
	if r == nil {
		return ErrRequestSystemIsNil
	}
	return r._HTTPClient.setHTTPClientTimeout(timeout)
}

// SetUserAgent sets the user agent sent with every request
func (r *Requester) SetUserAgent(agent string) error {
	if r == nil {
		return ErrRequestSystemIsNil
	}
	r.userAgent = agent
	return nil
}

// GetUserAgent gets the requester user agent
func (r *Requester) GetUserAgent() string {
	if r == nil {
		return ""
	}
	return r.userAgent
}

// MaxAttempts returns the configured number of attempts per request
func (r *Requester) MaxAttempts() int {
	if r == nil {
		return 0
	}
	return r.maxAttempts
}

// Shutdown releases the requester's HTTP client so its connection pool is
// closed and the client may be registered again
func (r *Requester) Shutdown() error {
	if r == nil {
		return ErrRequestSystemIsNil
	}
	return r._HTTPClient.release()
}
