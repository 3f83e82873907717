package coinbase

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

var (
	errInvalidMethod      = errors.New("invalid HTTP method")
	errInvalidRequestPath = errors.New("request path must start with /")
	errInvalidTimestamp   = errors.New("timestamp must be positive")
)

// CanonicalMessage is the exact byte sequence covered by a request signature:
// timestamp, method, request path and body concatenated with no separators
type CanonicalMessage struct {
	timestamp   int64
	method      string
	requestPath string
	body        []byte
}

// NewCanonicalMessage validates its inputs and returns the message for a
// single request attempt. requestPath includes the query string. body is
// retained and must be the bytes sent on the wire.
func NewCanonicalMessage(ts int64, method, requestPath string, body []byte) (*CanonicalMessage, error) {
	if ts <= 0 {
		return nil, fmt.Errorf("%w: %d", errInvalidTimestamp, ts)
	}
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
	default:
		return nil, fmt.Errorf("%w: %q", errInvalidMethod, method)
	}
	if !strings.HasPrefix(requestPath, "/") {
		return nil, fmt.Errorf("%w: %q", errInvalidRequestPath, requestPath)
	}
	return &CanonicalMessage{
		timestamp:   ts,
		method:      method,
		requestPath: requestPath,
		body:        body,
	}, nil
}

// Timestamp returns the Unix seconds timestamp of the message
func (m *CanonicalMessage) Timestamp() int64 { return m.timestamp }

// Method returns the HTTP method
func (m *CanonicalMessage) Method() string { return m.method }

// RequestPath returns the path and query
func (m *CanonicalMessage) RequestPath() string { return m.requestPath }

// Body returns the request body
func (m *CanonicalMessage) Body() []byte { return m.body }

// Bytes returns timestamp || method || request_path || body
func (m *CanonicalMessage) Bytes() []byte {
	out := make([]byte, 0, 20+len(m.method)+len(m.requestPath)+len(m.body))
	out = strconv.AppendInt(out, m.timestamp, 10)
	out = append(out, m.method...)
	out = append(out, m.requestPath...)
	return append(out, m.body...)
}
