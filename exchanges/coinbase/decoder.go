package coinbase

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/thrasher-corp/coinbase/encoding/json"
	"github.com/thrasher-corp/coinbase/exchanges/request"
)

// paginated is implemented by results which also take the pagination block
// of a retail list response
type paginated interface {
	pagination() *Pagination
}

// decodeResponse classifies the final response of a request and decodes a
// successful body into result
func decodeResponse(resp *request.Response, profile Profile, result any) error {
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return newAPIError(resp)
	}

	if !json.Valid(resp.Body) {
		return &DecodeError{Err: errInvalidJSON, Body: resp.Body, StatusCode: resp.StatusCode}
	}

	if result == nil {
		return nil
	}

	data := resp.Body
	if profile.envelope() {
		value, dataType, _, err := jsonparser.Get(resp.Body, "data")
		if err != nil {
			return &DecodeError{Err: fmt.Errorf("%w: %w", errMissingDataEnvelope, err), Body: resp.Body, StatusCode: resp.StatusCode}
		}
		if dataType != jsonparser.Object && dataType != jsonparser.Array {
			return &DecodeError{Err: fmt.Errorf("%w: %s", errUnexpectedDataType, dataType), Body: resp.Body, StatusCode: resp.StatusCode}
		}
		data = value

		if p, ok := result.(paginated); ok {
			if page, pageType, _, err := jsonparser.Get(resp.Body, "pagination"); err == nil && pageType == jsonparser.Object {
				if err := json.Unmarshal(page, p.pagination()); err != nil {
					return &DecodeError{Err: err, Body: resp.Body, StatusCode: resp.StatusCode}
				}
			}
		}
	}

	if err := json.Unmarshal(data, result); err != nil {
		return &DecodeError{Err: err, Body: resp.Body, StatusCode: resp.StatusCode}
	}
	return nil
}

// newAPIError parses either error envelope. Bodies which are not JSON keep
// their text as the message.
func newAPIError(resp *request.Response) *APIError {
	e := &APIError{StatusCode: resp.StatusCode}
	if json.Valid(resp.Body) {
		if msg, err := jsonparser.GetString(resp.Body, "message"); err == nil {
			e.Message = msg
		}
		if code, err := jsonparser.GetString(resp.Body, "code"); err == nil {
			e.Code = code
		}
		if id, err := jsonparser.GetString(resp.Body, "errors", "[0]", "id"); err == nil {
			e.Code = id
		}
		if msg, err := jsonparser.GetString(resp.Body, "errors", "[0]", "message"); err == nil {
			e.Message = msg
		}
	}
	if e.Message == "" {
		e.Message = strings.TrimSpace(string(resp.Body))
	}
	if e.Message == "" {
		e.Message = http.StatusText(resp.StatusCode)
	}
	return e
}
