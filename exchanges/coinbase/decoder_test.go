package coinbase

import (
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrasher-corp/coinbase/exchanges/request"
)

func response(status int, body string) *request.Response {
	return &request.Response{StatusCode: status, Status: http.StatusText(status), Body: []byte(body), Attempts: 1}
}

func TestDecodeResponseExactDecimal(t *testing.T) {
	t.Parallel()
	var price CurrencyPrice
	err := decodeResponse(response(http.StatusOK, `{"data":{"amount":"12.345678","currency":"USD","base":"BTC"}}`), RetailProfile, &price)
	require.NoError(t, err)
	assert.Equal(t, "12.345678", price.Amount.String())
	assert.True(t, price.Amount.Equal(decimal.RequireFromString("12.345678")))
	assert.Equal(t, int32(-6), price.Amount.Exponent(), "amount must keep its precision")
	assert.Equal(t, "USD", price.Currency)
	assert.Equal(t, "BTC", price.Base)

	var acct ExchangeAccount
	err = decodeResponse(response(http.StatusOK, `{"id":"71452118-efc7-4cc4-8780-a5e22d4baa53","currency":"BTC","balance":"0.1000000000000000","available":"0.1","hold":"0.0000000000000000","profile_id":"75da88c5-05bf-4f54-bc85-5c775bd68254","trading_enabled":true}`), ExchangeProfile, &acct)
	require.NoError(t, err)
	assert.Equal(t, "0.1", acct.Available.String())
	assert.True(t, acct.Balance.Equal(acct.Available))
	assert.True(t, acct.Hold.IsZero())
	assert.Equal(t, "71452118-efc7-4cc4-8780-a5e22d4baa53", acct.ID.String())
	assert.True(t, acct.TradingEnabled)
}

func TestDecodeResponseMalformed(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		name    string
		profile Profile
		body    string
		err     error
	}{
		{name: "truncated", profile: RetailProfile, body: `{"data":{"amount":"1`, err: errInvalidJSON},
		{name: "html", profile: ExchangeProfile, body: `<html>oops</html>`, err: errInvalidJSON},
		{name: "empty", profile: RetailProfile, body: ``, err: errInvalidJSON},
		{name: "no envelope", profile: RetailProfile, body: `{"amount":"1"}`, err: errMissingDataEnvelope},
		{name: "scalar envelope", profile: RetailProfile, body: `{"data":"1"}`, err: errUnexpectedDataType},
		{name: "bad decimal", profile: RetailProfile, body: `{"data":{"amount":"one","currency":"USD"}}`},
		{name: "wrong shape", profile: ExchangeProfile, body: `[1,2]`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var price CurrencyPrice
			err := decodeResponse(response(http.StatusOK, tc.body), tc.profile, &price)
			var decErr *DecodeError
			require.ErrorAs(t, err, &decErr)
			assert.Equal(t, http.StatusOK, decErr.StatusCode)
			assert.Equal(t, tc.body, string(decErr.Body))
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
			}
		})
	}
}

func TestDecodeResponseNilResult(t *testing.T) {
	t.Parallel()
	require.NoError(t, decodeResponse(response(http.StatusOK, `{}`), ExchangeProfile, nil))
	var decErr *DecodeError
	require.ErrorAs(t, decodeResponse(response(http.StatusOK, `{`), ExchangeProfile, nil), &decErr)
}

func TestDecodeResponsePage(t *testing.T) {
	t.Parallel()
	body := `{
		"pagination":{"ending_before":null,"starting_after":null,"limit":2,"order":"desc","previous_uri":null,"next_uri":"/v2/accounts?limit=2&starting_after=abc","next_starting_after":"abc"},
		"data":[
			{"id":"2bbf394c-193b-5b2a-9155-3b4732659ede","name":"My Wallet","primary":true,"type":"wallet","currency":{"code":"BTC","name":"Bitcoin"},"balance":{"amount":"39.59000000","currency":"BTC"},"created_at":"2015-01-31T20:49:02Z"},
			{"id":"58542935-67b5-56e1-a3f9-42686e07fa40","name":"Vault","primary":false,"type":"vault","currency":"ETH","balance":{"amount":"4.00","currency":"ETH"}}
		]
	}`
	var page Page[Account]
	require.NoError(t, decodeResponse(response(http.StatusOK, body), RetailProfile, &page))
	require.Len(t, page.Items, 2)
	assert.Equal(t, "My Wallet", page.Items[0].Name)
	assert.Equal(t, "BTC", page.Items[0].Currency.Code)
	assert.Equal(t, "Bitcoin", page.Items[0].Currency.Name)
	assert.Equal(t, "39.59", page.Items[0].Balance.Amount.String())
	assert.Equal(t, 2015, page.Items[0].CreatedAt.Time().Year())
	assert.Equal(t, "ETH", page.Items[1].Currency.Code, "currency code string must decode")
	assert.Equal(t, "abc", page.Pagination.NextStartingAfter)
	assert.Equal(t, 2, page.Pagination.Limit)
	assert.Equal(t, "desc", page.Pagination.Order)
}

func TestDecodeResponseAPIError(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		name    string
		status  int
		body    string
		code    string
		message string
		is      error
		retry   bool
	}{
		{name: "retail envelope", status: http.StatusUnauthorized, body: `{"errors":[{"id":"authentication_error","message":"invalid signature"}]}`, code: "authentication_error", message: "invalid signature", is: ErrUnauthorized},
		{name: "exchange envelope", status: http.StatusBadRequest, body: `{"message":"Invalid product_id"}`, message: "Invalid product_id"},
		{name: "forbidden", status: http.StatusForbidden, body: `{"message":"Forbidden"}`, message: "Forbidden", is: ErrForbidden},
		{name: "not found", status: http.StatusNotFound, body: `{"errors":[{"id":"not_found","message":"Not found"}]}`, code: "not_found", message: "Not found", is: ErrNotFound},
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{"message":"Too many requests"}`, message: "Too many requests", is: ErrRateLimited, retry: true},
		{name: "plain text", status: http.StatusBadGateway, body: "bad gateway\n", message: "bad gateway", is: ErrServerError, retry: true},
		{name: "empty body", status: http.StatusServiceUnavailable, body: "", message: "Service Unavailable", is: ErrServerError, retry: true},
		{name: "redirect", status: http.StatusFound, body: "", message: "Found"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var price CurrencyPrice
			err := decodeResponse(response(tc.status, tc.body), RetailProfile, &price)
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.status, apiErr.StatusCode)
			assert.Equal(t, tc.code, apiErr.Code)
			assert.Equal(t, tc.message, apiErr.Message)
			assert.Equal(t, tc.retry, apiErr.Retryable())
			if tc.is != nil {
				assert.ErrorIs(t, err, tc.is)
			}
			assert.Contains(t, apiErr.Error(), tc.message)
		})
	}
}

func TestErrorTypes(t *testing.T) {
	t.Parallel()
	inner := errors.New("bad key")
	authErr := &AuthError{Err: inner}
	assert.ErrorIs(t, authErr, inner)
	assert.Equal(t, "authentication error: bad key", authErr.Error())

	decErr := &DecodeError{Err: inner, Body: []byte("{"), StatusCode: 200}
	assert.ErrorIs(t, decErr, inner)
	assert.Contains(t, decErr.Error(), "raw response: {")

	apiErr := &APIError{Code: "invalid_request", Message: "nope", StatusCode: 400}
	assert.Equal(t, "API error: status 400 code invalid_request: nope", apiErr.Error())
	assert.NotErrorIs(t, apiErr, ErrServerError)
}
