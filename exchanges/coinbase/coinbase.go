package coinbase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gofrs/uuid"
	"github.com/thrasher-corp/coinbase/common"
	"github.com/thrasher-corp/coinbase/encoding/json"
	"github.com/thrasher-corp/coinbase/exchanges/account"
	"github.com/thrasher-corp/coinbase/exchanges/nonce"
	"github.com/thrasher-corp/coinbase/exchanges/request"
	"github.com/thrasher-corp/coinbase/log"
)

const (
	coinbaseAPIURL                = "https://api.coinbase.com"
	coinbaseExchangeAPIURL        = "https://api.exchange.coinbase.com"
	coinbaseExchangeSandboxAPIURL = "https://api-public.sandbox.exchange.coinbase.com"
	coinbaseAPIVersion            = "v2"
	coinbaseAPIVersionDate        = "2021-04-29"
	coinbaseUserAgent             = "coinbase-go/1.0"

	coinbaseCurrencies    = "/currencies"
	coinbaseExchangeRates = "/exchange-rates"
	coinbasePrices        = "/prices"
	coinbaseTime          = "/time"
	coinbaseAccounts      = "/accounts"
	coinbaseUser          = "/user"

	headerKey        = "CB-ACCESS-KEY"
	headerSign       = "CB-ACCESS-SIGN"
	headerTimestamp  = "CB-ACCESS-TIMESTAMP"
	headerPassphrase = "CB-ACCESS-PASSPHRASE"
	headerTwoFactor  = "CB-2FA-TOKEN"
	headerVersion    = "CB-VERSION"

	spotDateFormat = "2006-01-02"
)

// Coinbase is the overarching type across the coinbase package
type Coinbase struct {
	Name                 string
	Profile              Profile
	Verbose              bool
	HTTPDebugging        bool
	AuthenticatedSupport bool

	apiURL      string
	apiVersion  string
	requester   *request.Requester
	credentials *account.Protected
	clock       *nonce.Clock
}

type twoFactorKey struct{}

// WithTwoFactor marks a request as requiring a CB-2FA-TOKEN header generated
// from the configured one time password seed
func WithTwoFactor(ctx context.Context) context.Context {
	return context.WithValue(ctx, twoFactorKey{}, struct{}{})
}

func requiresTwoFactor(ctx context.Context) bool {
	_, ok := ctx.Value(twoFactorKey{}).(struct{})
	return ok
}

// GetCurrencies returns the currencies known to the API
func (c *Coinbase) GetCurrencies(ctx context.Context) ([]Currency, error) {
	var resp []Currency
	if err := c.SendHTTPRequest(ctx, request.UnAuth, coinbaseCurrencies, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetExchangeRates returns rates for one unit of base. An empty base
// defaults to USD server side.
func (c *Coinbase) GetExchangeRates(ctx context.Context, base string) (*ExchangeRates, error) {
	if err := c.requireProfile(RetailProfile); err != nil {
		return nil, err
	}
	params := url.Values{}
	if base != "" {
		params.Set("currency", base)
	}
	var resp ExchangeRates
	return &resp, c.SendHTTPRequest(ctx, request.UnAuth, coinbaseExchangeRates, params, &resp)
}

// GetBuyPrice returns the total price to buy one unit of the base currency
// of pair, e.g. BTC-USD
func (c *Coinbase) GetBuyPrice(ctx context.Context, pair string) (*CurrencyPrice, error) {
	return c.getPrice(ctx, pair, "buy", nil)
}

// GetSellPrice returns the total price to sell one unit of the base currency
func (c *Coinbase) GetSellPrice(ctx context.Context, pair string) (*CurrencyPrice, error) {
	return c.getPrice(ctx, pair, "sell", nil)
}

// GetSpotPrice returns the market price of pair. A non zero date returns the
// historic spot price for that UTC day.
func (c *Coinbase) GetSpotPrice(ctx context.Context, pair string, date time.Time) (*CurrencyPrice, error) {
	var params url.Values
	if !date.IsZero() {
		params = url.Values{"date": {date.UTC().Format(spotDateFormat)}}
	}
	return c.getPrice(ctx, pair, "spot", params)
}

func (c *Coinbase) getPrice(ctx context.Context, pair, side string, params url.Values) (*CurrencyPrice, error) {
	if err := c.requireProfile(RetailProfile); err != nil {
		return nil, err
	}
	if pair == "" {
		return nil, errCurrencyPairEmpty
	}
	var resp CurrencyPrice
	path := coinbasePrices + "/" + url.PathEscape(pair) + "/" + side
	return &resp, c.SendHTTPRequest(ctx, request.UnAuth, path, params, &resp)
}

// GetCurrentTime returns the API server time
func (c *Coinbase) GetCurrentTime(ctx context.Context) (*ServerTime, error) {
	var resp ServerTime
	return &resp, c.SendHTTPRequest(ctx, request.UnAuth, coinbaseTime, nil, &resp)
}

// SyncClock corrects request timestamps by the offset between the local
// clock and the server time and returns the offset
func (c *Coinbase) SyncClock(ctx context.Context) (time.Duration, error) {
	if c.clock == nil {
		return 0, errSetupRequired
	}
	t, err := c.GetCurrentTime(ctx)
	if err != nil {
		return 0, err
	}
	server := t.ISO.Time()
	if server.IsZero() {
		server = t.Epoch.Time()
	}
	if server.IsZero() {
		return 0, errServerTimeUnavailable
	}
	offset := c.clock.Sync(server)
	if c.Verbose {
		log.Debugf(log.ExchangeSys, "%s clock offset to server time %s", c.Name, offset)
	}
	return offset, nil
}

// GetAccounts returns a page of the retail wallet accounts of the user
func (c *Coinbase) GetAccounts(ctx context.Context, p *PaginationParams) (*Page[Account], error) {
	if err := c.requireProfile(RetailProfile); err != nil {
		return nil, err
	}
	var resp Page[Account]
	return &resp, c.SendAuthenticatedHTTPRequest(ctx, request.Auth, http.MethodGet, coinbaseAccounts, p.values(), nil, &resp)
}

// GetAccount returns a single retail wallet account
func (c *Coinbase) GetAccount(ctx context.Context, id string) (*Account, error) {
	if err := c.requireProfile(RetailProfile); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, errAccountIDEmpty
	}
	var resp Account
	return &resp, c.SendAuthenticatedHTTPRequest(ctx, request.Auth, http.MethodGet, coinbaseAccounts+"/"+url.PathEscape(id), nil, nil, &resp)
}

// GetCurrentUser returns the user the credentials belong to
func (c *Coinbase) GetCurrentUser(ctx context.Context) (*User, error) {
	if err := c.requireProfile(RetailProfile); err != nil {
		return nil, err
	}
	var resp User
	return &resp, c.SendAuthenticatedHTTPRequest(ctx, request.Auth, http.MethodGet, coinbaseUser, nil, nil, &resp)
}

// GetExchangeAccounts returns the trading accounts of the exchange profile
func (c *Coinbase) GetExchangeAccounts(ctx context.Context) ([]ExchangeAccount, error) {
	if err := c.requireProfile(ExchangeProfile); err != nil {
		return nil, err
	}
	var resp []ExchangeAccount
	if err := c.SendAuthenticatedHTTPRequest(ctx, request.Auth, http.MethodGet, coinbaseAccounts, nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetExchangeAccount returns a single trading account
func (c *Coinbase) GetExchangeAccount(ctx context.Context, id string) (*ExchangeAccount, error) {
	if err := c.requireProfile(ExchangeProfile); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, errAccountIDEmpty
	}
	var resp ExchangeAccount
	return &resp, c.SendAuthenticatedHTTPRequest(ctx, request.Auth, http.MethodGet, coinbaseAccounts+"/"+url.PathEscape(id), nil, nil, &resp)
}

func (c *Coinbase) requireProfile(p Profile) error {
	if c.Profile != p {
		return fmt.Errorf("%w %s", errProfileUnsupported, c.Profile)
	}
	return nil
}

// SendHTTPRequest sends an unauthenticated HTTP request
func (c *Coinbase) SendHTTPRequest(ctx context.Context, ep request.EndpointLimit, path string, params url.Values, result any) error {
	if c.requester == nil {
		return errSetupRequired
	}
	item := &request.Item{
		Method:        http.MethodGet,
		Path:          c.apiURL + common.EncodeURLValues(c.Profile.pathPrefix()+path, params),
		Headers:       c.baseHeaders(),
		Verbose:       c.Verbose,
		HTTPDebugging: c.HTTPDebugging,
	}
	return c.requester.SendPayload(withRequestID(ctx), ep, func() (*request.Item, error) {
		return item, nil
	}, c.handler(result))
}

// SendAuthenticatedHTTPRequest sends a signed HTTP request. body is marshalled
// once and the same bytes are signed and sent on every attempt, while the
// timestamp and signature are rebuilt per attempt.
func (c *Coinbase) SendAuthenticatedHTTPRequest(ctx context.Context, ep request.EndpointLimit, method, path string, params url.Values, body, result any) error {
	if c.requester == nil || c.clock == nil {
		return errSetupRequired
	}
	creds, release, err := c.getCredentials(ctx)
	if err != nil {
		return &AuthError{Err: err}
	}
	defer release()

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s unable to marshal request body: %w", c.Name, err)
		}
	}

	requestPath := common.EncodeURLValues(c.Profile.pathPrefix()+path, params)
	newRequest := func() (*request.Item, error) {
		ts := c.clock.Timestamp()
		msg, err := NewCanonicalMessage(int64(ts), method, requestPath, payload)
		if err != nil {
			return nil, err
		}
		sig, err := Sign(msg, creds, c.Profile.signatureEncoding())
		if err != nil {
			return nil, err
		}
		key, err := creds.Key()
		if err != nil {
			return nil, &AuthError{Err: err}
		}

		headers := c.baseHeaders()
		headers[headerKey] = key
		headers[headerSign] = sig
		headers[headerTimestamp] = ts.String()
		headers["Content-Type"] = "application/json"
		if c.Profile == ExchangeProfile {
			passphrase, err := creds.Passphrase()
			if err != nil {
				return nil, &AuthError{Err: err}
			}
			if passphrase != "" {
				headers[headerPassphrase] = passphrase
			}
		}
		if requiresTwoFactor(ctx) {
			code, err := creds.OneTimePassword(c.clock.Now())
			if err != nil {
				return nil, &AuthError{Err: err}
			}
			headers[headerTwoFactor] = code
		}

		return &request.Item{
			Method:        method,
			Path:          c.apiURL + requestPath,
			Headers:       headers,
			Body:          payload,
			Verbose:       c.Verbose,
			HTTPDebugging: c.HTTPDebugging,
		}, nil
	}
	return c.requester.SendPayload(withRequestID(ctx), ep, newRequest, c.handler(result))
}

// getCredentials returns credentials deployed to the context, or the client
// credentials. release must be called once the request has completed.
func (c *Coinbase) getCredentials(ctx context.Context) (creds *account.Protected, release func(), err error) {
	if ctxCreds, ok := account.CredentialsFromContext(ctx); ok {
		cp := *ctxCreds
		cp.SecretBase64Decoded = c.Profile.secretBase64()
		p, err := account.NewProtected(&cp)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	}
	if !c.AuthenticatedSupport || c.credentials == nil {
		return nil, nil, fmt.Errorf("%s %w", c.Name, errAuthenticatedSupportDisabled)
	}
	return c.credentials, func() {}, nil
}

func (c *Coinbase) baseHeaders() map[string]string {
	headers := map[string]string{"Accept": "application/json"}
	if c.Profile == RetailProfile {
		headers[headerVersion] = c.apiVersion
	}
	return headers
}

func (c *Coinbase) handler(result any) request.ResponseHandler {
	return func(resp *request.Response) error {
		return decodeResponse(resp, c.Profile, result)
	}
}

// withRequestID tags ctx with a correlation ID shared by every attempt
func withRequestID(ctx context.Context) context.Context {
	id, err := uuid.NewV4()
	if err != nil {
		return ctx
	}
	return request.WithRequestID(ctx, id.String())
}
