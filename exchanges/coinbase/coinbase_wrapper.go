package coinbase

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/thrasher-corp/coinbase/common"
	"github.com/thrasher-corp/coinbase/config"
	"github.com/thrasher-corp/coinbase/exchanges/account"
	"github.com/thrasher-corp/coinbase/exchanges/nonce"
	"github.com/thrasher-corp/coinbase/exchanges/request"
	"github.com/thrasher-corp/coinbase/log"
)

// SetDefaults sets default values for the exchange and builds a requester
// suitable for public endpoints
func (c *Coinbase) SetDefaults() error {
	c.Name = config.DefaultName
	c.Profile = RetailProfile
	c.Verbose = false
	c.apiURL = RetailProfile.defaultURL()
	c.apiVersion = coinbaseAPIVersionDate
	c.clock = nonce.NewClock(nil)
	return c.setRequester(config.DefaultHTTPTimeout, c.requesterOptions(config.DefaultHTTPTimeout)...)
}

// Setup takes in the supplied exchange configuration details and sets params
func (c *Coinbase) Setup(exch *config.Exchange) error {
	if exch == nil {
		return fmt.Errorf("exchange config: %w", common.ErrNilPointer)
	}
	profile, err := ParseProfile(exch.Profile)
	if err != nil {
		return err
	}
	if exch.UseSandbox && profile != ExchangeProfile {
		return errSandboxUnsupported
	}

	c.Name = exch.Name
	if c.Name == "" {
		c.Name = config.DefaultName
	}
	c.Profile = profile
	c.Verbose = exch.Verbose
	c.HTTPDebugging = exch.HTTPDebugging
	c.apiVersion = coinbaseAPIVersionDate
	if exch.APIVersion != "" {
		c.apiVersion = exch.APIVersion
	}
	if c.clock == nil {
		c.clock = nonce.NewClock(nil)
	}

	c.apiURL = profile.defaultURL()
	if exch.UseSandbox {
		c.apiURL = coinbaseExchangeSandboxAPIURL
	}
	if exch.APIURL != "" {
		u, err := common.ExtractHostPath(exch.APIURL)
		if err != nil {
			return err
		}
		c.apiURL = strings.TrimSuffix(u.String(), "/")
	}

	timeout := exch.HTTPTimeout
	if timeout <= 0 {
		timeout = config.DefaultHTTPTimeout
	}
	opts := c.requesterOptions(timeout)
	if exch.Retry.MaxAttempts > 0 {
		opts = append(opts, request.WithMaxAttempts(exch.Retry.MaxAttempts))
	}
	if exch.Retry.BackoffBase > 0 && exch.Retry.BackoffMax > 0 {
		opts = append(opts, request.WithBackoff(request.ExponentialBackoff(exch.Retry.BackoffBase, exch.Retry.BackoffMax, exch.Retry.Jitter)))
	}
	if exch.HTTPUserAgent != "" {
		opts = append(opts, request.WithUserAgent(exch.HTTPUserAgent))
	}
	if err := c.setRequester(timeout, opts...); err != nil {
		return err
	}

	if exch.ProxyAddress != "" {
		proxy, err := url.Parse(exch.ProxyAddress)
		if err != nil {
			return fmt.Errorf("setting proxy address error %w", err)
		}
		if err := c.requester.SetProxy(proxy); err != nil {
			return err
		}
	}

	if c.credentials != nil {
		c.credentials.Close()
		c.credentials = nil
	}
	c.AuthenticatedSupport = false
	if exch.API.AuthenticatedSupport {
		err := c.SetCredentials(&account.Credentials{
			Key:             exch.API.Credentials.Key,
			Secret:          exch.API.Credentials.Secret,
			ClientID:        exch.API.Credentials.ClientID,
			OneTimePassword: exch.API.Credentials.OTPSecret,
		})
		if err != nil {
			return err
		}
	}

	log.Infof(log.ExchangeSys, "%s configured: profile %s, endpoint %s, authenticated support %s, max attempts %d",
		c.Name, c.Profile, c.apiURL, common.IsEnabled(c.AuthenticatedSupport), c.requester.MaxAttempts())
	return nil
}

// SetCredentials replaces the client credentials and enables authenticated
// requests. Whether the secret is base64 encoded follows the profile.
func (c *Coinbase) SetCredentials(creds *account.Credentials) error {
	if creds == nil {
		return fmt.Errorf("credentials: %w", common.ErrNilPointer)
	}
	cp := *creds
	cp.SecretBase64Decoded = c.Profile.secretBase64()
	p, err := account.NewProtected(&cp)
	if err != nil {
		return err
	}
	if c.credentials != nil {
		c.credentials.Close()
	}
	c.credentials = p
	c.AuthenticatedSupport = true
	if c.Verbose {
		log.Debugf(log.ExchangeSys, "%s credentials set %s", c.Name, p)
	}
	return nil
}

// Shutdown releases the HTTP client and wipes credentials
func (c *Coinbase) Shutdown() error {
	if c.credentials != nil {
		c.credentials.Close()
		c.credentials = nil
	}
	c.AuthenticatedSupport = false
	if c.requester == nil {
		return nil
	}
	err := c.requester.Shutdown()
	c.requester = nil
	return err
}

func (c *Coinbase) requesterOptions(timeout time.Duration) []request.RequesterOption {
	return []request.RequesterOption{
		request.WithLimiter(GetRateLimit()),
		request.WithAttemptTimeout(timeout),
		request.WithUserAgent(coinbaseUserAgent),
		request.WithRedactedHeaders(headerSign, headerPassphrase, headerTwoFactor),
	}
}

// setRequester replaces the requester, releasing the previous HTTP client
func (c *Coinbase) setRequester(timeout time.Duration, opts ...request.RequesterOption) error {
	r, err := request.New(c.Name, common.NewHTTPClientWithTimeout(timeout), opts...)
	if err != nil {
		return err
	}
	if c.requester != nil {
		if err := c.requester.Shutdown(); err != nil {
			log.Errorf(log.ExchangeSys, "%s cannot release previous requester: %s", c.Name, err)
		}
	}
	c.requester = r
	return nil
}
