package coinbase

import (
	"time"

	"github.com/thrasher-corp/coinbase/exchanges/request"
)

// Coinbase rate limit consts
const (
	coinbaseRateInterval = time.Second
	coinbaseAuthRate     = 15
	coinbaseUnauthRate   = 10
)

// GetRateLimit returns the rate limit for the exchange
func GetRateLimit() request.RateLimitDefinitions {
	unauth := request.NewRateLimitWithWeight(coinbaseRateInterval, coinbaseUnauthRate, 1)
	return request.RateLimitDefinitions{
		request.Unset:  unauth,
		request.Auth:   request.NewRateLimitWithWeight(coinbaseRateInterval, coinbaseAuthRate, 1),
		request.UnAuth: unauth,
	}
}
