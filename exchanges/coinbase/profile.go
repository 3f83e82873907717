package coinbase

import (
	"fmt"
	"strings"
)

// Profile selects which Coinbase API flavour the client talks to
type Profile uint8

// Profiles
const (
	// RetailProfile is the v2 wallet API. Responses are wrapped in a data
	// envelope and signatures are hex encoded with the raw secret.
	RetailProfile Profile = iota
	// ExchangeProfile is the exchange API. The secret is distributed base64
	// encoded, signatures are base64 and a passphrase is required.
	ExchangeProfile
)

// ParseProfile returns the profile named s
func ParseProfile(s string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "retail":
		return RetailProfile, nil
	case "exchange":
		return ExchangeProfile, nil
	}
	return 0, fmt.Errorf("%w: %q", errUnknownProfile, s)
}

func (p Profile) String() string {
	switch p {
	case RetailProfile:
		return "retail"
	case ExchangeProfile:
		return "exchange"
	default:
		return fmt.Sprintf("Profile(%d)", uint8(p))
	}
}

func (p Profile) defaultURL() string {
	if p == ExchangeProfile {
		return coinbaseExchangeAPIURL
	}
	return coinbaseAPIURL
}

// pathPrefix is prepended to every endpoint path and is part of the signed
// request path
func (p Profile) pathPrefix() string {
	if p == ExchangeProfile {
		return ""
	}
	return "/" + coinbaseAPIVersion
}

func (p Profile) signatureEncoding() SignatureEncoding {
	if p == ExchangeProfile {
		return Base64Signature
	}
	return HexSignature
}

func (p Profile) secretBase64() bool {
	return p == ExchangeProfile
}

func (p Profile) envelope() bool {
	return p == RetailProfile
}
