package config

import (
	"errors"
	"time"

	"github.com/thrasher-corp/coinbase/log"
)

// Constants declared here are filename strings and test strings
const (
	File                   = "config.json"
	TestFile               = "../testdata/configtest.json"
	fileEncryptionPrompt   = 0
	fileEncryptionEnabled  = 1
	fileEncryptionDisabled = -1
	maxAuthFailures        = 3
	envPrefix              = "COINBASE"
	DefaultName            = "Coinbase"
	DefaultProfile         = "retail"
	DefaultHTTPTimeout     = time.Second * 10
	DefaultMaxAttempts     = 3
	DefaultBackoffBase     = time.Millisecond * 250
	DefaultBackoffMax      = time.Second * 5
	DefaultBackoffJitter   = 0.2
	DefaultAPIKey          = "Key"
	DefaultAPISecret       = "Secret"
	DefaultAPIClientID     = "ClientID"
)

// Constants here hold some messages
const (
	ErrFailureOpeningConfig                    = "fatal error opening %s file. Error: %w"
	ErrCheckingConfigValues                    = "fatal error checking config values. Error: %w"
	WarningExchangeAuthAPIDefaultOrEmptyValues = "exchange %s authenticated API support disabled due to default/empty APIKey/Secret/ClientID values"
)

// Environment variables which override credentials from the config file
const (
	EnvAPIKey        = "COINBASE_API_KEY"
	EnvAPISecret     = "COINBASE_API_SECRET"
	EnvAPIPassphrase = "COINBASE_API_PASSPHRASE"
	EnvAPIOTPSecret  = "COINBASE_API_OTPSECRET"
	EnvProfile       = "COINBASE_PROFILE"
)

// Config errors
var (
	ErrInvalidProfile = errors.New("invalid profile")

	errConfigNil               = errors.New("config is nil")
	errInvalidRetryAttempts    = errors.New("retry max attempts must be at least one")
	errInvalidBackoff          = errors.New("backoff base must not exceed backoff max")
	errInvalidJitter           = errors.New("backoff jitter must be between 0 and 1")
	errSandboxRequiresExchange = errors.New("sandbox is only available for the exchange profile")
	errDecryptFailed           = errors.New("failed to decrypt config after 3 attempts")
)

// Config is the overarching object that holds the client configuration
type Config struct {
	Name          string     `json:"name"`
	EncryptConfig int        `json:"encryptConfig"`
	Logging       log.Config `json:"logging"`
	Exchange      Exchange   `json:"exchange"`

	// encryption session values
	storedSalt []byte
	sessionDK  []byte
}

// Exchange holds the settings for a single Coinbase API client
type Exchange struct {
	Name          string        `json:"name"`
	Profile       string        `json:"profile"`
	Verbose       bool          `json:"verbose"`
	HTTPDebugging bool          `json:"httpDebugging"`
	UseSandbox    bool          `json:"useSandbox"`
	APIURL        string        `json:"apiURL,omitempty"`
	APIVersion    string        `json:"apiVersion,omitempty"`
	HTTPTimeout   time.Duration `json:"httpTimeout"`
	HTTPUserAgent string        `json:"httpUserAgent,omitempty"`
	ProxyAddress  string        `json:"proxyAddress,omitempty"`
	API           APIConfig     `json:"api"`
	Retry         RetryConfig   `json:"retry"`
}

// APIConfig stores the API credentials and whether they are used
type APIConfig struct {
	AuthenticatedSupport bool                 `json:"authenticatedSupport"`
	Credentials          APICredentialsConfig `json:"credentials"`
}

// APICredentialsConfig stores the API credentials. ClientID holds the
// passphrase and OTPSecret an optional TOTP seed.
type APICredentialsConfig struct {
	Key       string `json:"key"`
	Secret    string `json:"secret"`
	ClientID  string `json:"clientID,omitempty"`
	OTPSecret string `json:"otpSecret,omitempty"`
}

// RetryConfig holds the retry and backoff settings for requests
type RetryConfig struct {
	MaxAttempts int           `json:"maxAttempts"`
	BackoffBase time.Duration `json:"backoffBase"`
	BackoffMax  time.Duration `json:"backoffMax"`
	Jitter      float64       `json:"jitter"`
}
