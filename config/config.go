package config

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"github.com/thrasher-corp/coinbase/encoding/json"
	"github.com/thrasher-corp/coinbase/log"
)

// DefaultConfig returns a config populated with default values
func DefaultConfig() *Config {
	return &Config{
		Name:          DefaultName,
		EncryptConfig: fileEncryptionDisabled,
		Logging:       log.GenDefaultSettings(),
		Exchange: Exchange{
			Name:        DefaultName,
			Profile:     DefaultProfile,
			HTTPTimeout: DefaultHTTPTimeout,
			Retry: RetryConfig{
				MaxAttempts: DefaultMaxAttempts,
				BackoffBase: DefaultBackoffBase,
				BackoffMax:  DefaultBackoffMax,
				Jitter:      DefaultBackoffJitter,
			},
		},
	}
}

// newViper returns a viper instance carrying the defaults and the
// environment bindings for credentials
func newViper() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("name", DefaultName)
	v.SetDefault("encryptConfig", fileEncryptionPrompt)
	v.SetDefault("exchange.name", DefaultName)
	v.SetDefault("exchange.profile", DefaultProfile)
	v.SetDefault("exchange.httpTimeout", DefaultHTTPTimeout)
	v.SetDefault("exchange.retry.maxAttempts", DefaultMaxAttempts)
	v.SetDefault("exchange.retry.backoffBase", DefaultBackoffBase)
	v.SetDefault("exchange.retry.backoffMax", DefaultBackoffMax)
	v.SetDefault("exchange.retry.jitter", DefaultBackoffJitter)

	bindings := map[string]string{
		"exchange.api.credentials.key":       EnvAPIKey,
		"exchange.api.credentials.secret":    EnvAPISecret,
		"exchange.api.credentials.clientID":  EnvAPIPassphrase,
		"exchange.api.credentials.otpSecret": EnvAPIOTPSecret,
		"exchange.profile":                   EnvProfile,
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// decode unmarshals JSON config data through viper so defaults and
// environment overrides are applied
func decode(data []byte) (*Config, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return nil, err
		}
	}
	c := &Config{}
	err = v.Unmarshal(c, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "json"
		dc.Squash = true
	})
	if err != nil {
		return nil, err
	}
	if os.Getenv(EnvAPIKey) != "" && os.Getenv(EnvAPISecret) != "" {
		c.Exchange.API.AuthenticatedSupport = true
	}
	return c, nil
}

// ReadConfigFromFile reads the configuration from the given file. If the
// file is encrypted keyProvider is asked for the key.
func (c *Config) ReadConfigFromFile(configPath string, keyProvider func() ([]byte, error)) error {
	if c == nil {
		return errConfigNil
	}
	confFile, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer confFile.Close()
	result, _, err := ReadConfig(confFile, keyProvider)
	if err != nil {
		return fmt.Errorf("error reading config %w", err)
	}
	// Override values in the current config
	*c = *result
	return nil
}

// ReadConfig verifies and checks for encryption and loads the config from a
// JSON object. Returns the loaded configuration and whether it was encrypted.
func ReadConfig(configReader io.Reader, keyProvider func() ([]byte, error)) (*Config, bool, error) {
	reader := bufio.NewReader(configReader)

	pref, err := reader.Peek(len(EncryptConfirmString))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, false, err
	}

	if !ConfirmECS(pref) {
		// Read unencrypted configuration
		data, err := io.ReadAll(reader)
		if err != nil {
			return nil, false, err
		}
		c, err := decode(data)
		return c, false, err
	}

	conf, err := readEncryptedConfWithKey(reader, keyProvider)
	return conf, true, err
}

// readEncryptedConfWithKey reads encrypted configuration and requests key
// from provider
func readEncryptedConfWithKey(reader io.Reader, keyProvider func() ([]byte, error)) (*Config, error) {
	fileData, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	for range maxAuthFailures {
		key, err := keyProvider()
		if err != nil {
			log.Errorf(log.ConfigMgr, "PromptForConfigKey err: %s", err)
			continue
		}

		c, err := readEncryptedConf(bytes.NewReader(fileData), key)
		if err != nil {
			log.Errorln(log.ConfigMgr, "Could not decrypt and deserialise data with given key. Invalid password?", err)
			continue
		}
		return c, nil
	}
	return nil, errDecryptFailed
}

func readEncryptedConf(reader io.Reader, key []byte) (*Config, error) {
	session := &Config{}
	data, err := session.decryptConfigData(reader, key)
	if err != nil {
		return nil, err
	}

	c, err := decode(data)
	if err != nil {
		return nil, err
	}
	c.sessionDK, c.storedSalt = session.sessionDK, session.storedSalt
	return c, nil
}

// SaveConfigToFile saves your configuration to your desired path as a JSON
// object. The data is encrypted when configured, asking keyProvider for a
// key if none is held for the session.
func (c *Config) SaveConfigToFile(configPath string, keyProvider func() ([]byte, error)) (err error) {
	var writer *os.File
	provider := func() (io.Writer, error) {
		writer, err = os.OpenFile(configPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		return writer, err
	}
	defer func() {
		if writer != nil {
			if closeErr := writer.Close(); closeErr != nil {
				err = errors.Join(err, closeErr)
			}
		}
	}()
	return c.Save(provider, keyProvider)
}

// Save saves your configuration to the writer as a JSON object with
// encryption, if configured. If there is an error when preparing the data to
// store, the writer is never requested.
func (c *Config) Save(writerProvider func() (io.Writer, error), keyProvider func() ([]byte, error)) error {
	payload, err := json.MarshalIndent(c, "", " ")
	if err != nil {
		return err
	}

	if c.EncryptConfig == fileEncryptionEnabled {
		// Ensure we have the key from session or from user
		if len(c.sessionDK) == 0 {
			key, err := keyProvider()
			if err != nil {
				return err
			}
			sessionDK, storedSalt, err := makeNewSessionDK(key)
			if err != nil {
				return err
			}
			c.sessionDK, c.storedSalt = sessionDK, storedSalt
		}
		payload, err = c.encryptConfigData(payload)
		if err != nil {
			return err
		}
	}
	configWriter, err := writerProvider()
	if err != nil {
		return err
	}
	_, err = io.Copy(configWriter, bytes.NewReader(payload))
	return err
}

// PromptForEncryption asks whether the config should be encrypted when the
// choice has not been made yet. It returns true when the caller should save
// the config.
func (c *Config) PromptForEncryption(r io.Reader) bool {
	if c.EncryptConfig != fileEncryptionPrompt {
		return false
	}
	confirm, err := promptForConfigEncryption(r)
	if err != nil {
		log.Errorf(log.ConfigMgr, "The encryption prompt failed, ignoring for now, next time we will prompt again. Error: %s\n", err)
		return false
	}
	if confirm {
		c.EncryptConfig = fileEncryptionEnabled
	} else {
		c.EncryptConfig = fileEncryptionDisabled
	}
	return true
}

// CheckLoggerConfig checks to see logger values are present
func (c *Config) CheckLoggerConfig() error {
	defaults := log.GenDefaultSettings()
	if c.Logging.Enabled == nil || c.Logging.Output == "" {
		c.Logging = defaults
	}

	if c.Logging.AdvancedSettings.ShowLogSystemName == nil {
		c.Logging.AdvancedSettings.ShowLogSystemName = defaults.AdvancedSettings.ShowLogSystemName
	}
	if c.Logging.AdvancedSettings.Spacer == "" {
		c.Logging.AdvancedSettings.Spacer = defaults.AdvancedSettings.Spacer
	}
	if c.Logging.AdvancedSettings.TimeStampFormat == "" {
		c.Logging.AdvancedSettings.TimeStampFormat = defaults.AdvancedSettings.TimeStampFormat
	}
	if c.Logging.AdvancedSettings.Headers.Info == "" {
		c.Logging.AdvancedSettings.Headers = defaults.AdvancedSettings.Headers
	}

	if err := log.SetGlobalLogConfig(&c.Logging); err != nil {
		return err
	}
	if err := log.SetupGlobalLogger(); err != nil {
		return err
	}
	return log.SetupSubLoggers(c.Logging.SubLoggers)
}

// CheckExchangeConfigValues checks the exchange settings and applies
// defaults
func (c *Config) CheckExchangeConfigValues() error {
	e := &c.Exchange
	if e.Name == "" {
		e.Name = DefaultName
	}

	e.Profile = strings.ToLower(strings.TrimSpace(e.Profile))
	switch e.Profile {
	case "":
		e.Profile = DefaultProfile
	case "retail", "exchange":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidProfile, e.Profile)
	}

	if e.UseSandbox && e.Profile != "exchange" {
		return errSandboxRequiresExchange
	}

	if e.HTTPTimeout <= 0 {
		log.Warnf(log.ConfigMgr, "Exchange %s HTTP Timeout value not set, defaulting to %v.\n", e.Name, DefaultHTTPTimeout)
		e.HTTPTimeout = DefaultHTTPTimeout
	}

	if e.Retry.MaxAttempts == 0 {
		e.Retry.MaxAttempts = DefaultMaxAttempts
	}
	if e.Retry.MaxAttempts < 1 {
		return fmt.Errorf("%w: %d", errInvalidRetryAttempts, e.Retry.MaxAttempts)
	}
	if e.Retry.BackoffBase <= 0 {
		e.Retry.BackoffBase = DefaultBackoffBase
	}
	if e.Retry.BackoffMax <= 0 {
		e.Retry.BackoffMax = DefaultBackoffMax
	}
	if e.Retry.BackoffBase > e.Retry.BackoffMax {
		return fmt.Errorf("%w: %s > %s", errInvalidBackoff, e.Retry.BackoffBase, e.Retry.BackoffMax)
	}
	if e.Retry.Jitter < 0 || e.Retry.Jitter > 1 {
		return fmt.Errorf("%w: %v", errInvalidJitter, e.Retry.Jitter)
	}

	if e.API.AuthenticatedSupport {
		creds := &e.API.Credentials
		failed := creds.Key == "" || creds.Key == DefaultAPIKey ||
			creds.Secret == "" || creds.Secret == DefaultAPISecret
		// The exchange profile signs with a passphrase bound to the key
		if e.Profile == "exchange" && (creds.ClientID == "" || creds.ClientID == DefaultAPIClientID) {
			failed = true
		}
		if failed {
			e.API.AuthenticatedSupport = false
			log.Warnf(log.ConfigMgr, WarningExchangeAuthAPIDefaultOrEmptyValues, e.Name)
		}
	}
	return nil
}

// CheckConfig checks all config settings
func (c *Config) CheckConfig() error {
	if c == nil {
		return errConfigNil
	}
	if err := c.CheckLoggerConfig(); err != nil {
		log.Errorf(log.ConfigMgr, "Failed to configure logger, some logging features unavailable: %s\n", err)
	}

	if err := c.CheckExchangeConfigValues(); err != nil {
		return fmt.Errorf(ErrCheckingConfigValues, err)
	}
	return nil
}

// LoadConfig loads your configuration file into your configuration object
func (c *Config) LoadConfig(configPath string, keyProvider func() ([]byte, error)) error {
	if err := c.ReadConfigFromFile(configPath, keyProvider); err != nil {
		return fmt.Errorf(ErrFailureOpeningConfig, configPath, err)
	}

	return c.CheckConfig()
}

// PurgeExchangeAPICredentials resets the credentials to their default values
func (c *Config) PurgeExchangeAPICredentials() {
	c.Exchange.API.AuthenticatedSupport = false
	c.Exchange.API.Credentials = APICredentialsConfig{
		Key:    DefaultAPIKey,
		Secret: DefaultAPISecret,
	}
	if c.Exchange.Profile == "exchange" {
		c.Exchange.API.Credentials.ClientID = DefaultAPIClientID
	}
}
