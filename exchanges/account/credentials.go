package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/grpc/metadata"
)

// contextCredential is a string flag for use with context values when setting
// credentials internally or via gRPC.
type contextCredential string

const (
	// ContextCredentialsFlag used for retrieving api credentials from context
	ContextCredentialsFlag contextCredential = "apicredentials"

	apiKeyDisplaySize = 8
)

// Default credential values
const (
	Key             = "key"
	Secret          = "secret"
	ClientID        = "clientid"
	OneTimePassword = "otp"
)

var (
	errMetaDataIsNil                   = errors.New("meta data is nil")
	errInvalidCredentialMetaDataLength = errors.New("invalid meta data to process credentials")
	errMissingInfo                     = errors.New("cannot parse meta data missing information in key value pair")
)

// Credentials define parameters that allow for an authenticated request.
// ClientID carries the API passphrase issued alongside exchange keys and
// OneTimePassword an optional base32 TOTP seed used for two factor headers.
type Credentials struct {
	Key                 string
	Secret              string
	ClientID            string
	OneTimePassword     string
	SecretBase64Decoded bool
}

// GetMetaData returns the credentials for metadata context deployment
func (c *Credentials) GetMetaData() (flag, values string) {
	vals := make([]string, 0, 4)
	if c.Key != "" {
		vals = append(vals, Key+":"+c.Key)
	}
	if c.Secret != "" {
		vals = append(vals, Secret+":"+c.Secret)
	}
	if c.ClientID != "" {
		vals = append(vals, ClientID+":"+c.ClientID)
	}
	if c.OneTimePassword != "" {
		vals = append(vals, OneTimePassword+":"+c.OneTimePassword)
	}
	return string(ContextCredentialsFlag), strings.Join(vals, ",")
}

// String prints out basic credential info (obfuscated) to track key instances
// associated with exchanges.
func (c *Credentials) String() string {
	obfuscated := c.Key
	if len(obfuscated) > apiKeyDisplaySize {
		obfuscated = obfuscated[:apiKeyDisplaySize]
	}
	return fmt.Sprintf("Key:[%s...] Passphrase:[%t] OTP:[%t]",
		obfuscated,
		c.ClientID != "",
		c.OneTimePassword != "")
}

// IsEmpty return true if the underlying credentials type has not been filled
// with at least one item.
func (c *Credentials) IsEmpty() bool {
	return c == nil || c.ClientID == "" &&
		c.Key == "" &&
		c.OneTimePassword == "" &&
		c.Secret == ""
}

// Equal determines if the keys are the same.
// OTP omitted because it's generated per request.
// Secret omitted because of direct correlation with api key.
func (c *Credentials) Equal(other *Credentials) bool {
	return c != nil &&
		other != nil &&
		c.Key == other.Key &&
		c.ClientID == other.ClientID
}

// ParseCredentialsMetadata reads credentials sent as gRPC metadata in the
// GetMetaData format and deploys them to the returned context
func ParseCredentialsMetadata(ctx context.Context, md metadata.MD) (context.Context, error) {
	if md == nil {
		return ctx, errMetaDataIsNil
	}
	vals := md.Get(string(ContextCredentialsFlag))
	switch len(vals) {
	case 0:
		return ctx, nil
	case 1:
	default:
		return ctx, fmt.Errorf("%w: %d values", errInvalidCredentialMetaDataLength, len(vals))
	}

	var creds Credentials
	fields := map[string]*string{
		Key:             &creds.Key,
		Secret:          &creds.Secret,
		ClientID:        &creds.ClientID,
		OneTimePassword: &creds.OneTimePassword,
	}
	for pair := range strings.SplitSeq(vals[0], ",") {
		name, value, ok := strings.Cut(pair, ":")
		if !ok {
			return ctx, fmt.Errorf("%w: %q", errMissingInfo, pair)
		}
		if field, known := fields[name]; known {
			*field = value
		}
	}
	return DeployCredentialsToContext(ctx, &creds), nil
}

// DeployCredentialsToContext sets credentials for internal use to context which
// can override default credential values.
func DeployCredentialsToContext(ctx context.Context, creds *Credentials) context.Context {
	if creds.IsEmpty() {
		return ctx
	}
	// Segregate from external call
	cpy := *creds
	return context.WithValue(ctx, ContextCredentialsFlag, &cpy)
}

// CredentialsFromContext returns any credentials deployed to ctx
func CredentialsFromContext(ctx context.Context) (*Credentials, bool) {
	creds, ok := ctx.Value(ContextCredentialsFlag).(*Credentials)
	if !ok || creds == nil {
		return nil, false
	}
	cpy := *creds
	return &cpy, true
}
