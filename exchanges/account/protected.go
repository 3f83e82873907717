package account

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/thrasher-corp/coinbase/common/crypto"
)

// Public errors for credential access
var (
	ErrCredentialsAreEmpty = errors.New("credentials are empty")
	ErrCredentialsClosed   = errors.New("credentials have been closed")
	ErrSecretEmpty         = errors.New("api secret is empty")
	ErrSecretNotBase64     = errors.New("api secret is not valid base64")
	ErrKeyEmpty            = errors.New("api key is empty")
	ErrNoOneTimePassword   = errors.New("no one time password seed configured")
)

// Protected holds credentials for the lifetime of a client. Secret material
// is kept in owned byte slices that Close overwrites. The secret is only
// reachable through WithSecret.
type Protected struct {
	mu         sync.RWMutex
	key        string
	secret     []byte
	passphrase []byte
	otpSeed    []byte
	base64     bool
	closed     bool
}

// NewProtected copies creds into a new credential store
func NewProtected(creds *Credentials) (*Protected, error) {
	if creds.IsEmpty() {
		return nil, ErrCredentialsAreEmpty
	}
	return &Protected{
		key:        creds.Key,
		secret:     []byte(creds.Secret),
		passphrase: []byte(creds.ClientID),
		otpSeed:    []byte(creds.OneTimePassword),
		base64:     creds.SecretBase64Decoded,
	}, nil
}

// Key returns the api key
func (p *Protected) Key() (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return "", ErrCredentialsClosed
	}
	if p.key == "" {
		return "", ErrKeyEmpty
	}
	return p.key, nil
}

// Passphrase returns the api passphrase, which may be empty
func (p *Protected) Passphrase() (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return "", ErrCredentialsClosed
	}
	return string(p.passphrase), nil
}

// WithSecret calls fn with the signing key. When the secret is distributed
// base64 encoded the decoded key is given. The slice passed to fn is a
// scratch copy wiped when WithSecret returns, including when fn panics, so fn
// must not retain it.
func (p *Protected) WithSecret(fn func(secret []byte) error) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrCredentialsClosed
	}
	if len(p.secret) == 0 {
		return ErrSecretEmpty
	}

	var scratch []byte
	if p.base64 {
		var err error
		scratch, err = crypto.Base64DecodeInto(p.secret)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSecretNotBase64, err)
		}
		if len(scratch) == 0 {
			return ErrSecretEmpty
		}
	} else {
		scratch = make([]byte, len(p.secret))
		copy(scratch, p.secret)
	}
	defer crypto.Wipe(scratch)
	return fn(scratch)
}

// HasOneTimePassword reports whether a TOTP seed is configured
func (p *Protected) HasOneTimePassword() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return !p.closed && len(p.otpSeed) > 0
}

// OneTimePassword generates the TOTP code for t
func (p *Protected) OneTimePassword(t time.Time) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return "", ErrCredentialsClosed
	}
	if len(p.otpSeed) == 0 {
		return "", ErrNoOneTimePassword
	}
	return totp.GenerateCode(string(p.otpSeed), t)
}

// Close wipes all secret material. It is safe to call more than once.
func (p *Protected) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	crypto.Wipe(p.secret)
	crypto.Wipe(p.passphrase)
	crypto.Wipe(p.otpSeed)
	p.secret, p.passphrase, p.otpSeed = nil, nil, nil
	p.closed = true
}

// IsClosed reports whether Close has been called
func (p *Protected) IsClosed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.closed
}

// String strings the credentials in a protected way.
func (p *Protected) String() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return "Key:[closed]"
	}
	c := Credentials{
		Key:             p.key,
		ClientID:        string(p.passphrase),
		OneTimePassword: string(p.otpSeed),
	}
	return c.String()
}

// Equal determines if the keys are the same
func (p *Protected) Equal(other *Credentials) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return !p.closed && other != nil && p.key == other.Key && string(p.passphrase) == other.ClientID
}
