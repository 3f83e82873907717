package coinbase

import (
	"encoding/hex"
	"fmt"

	"github.com/thrasher-corp/coinbase/common"
	"github.com/thrasher-corp/coinbase/common/crypto"
	"github.com/thrasher-corp/coinbase/exchanges/account"
)

// SignatureEncoding selects the text encoding of the HMAC digest
type SignatureEncoding uint8

// Signature encodings
const (
	Base64Signature SignatureEncoding = iota
	HexSignature
)

func (e SignatureEncoding) String() string {
	switch e {
	case Base64Signature:
		return "base64"
	case HexSignature:
		return "hex"
	default:
		return fmt.Sprintf("SignatureEncoding(%d)", uint8(e))
	}
}

// Sign returns the HMAC-SHA256 of msg keyed by the credential secret, encoded
// with enc
func Sign(msg *CanonicalMessage, creds *account.Protected, enc SignatureEncoding) (string, error) {
	if msg == nil {
		return "", &AuthError{Err: fmt.Errorf("canonical message: %w", common.ErrNilPointer)}
	}
	if creds == nil {
		return "", &AuthError{Err: account.ErrCredentialsAreEmpty}
	}
	var sig string
	err := creds.WithSecret(func(secret []byte) error {
		mac, err := crypto.GetHMAC(crypto.HashSHA256, msg.Bytes(), secret)
		if err != nil {
			return err
		}
		switch enc {
		case Base64Signature:
			sig = crypto.Base64Encode(mac)
		case HexSignature:
			sig = crypto.HexEncodeToString(mac)
		default:
			return fmt.Errorf("%w: %s", errUnsupportedEncoding, enc)
		}
		return nil
	})
	if err != nil {
		return "", &AuthError{Err: err}
	}
	return sig, nil
}

// VerifySignature reports whether signature is the valid signature of msg in
// constant time
func VerifySignature(msg *CanonicalMessage, creds *account.Protected, enc SignatureEncoding, signature string) (bool, error) {
	if msg == nil {
		return false, fmt.Errorf("canonical message: %w", common.ErrNilPointer)
	}
	if creds == nil {
		return false, account.ErrCredentialsAreEmpty
	}
	var mac []byte
	var err error
	switch enc {
	case Base64Signature:
		mac, err = crypto.Base64Decode(signature)
	case HexSignature:
		mac, err = hex.DecodeString(signature)
	default:
		return false, fmt.Errorf("%w: %s", errUnsupportedEncoding, enc)
	}
	if err != nil {
		return false, nil //nolint:nilerr // a malformed signature is an invalid signature
	}
	var ok bool
	err = creds.WithSecret(func(secret []byte) error {
		ok, err = crypto.CheckHMAC(crypto.HashSHA256, msg.Bytes(), secret, mac)
		return err
	})
	if err != nil {
		return false, &AuthError{Err: err}
	}
	return ok, nil
}
