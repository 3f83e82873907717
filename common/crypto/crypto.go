package crypto

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
)

// Const declarations for hash types supported for request signing
const (
	HashSHA256 = iota + 1
	HashSHA512
	HashSHA512_384
)

var (
	errHashTypeUnsupported = errors.New("hash type unsupported")
	errSaltLengthTooSmall  = errors.New("salt length is too small")
)

// HexEncodeToString takes in a hexadecimal byte array and returns a string
func HexEncodeToString(input []byte) string {
	return hex.EncodeToString(input)
}

// Base64Decode takes in a Base64 string and returns a byte array and an error
func Base64Decode(input string) ([]byte, error) {
	result, err := base64.StdEncoding.DecodeString(input)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Base64DecodeInto decodes src into a freshly allocated buffer which the
// caller owns and is expected to wipe once finished with it.
func Base64DecodeInto(src []byte) ([]byte, error) {
	dst := make([]byte, base64.StdEncoding.DecodedLen(len(src)))
	n, err := base64.StdEncoding.Decode(dst, src)
	if err != nil {
		Wipe(dst)
		return nil, err
	}
	return dst[:n], nil
}

// Base64Encode takes in a byte array then returns an encoded base64 string
func Base64Encode(input []byte) string {
	return base64.StdEncoding.EncodeToString(input)
}

// GetRandomSalt returns a random salt
func GetRandomSalt(input []byte, saltLen int) ([]byte, error) {
	if saltLen <= 0 {
		return nil, errSaltLengthTooSmall
	}
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}

	var result []byte
	if input != nil {
		result = input
	}
	result = append(result, salt...)
	return result, nil
}

// GetSHA256 returns a SHA256 hash of a byte array
func GetSHA256(input []byte) []byte {
	sha := sha256.Sum256(input)
	return sha[:]
}

// GetHMAC returns a keyed-hash message authentication code using the desired
// hashtype
func GetHMAC(hashType int, input, key []byte) ([]byte, error) {
	var hasher func() hash.Hash

	switch hashType {
	case HashSHA256:
		hasher = sha256.New
	case HashSHA512:
		hasher = sha512.New
	case HashSHA512_384:
		hasher = sha512.New384
	default:
		return nil, fmt.Errorf("%w: %d", errHashTypeUnsupported, hashType)
	}

	h := hmac.New(hasher, key)
	h.Write(input)
	return h.Sum(nil), nil
}

// CheckHMAC reports whether mac is a valid code for input under key. The
// comparison runs in constant time.
func CheckHMAC(hashType int, input, key, mac []byte) (bool, error) {
	expected, err := GetHMAC(hashType, input, key)
	if err != nil {
		return false, err
	}
	return hmac.Equal(expected, mac), nil
}

// Wipe overwrites b with zeroes
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
