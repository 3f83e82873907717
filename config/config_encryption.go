package config

import (
	"bufio"
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/thrasher-corp/coinbase/common"
	"github.com/thrasher-corp/coinbase/common/crypto"
	"golang.org/x/crypto/scrypt"
)

const (
	// EncryptConfirmString has a the general confirmation string to allow us to
	// see if the file is correctly encrypted
	EncryptConfirmString = "THORS-HAMMER"
	// SaltPrefix string
	SaltPrefix           = "~GCT~SO~SALTY~"
	// SaltRandomLength is the number of random bytes to append after the prefix string
	SaltRandomLength     = 12

	minKeyLength = 8
)

var (
	errAESBlockSize   = errors.New("config file data is too small for the AES required block size")
	errNoPrefix       = errors.New("data does not start with Encryption Prefix")
	errKeyIsEmpty     = errors.New("key is empty")
	errUserInput      = errors.New("error getting user input")
	errKeyTooShort    = fmt.Errorf("key must be at least %d characters", minKeyLength)
	errKeysDoNotMatch = errors.New("keys do not match")
	errNoSessionKey   = errors.New("no session key available")
)

// promptForConfigEncryption asks for encryption confirmation
// returns true if encryption was desired, false otherwise
func promptForConfigEncryption(r io.Reader) (bool, error) {
	fmt.Println("Would you like to encrypt your config file (y/n)?")

	input := ""
	if _, err := fmt.Fscanln(r, &input); err != nil {
		return false, err
	}

	return common.YesOrNo(input), nil
}

// PromptForConfigKey asks for configuration key
// if initialSetup is true, the password needs to be repeated
func PromptForConfigKey(initialSetup bool) ([]byte, error) {
	return promptForConfigKey(bufio.NewReader(os.Stdin), initialSetup)
}

func promptForConfigKey(r *bufio.Reader, initialSetup bool) ([]byte, error) {
	for {
		fmt.Println("Please enter in your password: ")
		key, err := readLine(r)
		if err != nil {
			return nil, err
		}
		if len(key) < minKeyLength {
			if !initialSetup {
				return nil, errKeyTooShort
			}
			fmt.Println(errKeyTooShort)
			continue
		}
		if !initialSetup {
			return key, nil
		}

		fmt.Println("Please re-enter your password: ")
		confirm, err := readLine(r)
		if err != nil {
			return nil, err
		}
		if !bytes.Equal(key, confirm) {
			crypto.Wipe(confirm)
			fmt.Println(errKeysDoNotMatch)
			continue
		}
		crypto.Wipe(confirm)
		return key, nil
	}
}

func readLine(r *bufio.Reader) ([]byte, error) {
	line, err := r.ReadBytes('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return nil, fmt.Errorf("%w: %w", errUserInput, err)
	}
	return bytes.TrimRight(line, "\r\n"), nil
}

// EncryptConfigData encrypts json config data with a key
func EncryptConfigData(configData, key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, errKeyIsEmpty
	}
	sessionDK, salt, err := makeNewSessionDK(key)
	if err != nil {
		return nil, err
	}
	c := &Config{
		sessionDK:  sessionDK,
		storedSalt: salt,
	}
	return c.encryptConfigData(configData)
}

// encryptConfigData encrypts json config data with the session key of the
// config. The layout is
// EncryptConfirmString | SaltPrefix | salt | nonce | ciphertext
func (c *Config) encryptConfigData(configData []byte) ([]byte, error) {
	if len(c.sessionDK) == 0 {
		return nil, errNoSessionKey
	}
	block, err := aes.NewCipher(c.sessionDK)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(EncryptConfirmString)+len(c.storedSalt)+len(nonce)+len(configData)+gcm.Overhead())
	out = append(out, EncryptConfirmString...)
	out = append(out, c.storedSalt...)
	out = append(out, nonce...)
	return gcm.Seal(out, nonce, configData, nil), nil
}

// DecryptConfigData decrypts config data with a key
func DecryptConfigData(d, key []byte) ([]byte, error) {
	return (&Config{}).decryptConfigData(bytes.NewReader(d), key)
}

// decryptConfigData decrypts config data with a key and keeps the derived
// session key so the config can be saved again without prompting
func (c *Config) decryptConfigData(configReader io.Reader, key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, errKeyIsEmpty
	}
	data, err := io.ReadAll(configReader)
	if err != nil {
		return nil, err
	}
	if !ConfirmECS(data) {
		return nil, errNoPrefix
	}
	data = RemoveECS(data)
	if !ConfirmSalt(data) {
		return nil, errNoPrefix
	}
	saltLen := len(SaltPrefix) + SaltRandomLength
	if len(data) < saltLen {
		return nil, errAESBlockSize
	}
	salt := data[:saltLen]
	data = data[saltLen:]

	dk, err := getScryptDK(key, salt)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(dk)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(data) < gcm.NonceSize()+gcm.Overhead() {
		return nil, errAESBlockSize
	}
	nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, err
	}
	c.sessionDK = dk
	c.storedSalt = append([]byte(nil), salt...)
	return plain, nil
}

// ConfirmSalt checks whether the encrypted data contains a salt
func ConfirmSalt(file []byte) bool {
	return bytes.HasPrefix(file, []byte(SaltPrefix))
}

// ConfirmECS confirms that the encryption confirmation string is found
func ConfirmECS(file []byte) bool {
	return bytes.HasPrefix(file, []byte(EncryptConfirmString))
}

// RemoveECS removes encryption confirmation string
func RemoveECS(file []byte) []byte {
	return bytes.TrimPrefix(file, []byte(EncryptConfirmString))
}

func getScryptDK(key, salt []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, errKeyIsEmpty
	}
	return scrypt.Key(key, salt, 32768, 8, 1, 32)
}

func makeNewSessionDK(key []byte) (dk, storedSalt []byte, err error) {
	storedSalt, err = crypto.GetRandomSalt([]byte(SaltPrefix), SaltRandomLength)
	if err != nil {
		return nil, nil, err
	}

	dk, err = getScryptDK(key, storedSalt)
	if err != nil {
		return nil, nil, err
	}

	return dk, storedSalt, nil
}
