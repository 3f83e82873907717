package config

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptForConfigKey(t *testing.T) {
	t.Parallel()
	key, err := promptForConfigKey(bufio.NewReader(strings.NewReader("password1\n")), false)
	require.NoError(t, err)
	assert.Equal(t, "password1", string(key))

	_, err = promptForConfigKey(bufio.NewReader(strings.NewReader("short\n")), false)
	require.ErrorIs(t, err, errKeyTooShort)

	key, err = promptForConfigKey(bufio.NewReader(strings.NewReader("short\npassword1\nmismatch1\npassword2\npassword2\n")), true)
	require.NoError(t, err)
	assert.Equal(t, "password2", string(key))

	_, err = promptForConfigKey(bufio.NewReader(strings.NewReader("")), false)
	require.ErrorIs(t, err, errUserInput)
}

func TestEncryptDecryptConfigData(t *testing.T) {
	t.Parallel()
	_, err := EncryptConfigData([]byte("test"), nil)
	require.ErrorIs(t, err, errKeyIsEmpty)

	key := []byte("test_key_for_config")
	data := []byte(`{"name":"Coinbase"}`)
	encrypted, err := EncryptConfigData(data, key)
	require.NoError(t, err)
	require.True(t, ConfirmECS(encrypted))
	require.True(t, ConfirmSalt(RemoveECS(encrypted)))

	decrypted, err := DecryptConfigData(encrypted, key)
	require.NoError(t, err)
	assert.Equal(t, data, decrypted)

	_, err = DecryptConfigData(encrypted, []byte("wrong_key_for_config"))
	require.Error(t, err, "decrypting with the wrong key must error")

	_, err = DecryptConfigData(encrypted, nil)
	require.ErrorIs(t, err, errKeyIsEmpty)

	_, err = DecryptConfigData(data, key)
	require.ErrorIs(t, err, errNoPrefix)

	_, err = DecryptConfigData([]byte(EncryptConfirmString+"nosalt"), key)
	require.ErrorIs(t, err, errNoPrefix)

	_, err = DecryptConfigData([]byte(EncryptConfirmString+SaltPrefix+"short"), key)
	require.ErrorIs(t, err, errAESBlockSize)

	_, err = (&Config{}).encryptConfigData(data)
	require.ErrorIs(t, err, errNoSessionKey)
}

func TestConfirmECS(t *testing.T) {
	t.Parallel()
	assert.True(t, ConfirmECS([]byte(EncryptConfirmString+"data")))
	assert.False(t, ConfirmECS([]byte("data")))
}

func TestRemoveECS(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "data", string(RemoveECS([]byte(EncryptConfirmString+"data"))))
	assert.Equal(t, "data", string(RemoveECS([]byte("data"))))
}

func TestConfirmSalt(t *testing.T) {
	t.Parallel()
	assert.True(t, ConfirmSalt([]byte(SaltPrefix+"abc")))
	assert.False(t, ConfirmSalt([]byte("abc")))
}
