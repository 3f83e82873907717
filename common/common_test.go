package common

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEnabled(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Enabled", IsEnabled(true))
	assert.Equal(t, "Disabled", IsEnabled(false))
}

func TestYesOrNo(t *testing.T) {
	t.Parallel()
	assert.True(t, YesOrNo("y"))
	assert.True(t, YesOrNo("YES"))
	assert.False(t, YesOrNo("nope"))
}

func TestEncodeURLValues(t *testing.T) {
	t.Parallel()
	values := url.Values{}
	values.Set("format", "json")
	values.Set("env", "TEST/DATABASE")
	assert.Equal(t, "https://www.test.com?env=TEST%2FDATABASE&format=json", EncodeURLValues("https://www.test.com", values))
	assert.Equal(t, "/accounts", EncodeURLValues("/accounts", nil))
}

func TestNewHTTPClientWithTimeout(t *testing.T) {
	t.Parallel()
	a := NewHTTPClientWithTimeout(time.Second * 5)
	b := NewHTTPClientWithTimeout(0)
	assert.Equal(t, time.Second*5, a.Timeout)

	trA, ok := a.Transport.(*http.Transport)
	require.True(t, ok, "transport must be an *http.Transport")
	trB, ok := b.Transport.(*http.Transport)
	require.True(t, ok, "transport must be an *http.Transport")
	assert.NotSame(t, trA, trB, "clients must not share a connection pool")
	assert.Equal(t, time.Second*5, trA.IdleConnTimeout)
	assert.Equal(t, defaultIdleConnTimeout, trB.IdleConnTimeout)
}

func TestExtractHostPath(t *testing.T) {
	t.Parallel()
	u, err := ExtractHostPath("https://api.coinbase.com/v2")
	require.NoError(t, err)
	assert.Equal(t, "api.coinbase.com", u.Host)

	_, err = ExtractHostPath("api.coinbase.com")
	assert.Error(t, err)
	_, err = ExtractHostPath("ftp://api.coinbase.com")
	assert.Error(t, err)
	_, err = ExtractHostPath("http://%zz")
	assert.Error(t, err)
}
