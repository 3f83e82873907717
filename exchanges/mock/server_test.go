package mock

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, rawURL string) (int, string) {
	t.Helper()
	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, rawURL, http.NoBody)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func TestServerScript(t *testing.T) {
	t.Parallel()
	s := NewServer()
	defer s.Close()

	s.Script(http.MethodGet, "/v2/time", nil,
		Reply{Status: http.StatusServiceUnavailable, Body: `{"message":"down"}`},
		Reply{Body: `{"data":{"epoch":1}}`},
	)

	code, _ := get(t, s.URL+"/v2/time")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	code, body := get(t, s.URL+"/v2/time")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"data":{"epoch":1}}`, body)
	code, _ = get(t, s.URL+"/v2/time")
	assert.Equal(t, http.StatusOK, code, "last reply should repeat")
	assert.Equal(t, 3, s.Calls(http.MethodGet, "/v2/time"))

	code, body = get(t, s.URL+"/missing")
	assert.Equal(t, http.StatusNotFound, code)
	assert.JSONEq(t, `{"message":"route not found"}`, body)
	assert.Zero(t, s.Calls(http.MethodGet, "/missing"))

	reqs := s.Requests()
	require.Len(t, reqs, 4)
	assert.Equal(t, "/missing", reqs[3].Path)
}

func TestServerQueryMatch(t *testing.T) {
	t.Parallel()
	s := NewServer()
	defer s.Close()
	s.Script(http.MethodGet, "/v2/exchange-rates", url.Values{"currency": {"BTC"}}, Reply{Body: `{}`})

	code, _ := get(t, s.URL+"/v2/exchange-rates?currency=BTC")
	assert.Equal(t, http.StatusOK, code)
	code, _ = get(t, s.URL+"/v2/exchange-rates?currency=ETH")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, []string{"ETH"}, s.Requests()[1].Query["currency"])
}

func TestServerVerifier(t *testing.T) {
	t.Parallel()
	s := NewServer()
	defer s.Close()
	s.Script(http.MethodGet, "/accounts", nil, Reply{Body: `[]`, Header: http.Header{"X-Test": {"1"}}})
	s.SetVerifier(func(r *http.Request, _ []byte) error {
		if r.Header.Get("CB-ACCESS-KEY") == "" {
			return errors.New("missing key")
		}
		return nil
	})

	code, body := get(t, s.URL+"/accounts")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.True(t, strings.Contains(body, "missing key"))
	assert.Zero(t, s.Calls(http.MethodGet, "/accounts"), "rejected requests should not consume replies")

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, s.URL+"/accounts", http.NoBody)
	require.NoError(t, err)
	req.Header.Set("CB-ACCESS-KEY", "k")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("X-Test"))
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}
