package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrasher-corp/coinbase/exchanges/mock"
	"github.com/urfave/cli/v2"
)

func writeConfig(t *testing.T, apiURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	data := fmt.Sprintf(`{"encryptConfig":-1,"exchange":{"profile":"retail","apiURL":%q,"retry":{"maxAttempts":2,"backoffBase":"10ms","backoffMax":"20ms"}}}`, apiURL)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(t, err, errConfigNotFound)

	cfg, err := loadConfig(writeConfig(t, "https://localhost"))
	require.NoError(t, err)
	assert.Equal(t, "retail", cfg.Exchange.Profile)
	assert.Equal(t, "https://localhost", cfg.Exchange.APIURL)
	assert.Equal(t, 2, cfg.Exchange.Retry.MaxAttempts)

	cfg, err = loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "retail", cfg.Exchange.Profile)
}

func TestCommands(t *testing.T) {
	srv := mock.NewServer()
	t.Cleanup(srv.Close)
	srv.Script(http.MethodGet, "/v2/prices/BTC-USD/buy", nil, mock.Reply{Body: `{"data":{"amount":"12.345678","currency":"USD"}}`})
	srv.Script(http.MethodGet, "/v2/prices/BTC-USD/spot", nil, mock.Reply{Body: `{"data":{"amount":"12.1","currency":"USD"}}`})
	srv.Script(http.MethodGet, "/v2/time", nil, mock.Reply{Body: `{"data":{"iso":"2015-06-23T18:02:51Z","epoch":1435082571}}`})

	configPath = writeConfig(t, srv.URL)
	timeout = 5 * time.Second
	t.Cleanup(func() { configPath, timeout = "", 0 })

	app := &cli.App{
		Name: "cbcli",
		Commands: []*cli.Command{
			getBuyPriceCommand,
			getSpotPriceCommand,
			getTimeCommand,
		},
	}
	require.NoError(t, app.RunContext(t.Context(), []string{"cbcli", "buyprice", "BTC-USD"}))
	require.NoError(t, app.RunContext(t.Context(), []string{"cbcli", "spotprice", "--pair", "BTC-USD", "--date", "2024-01-02"}))
	require.NoError(t, app.RunContext(t.Context(), []string{"cbcli", "time"}))
	require.ErrorIs(t, app.RunContext(t.Context(), []string{"cbcli", "buyprice"}), errPairRequired)
	require.Error(t, app.RunContext(t.Context(), []string{"cbcli", "spotprice", "--date", "02/01/2024", "BTC-USD"}))

	assert.Equal(t, 1, srv.Calls(http.MethodGet, "/v2/prices/BTC-USD/buy"))
	assert.Equal(t, 1, srv.Calls(http.MethodGet, "/v2/time"))
	reqs := srv.Requests()
	require.Len(t, reqs, 3)
	assert.Equal(t, "2024-01-02", reqs[1].Query.Get("date"))
}
