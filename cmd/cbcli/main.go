package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/thrasher-corp/coinbase/config"
	"github.com/thrasher-corp/coinbase/encoding/json"
	"github.com/thrasher-corp/coinbase/exchanges/account"
	"github.com/thrasher-corp/coinbase/exchanges/coinbase"
	"github.com/thrasher-corp/coinbase/signaler"
	"github.com/urfave/cli/v2"
)

var (
	configPath    string
	profile       string
	timeout       time.Duration
	exchangeCreds account.Credentials
	verbose       bool
	syncClock     bool
)

const defaultTimeout = time.Second * 30

var errConfigNotFound = errors.New("config file not found")

func jsonOutput(in any) {
	j, err := json.MarshalIndent(in, "", " ")
	if err != nil {
		return
	}
	fmt.Println(string(j))
}

// loadConfig reads the config file when one is given, otherwise defaults
// with credentials from the environment
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		cfg, _, err := config.ReadConfig(strings.NewReader(""), nil)
		if err != nil {
			return nil, err
		}
		return cfg, cfg.CheckConfig()
	}
	cfg := config.DefaultConfig()
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", errConfigNotFound, path)
	}
	keyProvider := func() ([]byte, error) { return config.PromptForConfigKey(false) }
	if err := cfg.LoadConfig(path, keyProvider); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupClient returns a configured client along with a context carrying the
// command timeout and any credential overrides
func setupClient(c *cli.Context) (*coinbase.Coinbase, context.Context, context.CancelFunc, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	if profile != "" {
		cfg.Exchange.Profile = profile
	}
	if verbose {
		cfg.Exchange.Verbose = true
	}
	if err := cfg.CheckExchangeConfigValues(); err != nil {
		return nil, nil, nil, err
	}

	cb := new(coinbase.Coinbase)
	if err := cb.Setup(&cfg.Exchange); err != nil {
		return nil, nil, nil, err
	}

	ctx, cancel := context.WithTimeout(c.Context, timeout)
	if !exchangeCreds.IsEmpty() {
		ctx = account.DeployCredentialsToContext(ctx, &exchangeCreds)
	}
	if syncClock {
		if _, err := cb.SyncClock(ctx); err != nil {
			cancel()
			_ = cb.Shutdown()
			return nil, nil, nil, err
		}
	}
	return cb, ctx, cancel, nil
}

func closeClient(cb *coinbase.Coinbase, cancel context.CancelFunc) {
	if err := cb.Shutdown(); err != nil {
		fmt.Println(err)
	}
	if cancel != nil {
		cancel()
	}
}

func main() {
	app := cli.NewApp()
	app.Name = "cbcli"
	app.EnableBashCompletion = true
	app.Usage = "command line interface for the Coinbase REST APIs"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "path to a config file, environment credentials are used when unset",
			EnvVars:     []string{"COINBASE_CONFIG"},
			Destination: &configPath,
		},
		&cli.StringFlag{
			Name:        "profile",
			Usage:       "API profile to use: retail or exchange",
			Destination: &profile,
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Value:       defaultTimeout,
			Usage:       "the context timeout for a command including all retries",
			Destination: &timeout,
		},
		&cli.StringFlag{
			Name:        "apikey",
			Usage:       "override config API key for request",
			Destination: &exchangeCreds.Key,
		},
		&cli.StringFlag{
			Name:        "apisecret",
			Usage:       "override config API secret for request",
			Destination: &exchangeCreds.Secret,
		},
		&cli.StringFlag{
			Name:        "apipassphrase",
			Usage:       "override config API passphrase for request",
			Destination: &exchangeCreds.ClientID,
		},
		&cli.StringFlag{
			Name:        "apionetimepassword",
			Usage:       "override config API one time password seed for request",
			Destination: &exchangeCreds.OneTimePassword,
		},
		&cli.BoolFlag{
			Name:        "verbose",
			Usage:       "log requests and responses",
			Destination: &verbose,
		},
		&cli.BoolFlag{
			Name:        "syncclock",
			Usage:       "correct request timestamps with the server time before running",
			Destination: &syncClock,
		},
	}
	app.Commands = []*cli.Command{
		getBuyPriceCommand,
		getSellPriceCommand,
		getSpotPriceCommand,
		getCurrenciesCommand,
		getExchangeRatesCommand,
		getTimeCommand,
		getAccountsCommand,
		getAccountCommand,
		getUserCommand,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		// Capture cancel for interrupt
		<-signaler.WaitForInterrupt()
		cancel()
		fmt.Println("cbcli interrupted")
		os.Exit(1)
	}()

	err := app.RunContext(ctx, os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
