package main

import (
	"errors"
	"time"

	"github.com/thrasher-corp/coinbase/exchanges/coinbase"
	"github.com/urfave/cli/v2"
)

const spotDateLayout = "2006-01-02"

var errPairRequired = errors.New("currency pair required, e.g. BTC-USD")

var getBuyPriceCommand = &cli.Command{
	Name:      "buyprice",
	Usage:     "gets the total price to buy one unit of the base currency",
	ArgsUsage: "<pair>",
	Action:    getBuyPrice,
	Flags:     []cli.Flag{pairFlag()},
}

var getSellPriceCommand = &cli.Command{
	Name:      "sellprice",
	Usage:     "gets the total price to sell one unit of the base currency",
	ArgsUsage: "<pair>",
	Action:    getSellPrice,
	Flags:     []cli.Flag{pairFlag()},
}

var getSpotPriceCommand = &cli.Command{
	Name:      "spotprice",
	Usage:     "gets the current or historic market price",
	ArgsUsage: "<pair>",
	Action:    getSpotPrice,
	Flags: []cli.Flag{
		pairFlag(),
		&cli.StringFlag{
			Name:  "date",
			Usage: "historic UTC date formatted " + spotDateLayout,
		},
	},
}

var getCurrenciesCommand = &cli.Command{
	Name:   "currencies",
	Usage:  "lists the currencies known to the API",
	Action: getCurrencies,
}

var getExchangeRatesCommand = &cli.Command{
	Name:   "rates",
	Usage:  "gets exchange rates for a base currency",
	Action: getExchangeRates,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "currency",
			Value: "USD",
			Usage: "the base currency",
		},
	},
}

var getTimeCommand = &cli.Command{
	Name:   "time",
	Usage:  "gets the API server time",
	Action: getTime,
}

var getAccountsCommand = &cli.Command{
	Name:   "accounts",
	Usage:  "lists the accounts of the authenticated user",
	Action: getAccounts,
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "limit",
			Usage: "the page size for retail accounts",
		},
		&cli.StringFlag{
			Name:  "startingafter",
			Usage: "the cursor to continue from for retail accounts",
		},
	},
}

var getAccountCommand = &cli.Command{
	Name:      "account",
	Usage:     "gets a single account of the authenticated user",
	ArgsUsage: "<id>",
	Action:    getAccount,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "id",
			Usage: "the account ID",
		},
	},
}

var getUserCommand = &cli.Command{
	Name:   "user",
	Usage:  "gets the user the credentials belong to",
	Action: getUser,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "twofactor",
			Usage: "send a two factor token generated from the one time password seed",
		},
	},
}

func pairFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "pair",
		Usage: "the currency pair, e.g. BTC-USD",
	}
}

// flagOrArg returns the named flag when set, else the first argument
func flagOrArg(c *cli.Context, name string) string {
	if c.IsSet(name) {
		return c.String(name)
	}
	return c.Args().First()
}

func getBuyPrice(c *cli.Context) error {
	pair := flagOrArg(c, "pair")
	if pair == "" {
		return errPairRequired
	}
	cb, ctx, cancel, err := setupClient(c)
	if err != nil {
		return err
	}
	defer closeClient(cb, cancel)

	result, err := cb.GetBuyPrice(ctx, pair)
	if err != nil {
		return err
	}
	jsonOutput(result)
	return nil
}

func getSellPrice(c *cli.Context) error {
	pair := flagOrArg(c, "pair")
	if pair == "" {
		return errPairRequired
	}
	cb, ctx, cancel, err := setupClient(c)
	if err != nil {
		return err
	}
	defer closeClient(cb, cancel)

	result, err := cb.GetSellPrice(ctx, pair)
	if err != nil {
		return err
	}
	jsonOutput(result)
	return nil
}

func getSpotPrice(c *cli.Context) error {
	pair := flagOrArg(c, "pair")
	if pair == "" {
		return errPairRequired
	}
	var date time.Time
	if d := c.String("date"); d != "" {
		var err error
		date, err = time.Parse(spotDateLayout, d)
		if err != nil {
			return err
		}
	}
	cb, ctx, cancel, err := setupClient(c)
	if err != nil {
		return err
	}
	defer closeClient(cb, cancel)

	result, err := cb.GetSpotPrice(ctx, pair, date)
	if err != nil {
		return err
	}
	jsonOutput(result)
	return nil
}

func getCurrencies(c *cli.Context) error {
	cb, ctx, cancel, err := setupClient(c)
	if err != nil {
		return err
	}
	defer closeClient(cb, cancel)

	result, err := cb.GetCurrencies(ctx)
	if err != nil {
		return err
	}
	jsonOutput(result)
	return nil
}

func getExchangeRates(c *cli.Context) error {
	cb, ctx, cancel, err := setupClient(c)
	if err != nil {
		return err
	}
	defer closeClient(cb, cancel)

	result, err := cb.GetExchangeRates(ctx, c.String("currency"))
	if err != nil {
		return err
	}
	jsonOutput(result)
	return nil
}

func getTime(c *cli.Context) error {
	cb, ctx, cancel, err := setupClient(c)
	if err != nil {
		return err
	}
	defer closeClient(cb, cancel)

	result, err := cb.GetCurrentTime(ctx)
	if err != nil {
		return err
	}
	jsonOutput(result)
	return nil
}

func getAccounts(c *cli.Context) error {
	cb, ctx, cancel, err := setupClient(c)
	if err != nil {
		return err
	}
	defer closeClient(cb, cancel)

	if cb.Profile == coinbase.ExchangeProfile {
		result, err := cb.GetExchangeAccounts(ctx)
		if err != nil {
			return err
		}
		jsonOutput(result)
		return nil
	}
	result, err := cb.GetAccounts(ctx, &coinbase.PaginationParams{
		Limit:         c.Int("limit"),
		StartingAfter: c.String("startingafter"),
	})
	if err != nil {
		return err
	}
	jsonOutput(result)
	return nil
}

func getAccount(c *cli.Context) error {
	id := flagOrArg(c, "id")
	if id == "" {
		return cli.ShowCommandHelp(c, c.Command.Name)
	}
	cb, ctx, cancel, err := setupClient(c)
	if err != nil {
		return err
	}
	defer closeClient(cb, cancel)

	if cb.Profile == coinbase.ExchangeProfile {
		result, err := cb.GetExchangeAccount(ctx, id)
		if err != nil {
			return err
		}
		jsonOutput(result)
		return nil
	}
	result, err := cb.GetAccount(ctx, id)
	if err != nil {
		return err
	}
	jsonOutput(result)
	return nil
}

func getUser(c *cli.Context) error {
	cb, ctx, cancel, err := setupClient(c)
	if err != nil {
		return err
	}
	defer closeClient(cb, cancel)

	if c.Bool("twofactor") {
		ctx = coinbase.WithTwoFactor(ctx)
	}
	result, err := cb.GetCurrentUser(ctx)
	if err != nil {
		return err
	}
	jsonOutput(result)
	return nil
}
