package main

import (
	"errors"
	"flag"
	"log"
	"time"

	"github.com/thrasher-corp/coinbase/config"
	"github.com/thrasher-corp/coinbase/exchanges/account"
)

var errNoOTPSecret = errors.New("no OTP secret stored in config")

// generateCode returns the current two factor code for the configured seed
func generateCode(exch *config.Exchange, at time.Time) (string, error) {
	if exch.API.Credentials.OTPSecret == "" {
		return "", errNoOTPSecret
	}
	creds, err := account.NewProtected(&account.Credentials{OneTimePassword: exch.API.Credentials.OTPSecret})
	if err != nil {
		return "", err
	}
	defer creds.Close()
	return creds.OneTimePassword(at)
}

func main() {
	var inFile string
	var watch bool
	flag.StringVar(&inFile, "infile", config.File, "The config input file to process.")
	flag.BoolVar(&watch, "watch", false, "Keep printing a new code every period.")
	flag.Parse()

	log.Println("Coinbase: OTP code generator tool.")

	cfg := config.DefaultConfig()
	err := cfg.LoadConfig(inFile, func() ([]byte, error) { return config.PromptForConfigKey(false) })
	if err != nil {
		log.Fatal(err)
	}
	log.Println("Loaded config file.")

	for {
		code, err := generateCode(&cfg.Exchange, time.Now())
		if err != nil {
			log.Fatalf("%s: Failed to generate OTP code. Err: %s", cfg.Exchange.Name, err)
		}
		log.Printf("%s: %s", cfg.Exchange.Name, code)
		if !watch {
			return
		}
		time.Sleep(time.Second * 30)
	}
}
