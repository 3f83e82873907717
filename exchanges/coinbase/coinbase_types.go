package coinbase

import (
	"net/url"
	"strconv"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/coinbase/encoding/json"
	"github.com/thrasher-corp/coinbase/types"
)

// Currency is a currency known to the API
type Currency struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	MinSize      decimal.Decimal `json:"min_size"`
	Status       string          `json:"status,omitempty"`
	MaxPrecision decimal.Decimal `json:"max_precision"`
}

// ExchangeRates holds the value of one unit of Currency in other currencies
type ExchangeRates struct {
	Currency string                     `json:"currency"`
	Rates    map[string]decimal.Decimal `json:"rates"`
}

// CurrencyPrice is a buy, sell or spot price
type CurrencyPrice struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Base     string          `json:"base,omitempty"`
}

// ServerTime is the API server time
type ServerTime struct {
	ISO   types.Time `json:"iso"`
	Epoch types.Time `json:"epoch"`
}

// Pagination is the cursor returned with list responses
type Pagination struct {
	EndingBefore         string `json:"ending_before"`
	StartingAfter        string `json:"starting_after"`
	PreviousEndingBefore string `json:"previous_ending_before"`
	NextStartingAfter    string `json:"next_starting_after"`
	Limit                int    `json:"limit"`
	Order                string `json:"order"`
	PreviousURI          string `json:"previous_uri"`
	NextURI              string `json:"next_uri"`
}

// PaginationParams requests a page of a list endpoint
type PaginationParams struct {
	Limit         int
	Order         string
	StartingAfter string
	EndingBefore  string
}

func (p *PaginationParams) values() url.Values {
	v := url.Values{}
	if p == nil {
		return v
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Order != "" {
		v.Set("order", p.Order)
	}
	if p.StartingAfter != "" {
		v.Set("starting_after", p.StartingAfter)
	}
	if p.EndingBefore != "" {
		v.Set("ending_before", p.EndingBefore)
	}
	return v
}

// Page is a single page of a list response
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}

// UnmarshalJSON decodes the data array of a list response into Items
func (p *Page[T]) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &p.Items)
}

func (p *Page[T]) pagination() *Pagination { return &p.Pagination }

// Balance is an amount in a currency
type Balance struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// AccountCurrency is the currency of an account. Older responses carry only
// the currency code as a string.
type AccountCurrency struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	Color        string `json:"color,omitempty"`
	Exponent     int    `json:"exponent,omitempty"`
	Type         string `json:"type,omitempty"`
	AddressRegex string `json:"address_regex,omitempty"`
	AssetID      string `json:"asset_id,omitempty"`
}

// UnmarshalJSON accepts both a currency code string and a currency object
func (a *AccountCurrency) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &a.Code)
	}
	type alias AccountCurrency
	return json.Unmarshal(data, (*alias)(a))
}

// Account is a retail wallet account
type Account struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Primary      bool            `json:"primary"`
	Type         string          `json:"type"`
	Currency     AccountCurrency `json:"currency"`
	Balance      Balance         `json:"balance"`
	CreatedAt    types.Time      `json:"created_at"`
	UpdatedAt    types.Time      `json:"updated_at"`
	Resource     string          `json:"resource"`
	ResourcePath string          `json:"resource_path"`
}

// Country is a user's country of residence
type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// User is the authenticated retail user
type User struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Username        string     `json:"username"`
	ProfileLocation string     `json:"profile_location"`
	ProfileBio      string     `json:"profile_bio"`
	ProfileURL      string     `json:"profile_url"`
	AvatarURL       string     `json:"avatar_url"`
	Resource        string     `json:"resource"`
	ResourcePath    string     `json:"resource_path"`
	Email           string     `json:"email"`
	TimeZone        string     `json:"time_zone"`
	NativeCurrency  string     `json:"native_currency"`
	BitcoinUnit     string     `json:"bitcoin_unit"`
	State           string     `json:"state"`
	Country         Country    `json:"country"`
	CreatedAt       types.Time `json:"created_at"`
}

// ExchangeAccount is a trading account on the exchange profile
type ExchangeAccount struct {
	ID             uuid.UUID       `json:"id"`
	Currency       string          `json:"currency"`
	Balance        decimal.Decimal `json:"balance"`
	Available      decimal.Decimal `json:"available"`
	Hold           decimal.Decimal `json:"hold"`
	ProfileID      uuid.UUID       `json:"profile_id"`
	TradingEnabled bool            `json:"trading_enabled"`
}
