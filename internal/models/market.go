package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TroyOzToGram is the conversion factor from troy ounces to grams.
const TroyOzToGram = 31.1035

// KaratFractions maps karat labels to their pure-gold fraction.
var KaratFractions = map[string]float64{
	"24K": 1.0,
	"22K": 22.0 / 24.0,
	"18K": 18.0 / 24.0,
	"14K": 14.0 / 24.0,
	"9K":  9.0 / 24.0,
}

// RequiredCurrencies are the FX rates the briefing cannot ship without a
// warning about. The full tracked set additionally includes EGP and MAD.
var RequiredCurrencies = []string{"ZAR", "GHS", "NGN", "KES"}

// TrackedCurrencies is the full set of African currencies in the karat table.
var TrackedCurrencies = []string{"ZAR", "GHS", "NGN", "KES", "EGP", "MAD"}

// CurrencySymbols maps currency codes to display symbols.
var CurrencySymbols = map[string]string{
	"ZAR": "R", "GHS": "GH₵", "NGN": "₦",
	"KES": "KSh", "EGP": "E£", "MAD": "DH",
}

// Quote is a point-in-time price for a single instrument.
type Quote struct {
	Symbol     string   `json:"symbol"`
	Price      float64  `json:"price"`
	Prev       float64  `json:"prev"`
	DayChg     float64  `json:"day_chg"`
	DayChgPct  float64  `json:"day_chg_pct"`
	WeekChgPct float64  `json:"week_chg_pct"`
	RSI        *float64 `json:"rsi,omitempty"`
}

// Headline is one relevant news item pulled from the RSS feeds.
type Headline struct {
	Source string `json:"source"`
	Title  string `json:"title"`
	Link   string `json:"link"`
}

// MarketSnapshot is the immutable result of the market-intelligence fetch.
// It is created once per run and never mutated afterward; every later stage
// reads from it.
type MarketSnapshot struct {
	Gold   Quote  `json:"gold"`
	Silver *Quote `json:"silver,omitempty"`
	DXY    *Quote `json:"dxy,omitempty"`
	SP500  *Quote `json:"sp500,omitempty"`
	BTC    *Quote `json:"btc,omitempty"`

	// FXRates maps currency code to the USD rate. A missing key means the
	// fetch (and its fallback) produced nothing for that currency.
	FXRates map[string]float64 `json:"fx_rates"`

	// KaratPrices maps currency code -> karat label -> local price per gram.
	KaratPrices map[string]map[string]decimal.Decimal `json:"karat_prices"`

	News []Headline `json:"news"`

	FetchedAt time.Time `json:"fetched_at"`
}

// KaratPrice returns the per-gram price for a currency and karat, or zero
// when the currency is not in the table.
func (s *MarketSnapshot) KaratPrice(currency, karat string) decimal.Decimal {
	if row, ok := s.KaratPrices[currency]; ok {
		return row[karat]
	}
	return decimal.Zero
}
