package dataflows

import (
	"github.com/shopspring/decimal"

	"github.com/africagold/goldintel/internal/models"
)

// fxTickers maps currency codes to Yahoo Finance FX pair symbols.
var fxTickers = map[string]string{
	"ZAR": "USDZAR=X",
	"GHS": "USDGHS=X",
	"NGN": "USDNGN=X",
	"KES": "USDKES=X",
	"EGP": "USDEGP=X",
	"MAD": "USDMAD=X",
}

// fallbackRates are approximate rates used when a live FX fetch fails.
// Updated periodically.
var fallbackRates = map[string]float64{
	"ZAR": 18.50,
	"GHS": 15.80,
	"NGN": 1620.0,
	"KES": 129.0,
	"EGP": 50.5,
	"MAD": 10.05,
}

// FetchFXRates returns USD rates for every tracked African currency. A
// currency whose fetch and fallback both fail is simply absent from the map.
func (yc *YahooClient) FetchFXRates() map[string]float64 {
	rates := make(map[string]float64, len(fxTickers))
	for _, currency := range models.TrackedCurrencies {
		ticker, ok := fxTickers[currency]
		if !ok {
			continue
		}
		closes, err := yc.fetchCloses(ticker, 5)
		if err == nil && len(closes) > 0 {
			rates[currency] = closes[len(closes)-1]
			continue
		}
		if fb, ok := fallbackRates[currency]; ok {
			rates[currency] = fb
		}
	}
	return rates
}

// KaratTable converts a USD spot price per troy ounce into per-gram local
// prices for every karat purity, keyed by currency then karat label.
func KaratTable(goldUSD float64, fxRates map[string]float64) map[string]map[string]decimal.Decimal {
	perGramUSD := decimal.NewFromFloat(goldUSD).Div(decimal.NewFromFloat(models.TroyOzToGram))

	table := make(map[string]map[string]decimal.Decimal, len(fxRates))
	for currency, rate := range fxRates {
		perGramLocal := perGramUSD.Mul(decimal.NewFromFloat(rate))
		row := make(map[string]decimal.Decimal, len(models.KaratFractions))
		for karat, frac := range models.KaratFractions {
			row[karat] = perGramLocal.Mul(decimal.NewFromFloat(frac)).Round(2)
		}
		table[currency] = row
	}
	return table
}
