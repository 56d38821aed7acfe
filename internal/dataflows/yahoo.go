package dataflows

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"

	"github.com/africagold/goldintel/internal/config"
	"github.com/africagold/goldintel/internal/models"
)

// Instrument tickers tracked by the daily briefing.
const (
	GoldTicker   = "GC=F"
	SilverTicker = "SI=F"
	DXYTicker    = "DX-Y.NYB"
	SP500Ticker  = "^GSPC"
	BTCTicker    = "BTC-USD"
)

const rsiPeriod = 14

// YahooClient fetches quotes and daily history from Yahoo Finance.
type YahooClient struct {
	cache *CacheManager
}

func NewYahooClient(cfg *config.Config) *YahooClient {
	cacheDir := filepath.Join(cfg.CacheDir, "yahoo_finance")
	return &YahooClient{
		cache: NewCacheManager(cacheDir, 1*time.Hour, cfg.CacheEnabled),
	}
}

// FetchQuote builds a quote from 30 days of daily closes. The window keeps
// RSI-14 computable, which needs at least 15 closes.
func (yc *YahooClient) FetchQuote(symbol string) (*models.Quote, error) {
	var cached models.Quote
	if yc.cache.Get("yahoo", "quote", symbol, &cached) {
		return &cached, nil
	}

	closes, err := yc.fetchCloses(symbol, 30)
	if err != nil {
		return nil, err
	}
	if len(closes) == 0 {
		return nil, fmt.Errorf("no price history for %s", symbol)
	}

	q := quoteFromCloses(symbol, closes)
	yc.cache.Set("yahoo", "quote", symbol, q)
	return q, nil
}

func (yc *YahooClient) fetchCloses(symbol string, days int) ([]float64, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -days)

	var closes []float64
	err := WithRetry(DefaultRetryConfig(), func() error {
		params := &chart.Params{
			Symbol:   symbol,
			Start:    datetime.New(&start),
			End:      datetime.New(&end),
			Interval: datetime.OneDay,
		}

		iter := chart.Get(params)
		closes = closes[:0]
		for iter.Next() {
			bar := iter.Bar()
			c, _ := bar.Close.Float64()
			closes = append(closes, c)
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("fetch history for %s: %w", symbol, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return closes, nil
}

// quoteFromCloses derives day and week changes plus RSI from a close series,
// oldest first.
func quoteFromCloses(symbol string, closes []float64) *models.Quote {
	current := closes[len(closes)-1]
	prev := current
	if len(closes) >= 2 {
		prev = closes[len(closes)-2]
	}

	// Week change compares against 5 trading days back.
	weekIdx := len(closes) - 6
	if weekIdx < 0 {
		weekIdx = 0
	}
	weekAgo := closes[weekIdx]

	q := &models.Quote{
		Symbol: symbol,
		Price:  current,
		Prev:   prev,
		DayChg: current - prev,
		RSI:    CalcRSI(closes, rsiPeriod),
	}
	if prev != 0 {
		q.DayChgPct = q.DayChg / prev * 100
	}
	if weekAgo != 0 {
		q.WeekChgPct = (current - weekAgo) / weekAgo * 100
	}
	return q
}
