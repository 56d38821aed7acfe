package dataflows

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/africagold/goldintel/internal/config"
	"github.com/africagold/goldintel/internal/models"
)

const maxHeadlines = 6

// MarketFetcher assembles the immutable market snapshot that seeds every
// pipeline run. Gold is the only instrument whose absence is fatal; every
// other fetch degrades to a nil quote or an absent map entry.
type MarketFetcher struct {
	yahoo  *YahooClient
	news   *NewsClient
	logger *zap.Logger
}

func NewMarketFetcher(cfg *config.Config, logger *zap.Logger) *MarketFetcher {
	return &MarketFetcher{
		yahoo:  NewYahooClient(cfg),
		news:   NewNewsClient(cfg),
		logger: logger,
	}
}

// Fetch gathers quotes, FX rates, the karat price table, and headlines.
func (mf *MarketFetcher) Fetch() (*models.MarketSnapshot, error) {
	gold, err := mf.yahoo.FetchQuote(GoldTicker)
	if err != nil {
		return nil, fmt.Errorf("gold quote unavailable: %w", err)
	}

	snapshot := &models.MarketSnapshot{
		Gold:      *gold,
		Silver:    mf.optionalQuote(SilverTicker),
		DXY:       mf.optionalQuote(DXYTicker),
		SP500:     mf.optionalQuote(SP500Ticker),
		BTC:       mf.optionalQuote(BTCTicker),
		FetchedAt: time.Now(),
	}

	snapshot.FXRates = mf.yahoo.FetchFXRates()
	snapshot.KaratPrices = KaratTable(gold.Price, snapshot.FXRates)
	snapshot.News = mf.news.FetchHeadlines(maxHeadlines)

	mf.logger.Info("market snapshot assembled",
		zap.Float64("gold_price", gold.Price),
		zap.Float64("day_pct", gold.DayChgPct),
		zap.Int("fx_rates", len(snapshot.FXRates)),
		zap.Int("headlines", len(snapshot.News)),
	)
	return snapshot, nil
}

func (mf *MarketFetcher) optionalQuote(symbol string) *models.Quote {
	q, err := mf.yahoo.FetchQuote(symbol)
	if err != nil {
		mf.logger.Warn("quote unavailable", zap.String("symbol", symbol), zap.Error(err))
		return nil
	}
	return q
}
