package dataflows

import (
	"encoding/xml"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/africagold/goldintel/internal/config"
	"github.com/africagold/goldintel/internal/models"
)

// newsFeeds are ordered by reliability; the fetch stops once enough
// relevant items are collected.
var newsFeeds = []struct {
	Source string
	URL    string
}{
	{"Kitco", "https://www.kitco.com/rss/feed/news.xml"},
	{"Investing.com", "https://www.investing.com/rss/news_25.rss"},
	{"FX Street", "https://www.fxstreet.com/rss/news"},
	{"Nasdaq", "https://www.nasdaq.com/feed/rssoutbound?category=Commodities"},
	{"BullionVault", "https://www.bullionvault.com/gold-news/rss.do"},
	{"MarketWatch", "https://feeds.marketwatch.com/marketwatch/marketpulse/"},
}

var goldKeywords = []string{
	"gold", "xau", "bullion", "precious metal", "silver", "platinum",
	"fed rate", "federal reserve", "inflation", "dollar index", "safe haven",
	"treasury yield", "bond yield", "real yield", "commodity",
	"rate cut", "rate hike", "fomc", "powell", "central bank",
}

const maxItemsPerFeed = 40

type rssDoc struct {
	XMLName xml.Name   `xml:"rss"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title string    `xml:"title"`
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

// NewsClient pulls gold-relevant headlines from commodity RSS feeds.
type NewsClient struct {
	client *resty.Client
	cache  *CacheManager
}

func NewNewsClient(cfg *config.Config) *NewsClient {
	client := resty.New()
	client.SetTimeout(cfg.FeedTimeout)
	client.SetHeader("User-Agent", "Mozilla/5.0 (compatible; goldintel/1.0)")

	cacheDir := filepath.Join(cfg.CacheDir, "news")
	return &NewsClient{
		client: client,
		cache:  NewCacheManager(cacheDir, 30*time.Minute, cfg.CacheEnabled),
	}
}

// FetchHeadlines returns at most maxItems relevant headlines. Dead feeds
// are skipped; a per-feed timeout keeps one slow feed from stalling the run.
func (nc *NewsClient) FetchHeadlines(maxItems int) []models.Headline {
	var cached []models.Headline
	if nc.cache.Get("rss", "headlines", maxItems, &cached) {
		return cached
	}

	var items []models.Headline
	for _, feed := range newsFeeds {
		if len(items) >= maxItems {
			break
		}
		entries, err := nc.fetchFeed(feed.URL)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if len(items) >= maxItems {
				break
			}
			if !isGoldRelevant(entry.Title, entry.Description) {
				continue
			}
			link := entry.Link
			if link == "" {
				link = "#"
			}
			items = append(items, models.Headline{
				Source: feed.Source,
				Title:  cleanHTML(entry.Title),
				Link:   link,
			})
		}
	}

	nc.cache.Set("rss", "headlines", maxItems, items)
	return items
}

func (nc *NewsClient) fetchFeed(url string) ([]rssItem, error) {
	resp, err := nc.client.R().Get(url)
	if err != nil {
		return nil, err
	}

	var doc rssDoc
	if err := xml.Unmarshal(resp.Body(), &doc); err != nil {
		return nil, err
	}

	items := doc.Channel.Items
	if len(items) > maxItemsPerFeed {
		items = items[:maxItemsPerFeed]
	}
	return items, nil
}

func isGoldRelevant(title, summary string) bool {
	text := strings.ToLower(title + " " + summary)
	for _, kw := range goldKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// cleanHTML strips markup that some feeds embed in titles.
func cleanHTML(s string) string {
	if !strings.Contains(s, "<") && !strings.Contains(s, "&") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}
