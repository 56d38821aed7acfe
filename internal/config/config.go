package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every tunable the pipeline reads. It is built once at
// startup and injected; nothing below the CLI layer touches the process
// environment.
type Config struct {
	ProjectDir string `json:"project_dir"`
	DataDir    string `json:"data_dir"`
	CacheDir   string `json:"cache_dir"`
	LogPath    string `json:"log_path"`

	// Quality gate bounds.
	PriceFloor      float64 `json:"price_floor"`
	PriceCeiling    float64 `json:"price_ceiling"`
	DayMovePctLimit float64 `json:"day_move_pct_limit"`

	// Monetization cooldowns, in days.
	PromoCooldownDays int `json:"promo_cooldown_days"`
	HardCooldownDays  int `json:"hard_cooldown_days"`

	// Monetization strategy ladder score thresholds.
	PromoScoreMin    int `json:"promo_score_min"`
	HardScoreMin     int `json:"hard_score_min"`
	SoftScoreMin     int `json:"soft_score_min"`
	ReminderScoreMin int `json:"reminder_score_min"`

	// Subscription price points, USD.
	MonthlyPrice float64 `json:"monthly_price"`
	AnnualPrice  float64 `json:"annual_price"`
	PromoPrice   float64 `json:"promo_price"`

	HTTPTimeout  time.Duration `json:"http_timeout"`
	FeedTimeout  time.Duration `json:"feed_timeout"`
	CacheEnabled bool          `json:"cache_enabled"`
	Debug        bool          `json:"debug"`

	// Beehiiv API credentials. Empty values disable the API channel.
	BeehiivAPIKey string `json:"beehiiv_api_key"`
	BeehiivPubID  string `json:"beehiiv_pub_id"`

	// Beehiiv dashboard login for the browser channel.
	BeehiivEmail    string `json:"beehiiv_email"`
	BeehiivPassword string `json:"beehiiv_password"`
	SessionPath     string `json:"session_path"`

	// SMTP settings for the email fallback and oversight notifications.
	NotifyEmail    string `json:"notify_email"`
	NotifyPassword string `json:"notify_password"`
	SMTPHost       string `json:"smtp_host"`
	SMTPPort       int    `json:"smtp_port"`

	SiteBaseURL string `json:"site_base_url"`
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()

	cfg := &Config{
		ProjectDir: currentDir,
		DataDir:    filepath.Join(currentDir, "data"),
		CacheDir:   filepath.Join(currentDir, "data", "cache"),
		LogPath:    filepath.Join(currentDir, "data", "run_log.jsonl"),

		PriceFloor:      800,
		PriceCeiling:    15000,
		DayMovePctLimit: 10,

		PromoCooldownDays: 14,
		HardCooldownDays:  3,

		PromoScoreMin:    80,
		HardScoreMin:     65,
		SoftScoreMin:     45,
		ReminderScoreMin: 25,

		MonthlyPrice: 9,
		AnnualPrice:  79,
		PromoPrice:   59,

		HTTPTimeout:  20 * time.Second,
		FeedTimeout:  10 * time.Second,
		CacheEnabled: true,
		Debug:        false,

		SessionPath: filepath.Join(currentDir, "data", "beehiiv_session.json"),

		SMTPHost: "smtp.gmail.com",
		SMTPPort: 587,

		SiteBaseURL: "https://africagoldintel.com",
	}

	_ = godotenv.Load()
	cfg.loadFromEnv()

	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("GOLDINTEL_DATA_DIR"); val != "" {
		c.DataDir = val
		c.CacheDir = filepath.Join(val, "cache")
		c.LogPath = filepath.Join(val, "run_log.jsonl")
		c.SessionPath = filepath.Join(val, "beehiiv_session.json")
	}
	if val := os.Getenv("GOLDINTEL_LOG_PATH"); val != "" {
		c.LogPath = val
	}

	if val := os.Getenv("GOLDINTEL_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
	if val := os.Getenv("CACHE_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.CacheEnabled = enabled
		}
	}

	if val := os.Getenv("BEEHIIV_API_KEY"); val != "" {
		c.BeehiivAPIKey = val
	}
	if val := os.Getenv("BEEHIIV_PUB_ID"); val != "" {
		c.BeehiivPubID = val
	}
	if val := os.Getenv("BEEHIIV_EMAIL"); val != "" {
		c.BeehiivEmail = val
	}
	if val := os.Getenv("BEEHIIV_PASSWORD"); val != "" {
		c.BeehiivPassword = val
	}

	if val := os.Getenv("NOTIFY_EMAIL"); val != "" {
		c.NotifyEmail = val
	}
	if val := os.Getenv("NOTIFY_PASSWORD"); val != "" {
		c.NotifyPassword = val
	}
	if val := os.Getenv("SMTP_HOST"); val != "" {
		c.SMTPHost = val
	}
	if val := os.Getenv("SMTP_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.SMTPPort = port
		}
	}

	if val := os.Getenv("SITE_BASE_URL"); val != "" {
		c.SiteBaseURL = val
	}
}

// HasAPICredentials reports whether the Beehiiv API channel can run.
func (c *Config) HasAPICredentials() bool {
	return c.BeehiivAPIKey != "" && c.BeehiivPubID != ""
}

// HasBrowserCredentials reports whether the browser channel can log in.
func (c *Config) HasBrowserCredentials() bool {
	return c.BeehiivEmail != "" && c.BeehiivPassword != ""
}

// HasSMTPCredentials reports whether outbound email can be sent.
func (c *Config) HasSMTPCredentials() bool {
	return c.NotifyEmail != "" && c.NotifyPassword != ""
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.DataDir, c.CacheDir, filepath.Dir(c.LogPath)}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
