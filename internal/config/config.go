package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/guarzo/resaleprice/internal/model"
)

type EBayConfig struct {
	ClientID     string  `yaml:"client_id"`
	ClientSecret string  `yaml:"client_secret"`
	APIBaseURL   string  `yaml:"api_base_url"`
	TokenURL     string  `yaml:"token_url"`
	Scope        string  `yaml:"scope"`
	RatePerSec   float64 `yaml:"rate_per_sec"`
	PageSize     int     `yaml:"page_size"`
}

// Configured reports whether client credentials are present.
func (e EBayConfig) Configured() bool {
	return e.ClientID != "" && e.ClientSecret != ""
}

type FXConfig struct {
	URL           string `yaml:"url"`
	LocalCurrency string `yaml:"local_currency"`
}

type SoldSourceConfig struct {
	Enabled  bool          `yaml:"enabled"`
	BaseURL  string        `yaml:"base_url"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
	PerMin   int           `yaml:"requests_per_min"`
}

type DBConfig struct {
	Driver string `yaml:"driver"` // sqlite | postgres
	DSN    string `yaml:"dsn"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Config holds all process configuration.
type Config struct {
	EBay            EBayConfig       `yaml:"ebay"`
	FX              FXConfig         `yaml:"fx"`
	Sold            SoldSourceConfig `yaml:"sold_source"`
	Regions         []model.Region   `yaml:"regions"`
	HTTPTimeout     time.Duration    `yaml:"http_timeout"`
	Workers         int              `yaml:"workers"`
	QueueSize       int              `yaml:"queue_size"`
	DB              DBConfig         `yaml:"db"`
	HTTPAddr        string           `yaml:"http_addr"`
	RefreshSchedule string           `yaml:"refresh_schedule"`
	Log             LogConfig        `yaml:"log"`
}

// Load reads .env (if present), the environment, and finally the YAML file
// named by PRICING_CONFIG_FILE, whose keys override the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.WithField("component", "config").Info("no .env file found, using process environment")
	}

	cfg := &Config{
		EBay: EBayConfig{
			ClientID:     os.Getenv("EBAY_CLIENT_ID"),
			ClientSecret: os.Getenv("EBAY_CLIENT_SECRET"),
			APIBaseURL:   getEnv("EBAY_API_BASE_URL", "https://api.ebay.com"),
			TokenURL:     getEnv("EBAY_TOKEN_URL", "https://api.ebay.com/identity/v1/oauth2/token"),
			Scope:        getEnv("EBAY_SCOPE", "https://api.ebay.com/oauth/api_scope"),
			RatePerSec:   getEnvFloat("BROWSE_RATE_PER_SEC", 5),
			PageSize:     getEnvInt("BROWSE_PAGE_SIZE", 50),
		},
		FX: FXConfig{
			URL:           getEnv("FX_URL", "https://open.er-api.com/v6/latest/USD"),
			LocalCurrency: strings.ToUpper(getEnv("LOCAL_CURRENCY", "JPY")),
		},
		Sold: SoldSourceConfig{
			Enabled:  getEnvBool("SOLD_SOURCE_ENABLED", false),
			BaseURL:  os.Getenv("SOLD_SOURCE_BASE_URL"),
			CacheTTL: getEnvDuration("SOLD_SOURCE_CACHE_TTL", 30*time.Minute),
			PerMin:   getEnvInt("SOLD_SOURCE_PER_MIN", 20),
		},
		Regions:         model.DefaultRegions(),
		HTTPTimeout:     getEnvDuration("HTTP_TIMEOUT", 15*time.Second),
		Workers:         getEnvInt("WORKERS", 4),
		QueueSize:       getEnvInt("QUEUE_SIZE", 256),
		DB:              DBConfig{Driver: getEnv("DB_DRIVER", "sqlite"), DSN: getEnv("DB_DSN", "data/orders.db")},
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		RefreshSchedule: getEnv("REFRESH_SCHEDULE", "@every 45m"),
		Log:             LogConfig{Level: getEnv("LOG_LEVEL", "info"), File: os.Getenv("LOG_FILE")},
	}

	if path := os.Getenv("PRICING_CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the process cannot run with. Missing eBay
// credentials are not an error: sampling is simply unavailable.
func (c *Config) Validate() error {
	if len(c.Regions) == 0 {
		return fmt.Errorf("at least one region is required")
	}
	for _, r := range c.Regions {
		if r.Code == "" || r.MarketplaceID == "" {
			return fmt.Errorf("region %+v: code and marketplace_id are required", r)
		}
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("queue_size must be positive, got %d", c.QueueSize)
	}
	switch c.DB.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported db driver %q", c.DB.Driver)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func invalidValue(key, value string, def any) {
	logrus.WithFields(logrus.Fields{
		"component": "config",
		"key":       key,
		"value":     value,
		"default":   def,
	}).Warn("invalid environment value, using default")
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		invalidValue(key, v, def)
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		invalidValue(key, v, def)
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		invalidValue(key, v, def)
	}
	return def
}
