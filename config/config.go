package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Analysis
	Language        string // "pl" or "en"
	DefaultCurrency string // fallback when a price carries no symbol
	APIBaseURL      string // remote analysis service; empty = heuristics only
	APITimeoutSecs  int

	// Scraping
	RespectRobots bool
	DelayProfile  string // "cautious", "normal", "aggressive"
	Headless      bool   // enable the headless browser fallback
	LauncherURL   string // optional remote rod launcher

	// Rate limiting
	RatePerSecond float64
	RateBurst     int
	MaxConcurrent int

	// Storage
	StorageBackend string // "file" or "redis"
	StoragePath    string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	// Alert watcher
	WatchIntervalMins int

	// HTTP server
	HTTPPort string
	APIKey   string
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Language:          "pl",
		DefaultCurrency:   "PLN",
		APITimeoutSecs:    30,
		RespectRobots:     true,
		DelayProfile:      "normal",
		Headless:          true,
		RatePerSecond:     2.0,
		RateBurst:         3,
		MaxConcurrent:     3,
		StorageBackend:    "file",
		StoragePath:       defaultStoragePath(),
		RedisAddr:         "localhost:6379",
		WatchIntervalMins: 60,
		HTTPPort:          "8080",
	}
}

func defaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "nohype.json"
	}
	return home + "/.nohype/store.json"
}

// LoadFromEnv loads .env (if present) then overrides config from environment
// variables.
func (c *Config) LoadFromEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("NOHYPE_LANGUAGE"); v != "" {
		c.Language = v
	}
	if v := os.Getenv("NOHYPE_DEFAULT_CURRENCY"); v != "" {
		c.DefaultCurrency = v
	}
	if v := os.Getenv("NOHYPE_API_URL"); v != "" {
		c.APIBaseURL = v
	}
	if v := os.Getenv("NOHYPE_API_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.APITimeoutSecs = n
		}
	}
	if v := os.Getenv("NOHYPE_DELAY_PROFILE"); v != "" {
		c.DelayProfile = v
	}
	if v := os.Getenv("NOHYPE_RATE_PER_SECOND"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RatePerSecond = f
		}
	}
	if v := os.Getenv("NOHYPE_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RateBurst = n
		}
	}
	if v := os.Getenv("NOHYPE_MAX_CONCURRENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxConcurrent = n
		}
	}
	if v := os.Getenv("NOHYPE_RESPECT_ROBOTS"); v == "false" {
		c.RespectRobots = false
	}
	if v := os.Getenv("NOHYPE_HEADLESS"); v == "false" {
		c.Headless = false
	}
	if v := os.Getenv("NOHYPE_LAUNCHER_URL"); v != "" {
		c.LauncherURL = v
	}
	if v := os.Getenv("NOHYPE_STORAGE"); v != "" {
		c.StorageBackend = v
	}
	if v := os.Getenv("NOHYPE_STORAGE_PATH"); v != "" {
		c.StoragePath = v
	}
	if v := os.Getenv("NOHYPE_REDIS_ADDR"); v != "" {
		c.RedisAddr = v
	}
	if v := os.Getenv("NOHYPE_REDIS_PASSWORD"); v != "" {
		c.RedisPassword = v
	}
	if v := os.Getenv("NOHYPE_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisDB = n
		}
	}
	if v := os.Getenv("NOHYPE_WATCH_INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.WatchIntervalMins = n
		}
	}
	if v := os.Getenv("PORT"); v != "" {
		c.HTTPPort = v
	}
	if v := os.Getenv("NOHYPE_API_KEY"); v != "" {
		c.APIKey = v
	}
}
