package config

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"time"
)

// CountryAccount holds the per-country Meta credentials decoded from
// META_COUNTRY_CONFIG. Ids may be empty when a country does not run a
// given surface.
type CountryAccount struct {
	AccessToken         string `json:"access_token"`
	AccountID           string `json:"account_id"`
	PageID              string `json:"page_id"`
	IGBusinessAccountID string `json:"ig_business_account_id"`
}

type Config struct {
	GraphBaseURL   string
	Accounts       map[string]CountryAccount
	MongoURI       string
	MongoDatabase  string
	PostgresDSN    string
	NATSUrl        string
	StatusAddr     string
	PageLimit      int
	MaxRetries     int
	RetryDelay     time.Duration
	PageTimeout    time.Duration
	HTTPTimeout    time.Duration
	RateLimit      time.Duration
	SinkRetries    int
	SinkRetryDelay time.Duration
	WorkerCount    int
	Environment    string
}

// Load reads the environment once and returns an immutable config.
// It fails instead of exiting so main can map config errors to exit code 2.
func Load() (*Config, error) {
	cfg := &Config{
		GraphBaseURL:   getEnv("GRAPH_BASE_URL", "https://graph.facebook.com/v20.0"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:  getEnv("MONGO_DATABASE", "meta_comments"),
		PostgresDSN:    getEnv("PG_DSN", ""),
		NATSUrl:        getEnv("NATS_URL", ""),
		StatusAddr:     getEnv("STATUS_ADDR", ""),
		PageLimit:      getIntEnv("PAGE_LIMIT", 100),
		MaxRetries:     getIntEnv("MAX_RETRIES", 5),
		RetryDelay:     getDurationEnv("RETRY_DELAY", "60s"),
		PageTimeout:    getDurationEnv("PAGE_TIMEOUT", "15m"),
		HTTPTimeout:    getDurationEnv("HTTP_TIMEOUT", "30s"),
		RateLimit:      getDurationEnv("RATE_LIMIT", "0s"),
		SinkRetries:    getIntEnv("SINK_RETRIES", 3),
		SinkRetryDelay: getDurationEnv("SINK_RETRY_DELAY", "2s"),
		WorkerCount:    getIntEnv("WORKER_COUNT", 1),
		Environment:    getEnv("ENVIRONMENT", "production"),
	}

	accounts, err := decodeCountryConfig(os.Getenv("META_COUNTRY_CONFIG"))
	if err != nil {
		return nil, err
	}
	cfg.Accounts = accounts

	log.Printf("Config loaded - Countries: %v, MaxRetries: %d, RetryDelay: %v, Workers: %d",
		cfg.Countries(), cfg.MaxRetries, cfg.RetryDelay, cfg.WorkerCount)

	return cfg, nil
}

// Countries returns the configured country codes in sorted order so runs
// walk the matrix deterministically.
func (c *Config) Countries() []string {
	codes := make([]string, 0, len(c.Accounts))
	for code := range c.Accounts {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func decodeCountryConfig(raw string) (map[string]CountryAccount, error) {
	if raw == "" {
		return nil, fmt.Errorf("META_COUNTRY_CONFIG is required")
	}

	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding META_COUNTRY_CONFIG: %w", err)
	}

	var accounts map[string]CountryAccount
	if err := json.Unmarshal(decoded, &accounts); err != nil {
		return nil, fmt.Errorf("parsing META_COUNTRY_CONFIG: %w", err)
	}

	for code, account := range accounts {
		if account.AccessToken == "" {
			log.Printf("Skipping country %s: no access token configured", code)
			delete(accounts, code)
		}
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("META_COUNTRY_CONFIG has no usable country entries")
	}

	return accounts, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
