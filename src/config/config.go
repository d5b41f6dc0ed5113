package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr  string
	Env         string
	DatabaseURL string
	OrderTTL    time.Duration
	SlippageBps int64
	AppData     string
	OrderBook   OrderBookConfig
}

type OrderBookConfig struct {
	BaseURL string
}

// LoadFromEnv reads configuration from environment variables with fallback defaults.
// It also loads `.env` if present (for local development).
func LoadFromEnv() *Config {
	// Load .env if exists, ignore error if no file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, relying on environment variables")
	}

	listenAddr := getEnv("LISTEN_ADDR", ":8080")
	env := getEnv("ENV", "dev")
	ttlStr := getEnv("ORDER_TTL", "30m")
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("[FATAL] DATABASE_URL is required")
	}

	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		log.Fatalf("[FATAL] Invalid ORDER_TTL duration: %v", err)
	}

	slippageStr := getEnv("QUOTE_SLIPPAGE_BPS", "50")
	slippage, err := strconv.ParseInt(slippageStr, 10, 64)
	if err != nil || slippage < 0 || slippage >= 10000 {
		log.Fatalf("[FATAL] Invalid QUOTE_SLIPPAGE_BPS: %s", slippageStr)
	}

	return &Config{
		ListenAddr:  listenAddr,
		Env:         env,
		DatabaseURL: databaseURL,
		OrderTTL:    ttl,
		SlippageBps: slippage,
		AppData:     getEnv("APP_DATA", ""),
		OrderBook: OrderBookConfig{
			BaseURL: getEnv("ORDER_BOOK_BASE_URL", "https://api.cow.fi"),
		},
	}
}

// helper to get env with default fallback
func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
