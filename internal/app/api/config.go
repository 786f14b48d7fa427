package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.temporal.io/sdk/client"
)

// defaultStockLevel is the quantity newly registered products are stocked at
// when no override is configured.
const defaultStockLevel = 5

// Config carries environment-driven settings for the API process.
type Config struct {
	Port              string
	PostgresDSN       string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	DefaultStockLevel int
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		DefaultStockLevel: defaultStockLevel,
	}
	if raw := strings.TrimSpace(os.Getenv("DEFAULT_STOCK_LEVEL")); raw != "" {
		level, err := strconv.Atoi(raw)
		if err != nil || level < 0 {
			return Config{}, fmt.Errorf("DEFAULT_STOCK_LEVEL must be a non-negative integer")
		}
		cfg.DefaultStockLevel = level
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
