package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"signalAnalytics/internal/analytics"
	"signalAnalytics/internal/matching"
	"signalAnalytics/internal/ports"
)

// Config holds all application configuration.
type Config struct {
	// Binance API (only public price endpoints are used; keys are optional)
	APIKey    string
	SecretKey string
	IsTestnet bool

	// UseMarkPrice marks open positions against the futures mark price
	// instead of the last traded price when the source supports it.
	UseMarkPrice bool

	// Engine policy
	FeePerSide   float64           // fee per trade leg, in percentage points
	ScoreWeights analytics.Weights // composite ranking weights

	// Report defaults
	ReportProvider string // provider to report on when running the main binary
	ReportPeriod   string // "week" | "month" | "all-time"

	// Database
	DBPath string

	// Logging
	LogLevel  string
	LogFormat string // "text" or "json"
	LogFile   string // empty means stderr
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var err error
	var errs []string // Collect validation errors

	cfg.APIKey = getEnv("BINANCE_API_KEY", "")
	cfg.SecretKey = getEnv("BINANCE_API_SECRET", "")
	cfg.IsTestnet = getEnvAsBool("IS_TESTNET", true)
	cfg.UseMarkPrice = getEnvAsBool("USE_MARK_PRICE", false)

	cfg.FeePerSide, err = getEnvAsFloat("FEE_PER_SIDE", matching.DefaultFeePerSide)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid FEE_PER_SIDE: %v", err))
	} else if cfg.FeePerSide < 0 {
		errs = append(errs, "FEE_PER_SIDE must not be negative")
	}

	cfg.ScoreWeights = analytics.DefaultWeights
	if w, werr := loadWeights(); werr != nil {
		errs = append(errs, werr.Error())
	} else if w != nil {
		cfg.ScoreWeights = *w
	}

	cfg.ReportProvider = getEnv("REPORT_PROVIDER", "")
	cfg.ReportPeriod = getEnv("REPORT_PERIOD", "all-time")
	switch cfg.ReportPeriod {
	case "week", "month", "all-time":
	default:
		errs = append(errs, fmt.Sprintf("invalid REPORT_PERIOD %q: must be week, month or all-time", cfg.ReportPeriod))
	}

	cfg.DBPath = getEnv("DB_PATH", "./data/executions.db")

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "text")
	cfg.LogFile = getEnv("LOG_FILE", "")

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ports.ErrConfigurationError, strings.Join(errs, "; "))
	}
	return cfg, nil
}

// loadWeights reads composite-score weight overrides. Either all four weight
// variables are set, or none; a partial override is a configuration error.
func loadWeights() (*analytics.Weights, error) {
	keys := []string{"SCORE_WEIGHT_WIN_RATE", "SCORE_WEIGHT_PNL", "SCORE_WEIGHT_SUBSCRIBERS", "SCORE_WEIGHT_CONSISTENCY"}
	set := 0
	for _, k := range keys {
		if os.Getenv(k) != "" {
			set++
		}
	}
	if set == 0 {
		return nil, nil
	}
	if set != len(keys) {
		return nil, fmt.Errorf("score weight overrides require all of %s", strings.Join(keys, ", "))
	}

	var w analytics.Weights
	var err error
	if w.WinRate, err = getEnvAsFloat(keys[0], 0); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", keys[0], err)
	}
	if w.PnL, err = getEnvAsFloat(keys[1], 0); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", keys[1], err)
	}
	if w.Subscribers, err = getEnvAsFloat(keys[2], 0); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", keys[2], err)
	}
	if w.Consistency, err = getEnvAsFloat(keys[3], 0); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", keys[3], err)
	}
	return &w, nil
}

// --- Environment variable helpers ---

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) (float64, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, fmt.Errorf("could not parse %s value %q as float: %w", key, valueStr, err)
	}
	return value, nil
}
